package models

import "github.com/google/uuid"

type CbtObjQuestion struct {
	Base
	ExamID         uuid.UUID `gorm:"type:uuid;not null;index" json:"exam_id"`
	QuestionNumber int       `gorm:"not null" json:"question_number"`
	QuestionText   string    `gorm:"type:text;not null" json:"question_text"`
	Options        []string  `gorm:"serializer:json;type:text;not null" json:"options"`
	CorrectAnswer  string    `gorm:"type:text;not null" json:"-"`
	Score          float64   `gorm:"not null;default:1" json:"score"`
	ImageURL       *string   `gorm:"size:255" json:"image_url,omitempty"`
}

type CbtTheoryQuestion struct {
	Base
	ExamID         uuid.UUID `gorm:"type:uuid;not null;index" json:"exam_id"`
	QuestionNumber int       `gorm:"not null" json:"question_number"`
	QuestionText   string    `gorm:"type:text;not null" json:"question_text"`
	Marks          float64   `gorm:"not null" json:"marks"`
	ImageURL       *string   `gorm:"size:255" json:"image_url,omitempty"`
}
