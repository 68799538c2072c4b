package models

import (
	"time"

	"github.com/google/uuid"
)

type CbtAnswer struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption string    `json:"selected_option"`
}

type CbtResult struct {
	Base
	ExamID           uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_cbt_result_attempt" json:"exam_id"`
	StudentID        uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_cbt_result_attempt" json:"student_id"`
	Status           string      `gorm:"size:20;not null;default:'in_progress'" json:"status"`
	QuestionOrder    []uuid.UUID `gorm:"serializer:json;type:text" json:"-"`
	ResultDoc        []CbtAnswer `gorm:"serializer:json;type:text" json:"result_doc"`
	RemainingTime    int         `gorm:"not null" json:"remaining_time"`
	LastTimeUpdateAt time.Time   `gorm:"not null" json:"last_time_update_at"`
	StartedAt        time.Time   `gorm:"not null" json:"started_at"`
	SubmittedAt      *time.Time  `json:"submitted_at,omitempty"`
	TriggerType      *string     `gorm:"size:20" json:"trigger_type,omitempty"`
	ObjScore         float64     `gorm:"default:0" json:"obj_score"`
	ObjTotal         float64     `gorm:"default:0" json:"obj_total"`
	ResultSlipURL    *string     `gorm:"size:255" json:"result_slip_url,omitempty"`

	Exam    *CbtExam `gorm:"foreignkey:ExamID" json:"-"`
	Student *User    `gorm:"foreignkey:StudentID" json:"-"`
}
