package models

import "github.com/google/uuid"

type CbtAssessmentDocument struct {
	Base
	AcademicSessionID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cbt_document_key" json:"academic_session_id"`
	Term                        string    `gorm:"size:20;not null;uniqueIndex:idx_cbt_document_key" json:"term"`
	AssessmentType              string    `gorm:"size:50;not null;uniqueIndex:idx_cbt_document_key" json:"assessment_type"`
	MinObjQuestions             int       `gorm:"not null" json:"min_obj_questions"`
	MaxObjQuestions             int       `gorm:"not null" json:"max_obj_questions"`
	ExpectedObjNumberOfOptions  int       `gorm:"not null" json:"expected_obj_number_of_options"`
	NumberOfQuestionsPerStudent int       `gorm:"not null" json:"number_of_questions_per_student"`
	IsActive                    bool      `gorm:"not null" json:"is_active"`

	AcademicSession *AcademicSession `gorm:"foreignkey:AcademicSessionID" json:"academic_session,omitempty"`
}
