package models

import (
	"time"

	"github.com/google/uuid"
)

type CbtTimetable struct {
	Base
	AcademicSessionID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cbt_timetable_key" json:"academic_session_id"`
	ClassID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cbt_timetable_key" json:"class_id"`
	Term                 string    `gorm:"size:20;not null;uniqueIndex:idx_cbt_timetable_key" json:"term"`
	AssessmentType       string    `gorm:"size:50;not null;uniqueIndex:idx_cbt_timetable_key" json:"assessment_type"`
	Level                string    `gorm:"size:50;not null" json:"level"`
	AssessmentDocumentID uuid.UUID `gorm:"type:uuid;not null" json:"assessment_document_id"`
	CreatedByID          uuid.UUID `gorm:"type:uuid;not null" json:"created_by_id"`

	Class              *Class                 `gorm:"foreignkey:ClassID" json:"class,omitempty"`
	AssessmentDocument *CbtAssessmentDocument `gorm:"foreignkey:AssessmentDocumentID" json:"-"`
	Exams              []CbtExam              `gorm:"foreignkey:TimetableID" json:"exams"`
}

// CbtExam is one subject slot of a timetable; students write it between
// StartTime and StartTime+DurationMinutes.
type CbtExam struct {
	Base
	TimetableID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"timetable_id"`
	SubjectID       uuid.UUID  `gorm:"type:uuid;not null" json:"subject_id"`
	StartTime       time.Time  `gorm:"not null" json:"start_time"`
	DurationMinutes int        `gorm:"not null" json:"duration_minutes"`
	TeacherID       *uuid.UUID `gorm:"type:uuid" json:"teacher_id,omitempty"`

	Timetable          *CbtTimetable       `gorm:"foreignkey:TimetableID" json:"-"`
	Subject            *Subject            `gorm:"foreignkey:SubjectID" json:"subject,omitempty"`
	ObjQuestions       []CbtObjQuestion    `gorm:"foreignkey:ExamID" json:"-"`
	TheoryQuestions    []CbtTheoryQuestion `gorm:"foreignkey:ExamID" json:"-"`
	AuthorizedStudents []*User             `gorm:"many2many:cbt_exam_authorized_students;" json:"-"`
}

func (e CbtExam) EndTime() time.Time {
	return e.StartTime.Add(time.Duration(e.DurationMinutes) * time.Minute)
}

// IsOpen reports whether the writing window contains t.
func (e CbtExam) IsOpen(t time.Time) bool {
	return !t.Before(e.StartTime) && t.Before(e.EndTime())
}
