package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/anjiri1684/school_cbt/database"
	"github.com/anjiri1684/school_cbt/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// now is swapped in tests to move through exam windows.
var now = time.Now

// businessError is a rule violation whose message is safe to show the caller.
func businessError(format string, args ...any) error {
	return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf(format, args...))
}

func db(ctx context.Context) *gorm.DB {
	return database.DB.WithContext(ctx)
}

func parseID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, businessError("Invalid %s id.", name)
	}
	return id, nil
}

func requireTerm(term string) error {
	if !models.IsValidTerm(term) {
		return businessError("Invalid term. Expected one of %v.", models.Terms)
	}
	return nil
}

func notFoundAs(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return businessError(format, args...)
	}
	return err
}

// timetableIDs selects the timetables of a class for a term, optionally
// narrowed to one assessment type.
func timetableIDs(tx *gorm.DB, sessionID, classID uuid.UUID, term, assessmentType string) *gorm.DB {
	q := tx.Model(&models.CbtTimetable{}).
		Select("id").
		Where("academic_session_id = ? AND class_id = ? AND term = ?", sessionID, classID, term)
	if assessmentType != "" {
		q = q.Where("assessment_type = ?", assessmentType)
	}
	return q
}

// findExamSlot loads the single subject slot of a given assessment type.
func findExamSlot(tx *gorm.DB, sessionID, classID uuid.UUID, term, assessmentType string, subjectID uuid.UUID) (models.CbtExam, error) {
	var exam models.CbtExam
	err := tx.
		Preload("Timetable.AssessmentDocument").
		Preload("Subject").
		Where("timetable_id IN (?)", timetableIDs(tx.Session(&gorm.Session{NewDB: true}), sessionID, classID, term, assessmentType)).
		Where("subject_id = ?", subjectID).
		First(&exam).Error
	if err != nil {
		return exam, notFoundAs(err, "No CBT has been scheduled for this subject.")
	}
	return exam, nil
}

// findCurrentExam picks, among the subject's slots in the term, the one that
// has not ended yet and starts first.
func findCurrentExam(tx *gorm.DB, sessionID, classID uuid.UUID, term string, subjectID uuid.UUID, at time.Time) (models.CbtExam, error) {
	var exams []models.CbtExam
	err := tx.
		Preload("Timetable.AssessmentDocument").
		Preload("Subject").
		Where("timetable_id IN (?)", timetableIDs(tx.Session(&gorm.Session{NewDB: true}), sessionID, classID, term, "")).
		Where("subject_id = ?", subjectID).
		Find(&exams).Error
	if err != nil {
		return models.CbtExam{}, err
	}

	var pending []models.CbtExam
	for _, exam := range exams {
		if at.Before(exam.EndTime()) {
			pending = append(pending, exam)
		}
	}
	if len(pending) == 0 {
		return models.CbtExam{}, businessError("No pending CBT found for this subject this term.")
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].StartTime.Before(pending[j].StartTime)
	})
	return pending[0], nil
}

func assessmentDocument(exam models.CbtExam) (*models.CbtAssessmentDocument, error) {
	if exam.Timetable == nil || exam.Timetable.AssessmentDocument == nil {
		return nil, businessError("The CBT assessment document for this exam is missing.")
	}
	return exam.Timetable.AssessmentDocument, nil
}

func subjectName(exam models.CbtExam) string {
	if exam.Subject == nil {
		return ""
	}
	return exam.Subject.Name
}
