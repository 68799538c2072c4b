package services

import (
	"context"
	"strings"
	"time"

	"github.com/anjiri1684/school_cbt/models"
	"github.com/anjiri1684/school_cbt/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimetableEntryInput struct {
	SubjectID       string `json:"subject_id" validate:"required,uuid"`
	StartTime       string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes int    `json:"duration" validate:"gte=1,lte=600"`
}

type TimetableCreationInput struct {
	AcademicSessionID string
	ClassID           string
	Term              string
	Level             string
	AssessmentType    string
	Timetable         []TimetableEntryInput
	UserID            uuid.UUID
	UserRole          string
}

type TermClassTimetableQuery struct {
	AcademicSessionID string
	ClassID           string
	Term              string
}

func preloadExams(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Exams", func(db *gorm.DB) *gorm.DB { return db.Order("start_time asc") }).
		Preload("Exams.Subject")
}

func TermClassCbtAssessmentTimetableCreation(ctx context.Context, input TimetableCreationInput) (models.CbtTimetable, error) {
	var timetable models.CbtTimetable

	sessionID, err := parseID(input.AcademicSessionID, "academic session")
	if err != nil {
		return timetable, err
	}
	classID, err := parseID(input.ClassID, "class")
	if err != nil {
		return timetable, err
	}
	if err := requireTerm(input.Term); err != nil {
		return timetable, err
	}
	assessmentType := normalizeAssessmentType(input.AssessmentType)

	exams := make([]models.CbtExam, 0, len(input.Timetable))
	subjectIDs := make([]uuid.UUID, 0, len(input.Timetable))
	seen := make(map[uuid.UUID]bool)
	for _, entry := range input.Timetable {
		subjectID, err := parseID(entry.SubjectID, "subject")
		if err != nil {
			return timetable, err
		}
		if seen[subjectID] {
			return timetable, businessError("A subject can only appear once in a timetable.")
		}
		seen[subjectID] = true
		subjectIDs = append(subjectIDs, subjectID)

		startTime, err := time.Parse(time.RFC3339, entry.StartTime)
		if err != nil {
			return timetable, businessError("Invalid start time %q.", entry.StartTime)
		}
		exams = append(exams, models.CbtExam{
			SubjectID:       subjectID,
			StartTime:       startTime.UTC(),
			DurationMinutes: entry.DurationMinutes,
		})
	}

	err = db(ctx).Transaction(func(tx *gorm.DB) error {
		var class models.Class
		if err := tx.First(&class, "id = ?", classID).Error; err != nil {
			return notFoundAs(err, "Class not found.")
		}
		if input.UserRole != models.RoleAdmin &&
			(class.ClassTeacherID == nil || *class.ClassTeacherID != input.UserID) {
			return businessError("Only an admin or the class teacher can create a timetable for this class.")
		}

		var doc models.CbtAssessmentDocument
		if err := tx.Where("academic_session_id = ? AND term = ? AND assessment_type = ? AND is_active = ?",
			sessionID, input.Term, assessmentType, true).First(&doc).Error; err != nil {
			return notFoundAs(err, "No active CBT assessment document found for %s this term.", assessmentType)
		}

		var subjectCount int64
		if err := tx.Model(&models.Subject{}).Where("id IN ?", subjectIDs).Count(&subjectCount).Error; err != nil {
			return err
		}
		if int(subjectCount) != len(subjectIDs) {
			return businessError("One or more subjects in the timetable do not exist.")
		}

		var existing int64
		if err := tx.Model(&models.CbtTimetable{}).
			Where("academic_session_id = ? AND class_id = ? AND term = ? AND assessment_type = ?",
				sessionID, classID, input.Term, assessmentType).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return businessError("A CBT timetable already exists for this class, term and assessment type.")
		}

		timetable = models.CbtTimetable{
			AcademicSessionID:    sessionID,
			ClassID:              classID,
			Term:                 input.Term,
			AssessmentType:       assessmentType,
			Level:                strings.TrimSpace(input.Level),
			AssessmentDocumentID: doc.ID,
			CreatedByID:          input.UserID,
			Exams:                exams,
		}
		if err := tx.Create(&timetable).Error; err != nil {
			return err
		}

		return preloadExams(tx).First(&timetable, "id = ?", timetable.ID).Error
	})
	return timetable, err
}

func FetchTermClassCbtAssessmentTimetable(ctx context.Context, input TermClassTimetableQuery) ([]models.CbtTimetable, error) {
	sessionID, err := parseID(input.AcademicSessionID, "academic session")
	if err != nil {
		return nil, err
	}
	classID, err := parseID(input.ClassID, "class")
	if err != nil {
		return nil, err
	}
	if err := requireTerm(input.Term); err != nil {
		return nil, err
	}

	var timetables []models.CbtTimetable
	if err := preloadExams(db(ctx)).
		Where("academic_session_id = ? AND class_id = ? AND term = ?", sessionID, classID, input.Term).
		Order("created_at asc").
		Find(&timetables).Error; err != nil {
		return nil, err
	}
	if len(timetables) == 0 {
		return nil, businessError("No CBT timetable found for this class this term.")
	}
	return timetables, nil
}

func FetchAllClassCbtAssessmentTimetables(ctx context.Context, classID string, q utils.PageQuery) (utils.Page[models.CbtTimetable], error) {
	q = q.Normalize()

	id, err := parseID(classID, "class")
	if err != nil {
		return utils.Page[models.CbtTimetable]{}, err
	}

	query := db(ctx).Model(&models.CbtTimetable{}).Where("class_id = ?", id)
	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("LOWER(term) LIKE ? OR LOWER(assessment_type) LIKE ? OR LOWER(level) LIKE ?", like, like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Page[models.CbtTimetable]{}, err
	}

	var timetables []models.CbtTimetable
	if err := preloadExams(query).
		Order("created_at desc").
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&timetables).Error; err != nil {
		return utils.Page[models.CbtTimetable]{}, err
	}
	return utils.NewPage(timetables, q, total), nil
}
