package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anjiri1684/school_cbt/database/dbtest"
	"github.com/anjiri1684/school_cbt/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var examStart = time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC)

type school struct {
	db       *gorm.DB
	session  models.AcademicSession
	class    models.Class
	teacher  models.User
	other    models.User
	admin    models.User
	students []models.User
	math     models.Subject
	english  models.Subject
}

// setClock freezes now at t until the test ends.
func setClock(t *testing.T, at time.Time) {
	t.Helper()
	previous := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = previous })
}

func newUser(t *testing.T, db *gorm.DB, role, name string) models.User {
	t.Helper()
	user := models.User{
		FullName: name,
		Email:    fmt.Sprintf("%s@school.test", uuid.NewString()[:8]),
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// newSchool seeds one class with a class teacher, three enrolled students and
// two subjects.
func newSchool(t *testing.T) *school {
	t.Helper()
	db := dbtest.Use(t)

	s := &school{db: db}
	s.session = models.AcademicSession{Name: "2025/2026", IsActive: true}
	require.NoError(t, db.Create(&s.session).Error)

	s.teacher = newUser(t, db, models.RoleTeacher, "Grace Teacher")
	s.other = newUser(t, db, models.RoleTeacher, "Other Teacher")
	s.admin = newUser(t, db, models.RoleAdmin, "Head Admin")
	for i := 0; i < 3; i++ {
		s.students = append(s.students, newUser(t, db, models.RoleStudent, fmt.Sprintf("Student %d", i+1)))
	}

	s.class = models.Class{Name: "JSS 1A", Level: "jss1", ClassTeacherID: &s.teacher.ID}
	require.NoError(t, db.Create(&s.class).Error)
	enrolled := []*models.User{&s.students[0], &s.students[1]}
	require.NoError(t, db.Model(&s.class).Association("Students").Append(enrolled))

	s.math = models.Subject{Name: "Mathematics", Code: "MTH"}
	s.english = models.Subject{Name: "English", Code: "ENG"}
	require.NoError(t, db.Create(&s.math).Error)
	require.NoError(t, db.Create(&s.english).Error)
	return s
}

func (s *school) createDocument(t *testing.T, input AssessmentDocumentInput) models.CbtAssessmentDocument {
	t.Helper()
	docs, err := TermCbtAssessmentDocumentCreation(context.Background(), TermDocumentCreationInput{
		AcademicSessionID:       s.session.ID.String(),
		Term:                    models.TermFirst,
		AssessmentDocumentArray: []AssessmentDocumentInput{input},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	return docs[0]
}

func examDocument() AssessmentDocumentInput {
	return AssessmentDocumentInput{
		AssessmentType:              "exam",
		MinObjQuestions:             2,
		MaxObjQuestions:             5,
		ExpectedObjNumberOfOptions:  4,
		NumberOfQuestionsPerStudent: 3,
	}
}

// createTimetable schedules mathematics at examStart for 60 minutes and
// english the day after.
func (s *school) createTimetable(t *testing.T) models.CbtTimetable {
	t.Helper()
	timetable, err := TermClassCbtAssessmentTimetableCreation(context.Background(), TimetableCreationInput{
		AcademicSessionID: s.session.ID.String(),
		ClassID:           s.class.ID.String(),
		Term:              models.TermFirst,
		Level:             "jss1",
		AssessmentType:    "exam",
		Timetable: []TimetableEntryInput{
			{SubjectID: s.math.ID.String(), StartTime: examStart.Format(time.RFC3339), DurationMinutes: 60},
			{SubjectID: s.english.ID.String(), StartTime: examStart.Add(24 * time.Hour).Format(time.RFC3339), DurationMinutes: 45},
		},
		UserID:   s.teacher.ID,
		UserRole: models.RoleTeacher,
	})
	require.NoError(t, err)
	return timetable
}

func (s *school) slot(subject models.Subject) QuestionSlot {
	return QuestionSlot{
		AcademicSessionID: s.session.ID.String(),
		ClassID:           s.class.ID.String(),
		Term:              models.TermFirst,
		SubjectID:         subject.ID.String(),
		AssessmentType:    "exam",
		TeacherID:         s.teacher.ID,
	}
}

func objQuestions(n int) []ObjQuestionInput {
	questions := make([]ObjQuestionInput, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, ObjQuestionInput{
			QuestionText:  fmt.Sprintf("What is %d + %d?", i, i),
			Options:       []string{fmt.Sprint(2 * i), fmt.Sprint(2*i + 1), fmt.Sprint(2*i + 2), fmt.Sprint(2*i + 3)},
			CorrectAnswer: fmt.Sprint(2 * i),
		})
	}
	return questions
}

// readyExam seeds a document, a timetable and four mathematics questions,
// and authorizes the two enrolled students. The clock is left before the start.
func (s *school) readyExam(t *testing.T) models.CbtExam {
	t.Helper()
	setClock(t, examStart.Add(-time.Hour))

	s.createDocument(t, examDocument())
	s.createTimetable(t)

	_, err := ObjQuestionSetting(context.Background(), ObjQuestionSettingInput{
		QuestionSlot:   s.slot(s.math),
		QuestionsArray: objQuestions(4),
	})
	require.NoError(t, err)

	_, err = StudentCbtSubjectCbtAssessmentAuthorization(context.Background(), AuthorizationInput{
		SubjectID:         s.math.ID.String(),
		Term:              models.TermFirst,
		AcademicSessionID: s.session.ID.String(),
		ClassID:           s.class.ID.String(),
		TeacherID:         s.teacher.ID,
		StudentsIDArray:   []string{s.students[0].ID.String(), s.students[1].ID.String()},
	})
	require.NoError(t, err)

	var exam models.CbtExam
	require.NoError(t, s.db.Where("subject_id = ?", s.math.ID).First(&exam).Error)
	return exam
}

func (s *school) startInput(student models.User) StartInput {
	return StartInput{
		AcademicSessionID: s.session.ID.String(),
		ClassID:           s.class.ID.String(),
		StudentID:         student.ID,
		Term:              models.TermFirst,
		SubjectID:         s.math.ID.String(),
	}
}

func requireBusinessError(t *testing.T, err error, contains string) {
	t.Helper()
	require.Error(t, err)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusBadRequest, fe.Code)
	require.Contains(t, fe.Message, contains)
}
