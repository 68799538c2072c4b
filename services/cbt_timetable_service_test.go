package services

import (
	"context"
	"testing"
	"time"

	"github.com/anjiri1684/school_cbt/models"
	"github.com/anjiri1684/school_cbt/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timetableInput(s *school, user models.User, entries ...TimetableEntryInput) TimetableCreationInput {
	return TimetableCreationInput{
		AcademicSessionID: s.session.ID.String(),
		ClassID:           s.class.ID.String(),
		Term:              models.TermFirst,
		Level:             "jss1",
		AssessmentType:    "Exam",
		Timetable:         entries,
		UserID:            user.ID,
		UserRole:          user.Role,
	}
}

func entry(subject models.Subject, start time.Time, minutes int) TimetableEntryInput {
	return TimetableEntryInput{SubjectID: subject.ID.String(), StartTime: start.Format(time.RFC3339), DurationMinutes: minutes}
}

func TestTermClassCbtAssessmentTimetableCreation(t *testing.T) {
	s := newSchool(t)
	s.createDocument(t, examDocument())

	timetable := s.createTimetable(t)

	assert.Equal(t, "exam", timetable.AssessmentType)
	assert.Equal(t, s.teacher.ID, timetable.CreatedByID)
	require.Len(t, timetable.Exams, 2)
	assert.True(t, timetable.Exams[0].StartTime.Equal(examStart))
	assert.Equal(t, 60, timetable.Exams[0].DurationMinutes)
	require.NotNil(t, timetable.Exams[0].Subject)
	assert.Equal(t, "Mathematics", timetable.Exams[0].Subject.Name)
	assert.Equal(t, "English", timetable.Exams[1].Subject.Name)

	_, err := TermClassCbtAssessmentTimetableCreation(context.Background(),
		timetableInput(s, s.admin, entry(s.math, examStart, 30)))
	requireBusinessError(t, err, "already exists")
}

func TestTermClassCbtAssessmentTimetableCreationRules(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()

	_, err := TermClassCbtAssessmentTimetableCreation(ctx, timetableInput(s, s.teacher, entry(s.math, examStart, 30)))
	requireBusinessError(t, err, "No active CBT assessment document found for exam")

	s.createDocument(t, examDocument())

	_, err = TermClassCbtAssessmentTimetableCreation(ctx, timetableInput(s, s.other, entry(s.math, examStart, 30)))
	requireBusinessError(t, err, "Only an admin or the class teacher")

	_, err = TermClassCbtAssessmentTimetableCreation(ctx,
		timetableInput(s, s.teacher, entry(s.math, examStart, 30), entry(s.math, examStart.Add(time.Hour), 30)))
	requireBusinessError(t, err, "only appear once")

	_, err = TermClassCbtAssessmentTimetableCreation(ctx,
		timetableInput(s, s.teacher, entry(models.Subject{Base: models.Base{ID: uuid.New()}}, examStart, 30)))
	requireBusinessError(t, err, "do not exist")

	bad := timetableInput(s, s.teacher, entry(s.math, examStart, 30))
	bad.Timetable[0].StartTime = "tomorrow morning"
	_, err = TermClassCbtAssessmentTimetableCreation(ctx, bad)
	requireBusinessError(t, err, "Invalid start time")

	// an admin does not need to be the class teacher
	timetable, err := TermClassCbtAssessmentTimetableCreation(ctx, timetableInput(s, s.admin, entry(s.math, examStart, 30)))
	require.NoError(t, err)
	assert.Len(t, timetable.Exams, 1)
}

func TestFetchClassTimetables(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()

	query := TermClassTimetableQuery{
		AcademicSessionID: s.session.ID.String(),
		ClassID:           s.class.ID.String(),
		Term:              models.TermFirst,
	}
	_, err := FetchTermClassCbtAssessmentTimetable(ctx, query)
	requireBusinessError(t, err, "No CBT timetable found")

	s.createDocument(t, examDocument())
	s.createTimetable(t)

	timetables, err := FetchTermClassCbtAssessmentTimetable(ctx, query)
	require.NoError(t, err)
	require.Len(t, timetables, 1)
	assert.Len(t, timetables[0].Exams, 2)

	page, err := FetchAllClassCbtAssessmentTimetables(ctx, s.class.ID.String(), utils.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Data, 1)
	assert.Len(t, page.Data[0].Exams, 2)

	page, err = FetchAllClassCbtAssessmentTimetables(ctx, s.class.ID.String(), utils.PageQuery{Search: "second_term"})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Data)

	_, err = FetchAllClassCbtAssessmentTimetables(ctx, "not-a-class", utils.PageQuery{})
	requireBusinessError(t, err, "Invalid class id.")
}
