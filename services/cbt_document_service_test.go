package services

import (
	"context"
	"testing"

	"github.com/anjiri1684/school_cbt/models"
	"github.com/anjiri1684/school_cbt/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermCbtAssessmentDocumentCreation(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()

	test := examDocument()
	test.AssessmentType = " First Test "
	docs, err := TermCbtAssessmentDocumentCreation(ctx, TermDocumentCreationInput{
		AcademicSessionID:       s.session.ID.String(),
		Term:                    models.TermFirst,
		AssessmentDocumentArray: []AssessmentDocumentInput{examDocument(), test},
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "exam", docs[0].AssessmentType)
	assert.Equal(t, "first test", docs[1].AssessmentType)
	assert.True(t, docs[0].IsActive)

	fetched, err := FetchCbtAssessmentDocumentByID(ctx, docs[0].ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, fetched.NumberOfQuestionsPerStudent)
	require.NotNil(t, fetched.AcademicSession)
	assert.Equal(t, "2025/2026", fetched.AcademicSession.Name)

	_, err = TermCbtAssessmentDocumentCreation(ctx, TermDocumentCreationInput{
		AcademicSessionID:       s.session.ID.String(),
		Term:                    models.TermFirst,
		AssessmentDocumentArray: []AssessmentDocumentInput{examDocument()},
	})
	requireBusinessError(t, err, "already exists")

	// the same type in another term is a different document
	_, err = TermCbtAssessmentDocumentCreation(ctx, TermDocumentCreationInput{
		AcademicSessionID:       s.session.ID.String(),
		Term:                    models.TermSecond,
		AssessmentDocumentArray: []AssessmentDocumentInput{examDocument()},
	})
	require.NoError(t, err)
}

func TestTermCbtAssessmentDocumentCreationRules(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()

	minAboveMax := examDocument()
	minAboveMax.MinObjQuestions = 6

	perStudentAboveMax := examDocument()
	perStudentAboveMax.NumberOfQuestionsPerStudent = 9

	tests := []struct {
		name     string
		input    TermDocumentCreationInput
		contains string
	}{
		{
			name: "invalid term",
			input: TermDocumentCreationInput{AcademicSessionID: s.session.ID.String(), Term: "fourth_term",
				AssessmentDocumentArray: []AssessmentDocumentInput{examDocument()}},
			contains: "Invalid term",
		},
		{
			name: "invalid session id",
			input: TermDocumentCreationInput{AcademicSessionID: "nope", Term: models.TermFirst,
				AssessmentDocumentArray: []AssessmentDocumentInput{examDocument()}},
			contains: "Invalid academic session id.",
		},
		{
			name: "unknown session",
			input: TermDocumentCreationInput{AcademicSessionID: uuid.NewString(), Term: models.TermFirst,
				AssessmentDocumentArray: []AssessmentDocumentInput{examDocument()}},
			contains: "Academic session not found.",
		},
		{
			name: "duplicate type in payload",
			input: TermDocumentCreationInput{AcademicSessionID: s.session.ID.String(), Term: models.TermFirst,
				AssessmentDocumentArray: []AssessmentDocumentInput{examDocument(), examDocument()}},
			contains: "appears more than once",
		},
		{
			name: "min above max",
			input: TermDocumentCreationInput{AcademicSessionID: s.session.ID.String(), Term: models.TermFirst,
				AssessmentDocumentArray: []AssessmentDocumentInput{minAboveMax}},
			contains: "cannot exceed the maximum",
		},
		{
			name: "per student above max",
			input: TermDocumentCreationInput{AcademicSessionID: s.session.ID.String(), Term: models.TermFirst,
				AssessmentDocumentArray: []AssessmentDocumentInput{perStudentAboveMax}},
			contains: "Questions per student",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TermCbtAssessmentDocumentCreation(ctx, tt.input)
			requireBusinessError(t, err, tt.contains)
		})
	}

	var count int64
	require.NoError(t, s.db.Model(&models.CbtAssessmentDocument{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFetchTermCbtAssessmentDocument(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()

	_, err := FetchTermCbtAssessmentDocument(ctx, TermDocumentQuery{AcademicSessionID: s.session.ID.String(), Term: models.TermFirst})
	requireBusinessError(t, err, "No CBT assessment document found for this term.")

	s.createDocument(t, examDocument())
	docs, err := FetchTermCbtAssessmentDocument(ctx, TermDocumentQuery{AcademicSessionID: s.session.ID.String(), Term: models.TermFirst})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "exam", docs[0].AssessmentType)

	_, err = FetchCbtAssessmentDocumentByID(ctx, uuid.NewString())
	requireBusinessError(t, err, "not found")
}

func TestFetchAllCbtAssessmentDocuments(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()

	for _, assessmentType := range []string{"exam", "first test", "second test"} {
		doc := examDocument()
		doc.AssessmentType = assessmentType
		s.createDocument(t, doc)
	}

	page, err := FetchAllCbtAssessmentDocuments(ctx, utils.PageQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Data, 2)

	page, err = FetchAllCbtAssessmentDocuments(ctx, utils.PageQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	page, err = FetchAllCbtAssessmentDocuments(ctx, utils.PageQuery{Search: "TEST"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 10, page.Limit)
	for _, doc := range page.Data {
		assert.Contains(t, doc.AssessmentType, "test")
	}
}
