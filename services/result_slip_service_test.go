package services

import (
	"testing"
	"time"

	"github.com/anjiri1684/school_cbt/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderResultSlip(t *testing.T) {
	admission := "STU/2026/000042"
	submittedAt := time.Date(2026, time.March, 9, 9, 45, 0, 0, time.UTC)
	result := models.CbtResult{
		ObjScore:    7,
		ObjTotal:    10,
		SubmittedAt: &submittedAt,
		Student:     &models.User{FullName: "Ada <Lovelace>", AdmissionNumber: &admission},
		Exam: &models.CbtExam{
			Subject: &models.Subject{Name: "Mathematics"},
			Timetable: &models.CbtTimetable{
				Term:           models.TermFirst,
				AssessmentType: "exam",
				Class:          &models.Class{Name: "JSS 1A"},
			},
		},
	}

	data := slipData(result)
	assert.Equal(t, "Mathematics", data.SubjectName)
	assert.Equal(t, "JSS 1A", data.ClassName)
	assert.Equal(t, "March 9, 2026 09:45", data.SubmittedAt)

	html, err := renderResultSlipHTML(data)
	require.NoError(t, err)
	assert.Contains(t, html, "STU/2026/000042")
	assert.Contains(t, html, "7.0 / 10.0")
	assert.Contains(t, html, "Ada &lt;Lovelace&gt;")
	assert.NotContains(t, html, "<Lovelace>")
}

func TestSlipDataToleratesMissingRelations(t *testing.T) {
	data := slipData(models.CbtResult{ObjScore: 1, ObjTotal: 2})
	assert.Empty(t, data.StudentName)
	assert.Empty(t, data.SubmittedAt)

	_, err := renderResultSlipHTML(data)
	assert.NoError(t, err)
}
