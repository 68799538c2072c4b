package services

import (
	"context"
	"strings"

	"github.com/anjiri1684/school_cbt/models"
	"github.com/anjiri1684/school_cbt/utils"
	"gorm.io/gorm"
)

type AssessmentDocumentInput struct {
	AssessmentType              string `json:"assessment_type" validate:"required,max=50"`
	MinObjQuestions             int    `json:"min_obj_questions" validate:"gte=1"`
	MaxObjQuestions             int    `json:"max_obj_questions" validate:"gte=1"`
	ExpectedObjNumberOfOptions  int    `json:"expected_obj_number_of_options" validate:"gte=2,lte=8"`
	NumberOfQuestionsPerStudent int    `json:"number_of_questions_per_student" validate:"gte=1"`
}

type TermDocumentCreationInput struct {
	AcademicSessionID       string
	Term                    string
	AssessmentDocumentArray []AssessmentDocumentInput
}

type TermDocumentQuery struct {
	AcademicSessionID string
	Term              string
}

func normalizeAssessmentType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

func FetchCbtAssessmentDocumentByID(ctx context.Context, id string) (models.CbtAssessmentDocument, error) {
	var doc models.CbtAssessmentDocument
	docID, err := parseID(id, "exam document")
	if err != nil {
		return doc, err
	}
	err = db(ctx).Preload("AcademicSession").First(&doc, "id = ?", docID).Error
	if err != nil {
		return doc, notFoundAs(err, "CBT assessment document not found.")
	}
	return doc, nil
}

func FetchAllCbtAssessmentDocuments(ctx context.Context, q utils.PageQuery) (utils.Page[models.CbtAssessmentDocument], error) {
	q = q.Normalize()

	query := db(ctx).Model(&models.CbtAssessmentDocument{})
	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("LOWER(assessment_type) LIKE ? OR LOWER(term) LIKE ?", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Page[models.CbtAssessmentDocument]{}, err
	}

	var docs []models.CbtAssessmentDocument
	err := query.
		Preload("AcademicSession").
		Order("created_at desc").
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&docs).Error
	if err != nil {
		return utils.Page[models.CbtAssessmentDocument]{}, err
	}
	return utils.NewPage(docs, q, total), nil
}

func TermCbtAssessmentDocumentCreation(ctx context.Context, input TermDocumentCreationInput) ([]models.CbtAssessmentDocument, error) {
	sessionID, err := parseID(input.AcademicSessionID, "academic session")
	if err != nil {
		return nil, err
	}
	if err := requireTerm(input.Term); err != nil {
		return nil, err
	}

	types := make([]string, 0, len(input.AssessmentDocumentArray))
	seen := make(map[string]bool)
	for _, d := range input.AssessmentDocumentArray {
		assessmentType := normalizeAssessmentType(d.AssessmentType)
		if seen[assessmentType] {
			return nil, businessError("Assessment type %s appears more than once.", assessmentType)
		}
		seen[assessmentType] = true
		types = append(types, assessmentType)

		if d.MinObjQuestions > d.MaxObjQuestions {
			return nil, businessError("Minimum objective questions cannot exceed the maximum for %s.", assessmentType)
		}
		if d.NumberOfQuestionsPerStudent > d.MaxObjQuestions {
			return nil, businessError("Questions per student cannot exceed the maximum objective questions for %s.", assessmentType)
		}
	}

	var docs []models.CbtAssessmentDocument
	err = db(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.AcademicSession
		if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
			return notFoundAs(err, "Academic session not found.")
		}

		var existing []models.CbtAssessmentDocument
		if err := tx.Where("academic_session_id = ? AND term = ? AND assessment_type IN ?", sessionID, input.Term, types).
			Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 {
			return businessError("A CBT assessment document for %s already exists this term.", existing[0].AssessmentType)
		}

		for i, d := range input.AssessmentDocumentArray {
			docs = append(docs, models.CbtAssessmentDocument{
				AcademicSessionID:           sessionID,
				Term:                        input.Term,
				AssessmentType:              types[i],
				MinObjQuestions:             d.MinObjQuestions,
				MaxObjQuestions:             d.MaxObjQuestions,
				ExpectedObjNumberOfOptions:  d.ExpectedObjNumberOfOptions,
				NumberOfQuestionsPerStudent: d.NumberOfQuestionsPerStudent,
				IsActive:                    true,
			})
		}
		return tx.Create(&docs).Error
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func FetchTermCbtAssessmentDocument(ctx context.Context, input TermDocumentQuery) ([]models.CbtAssessmentDocument, error) {
	sessionID, err := parseID(input.AcademicSessionID, "academic session")
	if err != nil {
		return nil, err
	}
	if err := requireTerm(input.Term); err != nil {
		return nil, err
	}

	var docs []models.CbtAssessmentDocument
	if err := db(ctx).
		Where("academic_session_id = ? AND term = ?", sessionID, input.Term).
		Order("assessment_type asc").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, businessError("No CBT assessment document found for this term.")
	}
	return docs, nil
}
