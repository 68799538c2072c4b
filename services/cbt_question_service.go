package services

import (
	"context"
	"strings"

	"github.com/anjiri1684/school_cbt/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ObjQuestionInput struct {
	QuestionText  string   `json:"question_text" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	Score         float64  `json:"score" validate:"omitempty,gt=0"`
	ImageURL      *string  `json:"image_url" validate:"omitempty,url"`
}

type TheoryQuestionInput struct {
	QuestionText string  `json:"question_text" validate:"required"`
	Marks        float64 `json:"marks" validate:"gt=0"`
	ImageURL     *string `json:"image_url" validate:"omitempty,url"`
}

// QuestionSlot identifies the exam slot a teacher is setting questions for.
type QuestionSlot struct {
	AcademicSessionID string
	ClassID           string
	Term              string
	SubjectID         string
	AssessmentType    string
	TeacherID         uuid.UUID
}

type ObjQuestionSettingInput struct {
	QuestionSlot
	QuestionsArray []ObjQuestionInput
}

type TheoryQuestionSettingInput struct {
	QuestionSlot
	QuestionsArray []TheoryQuestionInput
}

type QuestionSettingResult struct {
	ExamID        uuid.UUID `json:"exam_id"`
	SubjectName   string    `json:"subject_name"`
	QuestionCount int       `json:"question_count"`
}

func (s QuestionSlot) load(tx *gorm.DB) (models.CbtExam, error) {
	sessionID, err := parseID(s.AcademicSessionID, "academic session")
	if err != nil {
		return models.CbtExam{}, err
	}
	classID, err := parseID(s.ClassID, "class")
	if err != nil {
		return models.CbtExam{}, err
	}
	subjectID, err := parseID(s.SubjectID, "subject")
	if err != nil {
		return models.CbtExam{}, err
	}
	if err := requireTerm(s.Term); err != nil {
		return models.CbtExam{}, err
	}

	exam, err := findExamSlot(tx, sessionID, classID, s.Term, normalizeAssessmentType(s.AssessmentType), subjectID)
	if err != nil {
		return exam, err
	}
	if !now().Before(exam.StartTime) {
		return exam, businessError("Questions can no longer be changed because this CBT has started.")
	}
	return exam, nil
}

func ObjQuestionSetting(ctx context.Context, input ObjQuestionSettingInput) (QuestionSettingResult, error) {
	var result QuestionSettingResult

	err := db(ctx).Transaction(func(tx *gorm.DB) error {
		exam, err := input.load(tx)
		if err != nil {
			return err
		}

		doc, err := assessmentDocument(exam)
		if err != nil {
			return err
		}
		count := len(input.QuestionsArray)
		if count < doc.MinObjQuestions || count > doc.MaxObjQuestions {
			return businessError("Number of questions must be between %d and %d.", doc.MinObjQuestions, doc.MaxObjQuestions)
		}
		if count < doc.NumberOfQuestionsPerStudent {
			return businessError("At least %d questions are needed because each student answers %d.",
				doc.NumberOfQuestionsPerStudent, doc.NumberOfQuestionsPerStudent)
		}

		questions := make([]models.CbtObjQuestion, 0, count)
		for i, q := range input.QuestionsArray {
			if len(q.Options) != doc.ExpectedObjNumberOfOptions {
				return businessError("Question %d must have exactly %d options.", i+1, doc.ExpectedObjNumberOfOptions)
			}

			options := make([]string, len(q.Options))
			correct := strings.TrimSpace(q.CorrectAnswer)
			found := false
			for j, option := range q.Options {
				options[j] = strings.TrimSpace(option)
				if options[j] == correct {
					found = true
				}
			}
			if !found {
				return businessError("The correct answer of question %d must be one of its options.", i+1)
			}

			score := q.Score
			if score == 0 {
				score = 1
			}
			questions = append(questions, models.CbtObjQuestion{
				ExamID:         exam.ID,
				QuestionNumber: i + 1,
				QuestionText:   strings.TrimSpace(q.QuestionText),
				Options:        options,
				CorrectAnswer:  correct,
				Score:          score,
				ImageURL:       q.ImageURL,
			})
		}

		if err := tx.Where("exam_id = ?", exam.ID).Delete(&models.CbtObjQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}
		if err := tx.Model(&exam).Update("teacher_id", input.TeacherID).Error; err != nil {
			return err
		}

		result = QuestionSettingResult{ExamID: exam.ID, SubjectName: subjectName(exam), QuestionCount: count}
		return nil
	})
	return result, err
}

func TheoryQuestionSetting(ctx context.Context, input TheoryQuestionSettingInput) (QuestionSettingResult, error) {
	var result QuestionSettingResult

	err := db(ctx).Transaction(func(tx *gorm.DB) error {
		exam, err := input.load(tx)
		if err != nil {
			return err
		}

		questions := make([]models.CbtTheoryQuestion, 0, len(input.QuestionsArray))
		for i, q := range input.QuestionsArray {
			questions = append(questions, models.CbtTheoryQuestion{
				ExamID:         exam.ID,
				QuestionNumber: i + 1,
				QuestionText:   strings.TrimSpace(q.QuestionText),
				Marks:          q.Marks,
				ImageURL:       q.ImageURL,
			})
		}

		if err := tx.Where("exam_id = ?", exam.ID).Delete(&models.CbtTheoryQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}
		if err := tx.Model(&exam).Update("teacher_id", input.TeacherID).Error; err != nil {
			return err
		}

		result = QuestionSettingResult{ExamID: exam.ID, SubjectName: subjectName(exam), QuestionCount: len(questions)}
		return nil
	})
	return result, err
}
