package services

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/anjiri1684/school_cbt/logger"
	"github.com/anjiri1684/school_cbt/models"
	"github.com/anjiri1684/school_cbt/notifications"
	"github.com/anjiri1684/school_cbt/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuthorizationInput struct {
	SubjectID         string
	Term              string
	AcademicSessionID string
	ClassID           string
	TeacherID         uuid.UUID
	StudentsIDArray   []string
}

type StartInput struct {
	AcademicSessionID string
	ClassID           string
	StudentID         uuid.UUID
	Term              string
	SubjectID         string
}

type AnswerInput struct {
	QuestionID     string `json:"question_id" validate:"required,uuid"`
	SelectedOption string `json:"selected_option" validate:"required"`
}

// AttemptRef points at one student's attempt of one exam.
type AttemptRef struct {
	CbtResultID string
	ExamID      string
	StudentID   uuid.UUID
}

type RemainingTimeInput struct {
	AttemptRef
	RemainingTime int
}

type AnswersUpdateInput struct {
	AttemptRef
	ResultDoc []AnswerInput
}

type SubmissionInput struct {
	AttemptRef
	ResultDoc   []AnswerInput
	TriggerType string
}

type StartedQuestion struct {
	QuestionID     uuid.UUID `json:"question_id"`
	QuestionNumber int       `json:"question_number"`
	QuestionText   string    `json:"question_text"`
	Options        []string  `json:"options"`
	Score          float64   `json:"score"`
	ImageURL       *string   `json:"image_url,omitempty"`
	SelectedOption string    `json:"selected_option"`
}

type StartedCbt struct {
	CbtResultID     uuid.UUID         `json:"cbt_result_id"`
	ExamID          uuid.UUID         `json:"exam_id"`
	SubjectName     string            `json:"subject_name"`
	DurationMinutes int               `json:"duration_minutes"`
	RemainingTime   int               `json:"remaining_time"`
	EndsAt          time.Time         `json:"ends_at"`
	Resumed         bool              `json:"resumed"`
	Questions       []StartedQuestion `json:"questions"`
}

type SubmissionResult struct {
	CbtResultID    uuid.UUID          `json:"cbt_result_id"`
	ExamID         uuid.UUID          `json:"exam_id"`
	SubjectName    string             `json:"subject_name"`
	ObjScore       float64            `json:"obj_score"`
	ObjTotal       float64            `json:"obj_total"`
	AnsweredCount  int                `json:"answered_count"`
	TotalQuestions int                `json:"total_questions"`
	TriggerType    string             `json:"trigger_type"`
	SubmittedAt    time.Time          `json:"submitted_at"`
	ResultDoc      []models.CbtAnswer `json:"result_doc"`
}

func StudentCbtSubjectCbtAssessmentAuthorization(ctx context.Context, input AuthorizationInput) ([]uuid.UUID, error) {
	sessionID, err := parseID(input.AcademicSessionID, "academic session")
	if err != nil {
		return nil, err
	}
	classID, err := parseID(input.ClassID, "class")
	if err != nil {
		return nil, err
	}
	subjectID, err := parseID(input.SubjectID, "subject")
	if err != nil {
		return nil, err
	}
	if err := requireTerm(input.Term); err != nil {
		return nil, err
	}

	studentIDs := make([]uuid.UUID, 0, len(input.StudentsIDArray))
	seen := make(map[uuid.UUID]bool)
	for _, raw := range input.StudentsIDArray {
		id, err := parseID(raw, "student")
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			studentIDs = append(studentIDs, id)
		}
	}

	var authorized []uuid.UUID
	err = db(ctx).Transaction(func(tx *gorm.DB) error {
		var class models.Class
		if err := tx.First(&class, "id = ?", classID).Error; err != nil {
			return notFoundAs(err, "Class not found.")
		}
		if class.ClassTeacherID == nil || *class.ClassTeacherID != input.TeacherID {
			return businessError("Only the class teacher can authorize students for this CBT.")
		}

		var enrolled int64
		if err := tx.Table("class_students").
			Where("class_id = ? AND user_id IN ?", classID, studentIDs).
			Count(&enrolled).Error; err != nil {
			return err
		}
		if int(enrolled) != len(studentIDs) {
			return businessError("One or more students do not belong to this class.")
		}

		exam, err := findCurrentExam(tx, sessionID, classID, input.Term, subjectID, now())
		if err != nil {
			return err
		}

		var students []*models.User
		if err := tx.Where("id IN ? AND role = ?", studentIDs, models.RoleStudent).Find(&students).Error; err != nil {
			return err
		}
		if len(students) != len(studentIDs) {
			return businessError("One or more students do not belong to this class.")
		}
		if err := tx.Model(&exam).Association("AuthorizedStudents").Append(students); err != nil {
			return err
		}

		return tx.Table("cbt_exam_authorized_students").
			Where("cbt_exam_id = ?", exam.ID).
			Pluck("user_id", &authorized).Error
	})
	return authorized, err
}

func SubjectCbtObjCbtAssessmentStarting(ctx context.Context, input StartInput) (StartedCbt, error) {
	var started StartedCbt

	sessionID, err := parseID(input.AcademicSessionID, "academic session")
	if err != nil {
		return started, err
	}
	classID, err := parseID(input.ClassID, "class")
	if err != nil {
		return started, err
	}
	subjectID, err := parseID(input.SubjectID, "subject")
	if err != nil {
		return started, err
	}
	if err := requireTerm(input.Term); err != nil {
		return started, err
	}

	var event *websocket.CbtEvent
	err = db(ctx).Transaction(func(tx *gorm.DB) error {
		at := now()
		exam, err := findCurrentExam(tx, sessionID, classID, input.Term, subjectID, at)
		if err != nil {
			return err
		}
		if !exam.IsOpen(at) {
			return businessError("This CBT has not started yet.")
		}

		var authorized int64
		if err := tx.Table("cbt_exam_authorized_students").
			Where("cbt_exam_id = ? AND user_id = ?", exam.ID, input.StudentID).
			Count(&authorized).Error; err != nil {
			return err
		}
		if authorized == 0 {
			return businessError("You have not been authorized to take this CBT.")
		}

		var result models.CbtResult
		err = tx.Where("exam_id = ? AND student_id = ?", exam.ID, input.StudentID).First(&result).Error
		switch {
		case err == nil:
			if result.Status == models.CbtResultSubmitted {
				return businessError("You have already submitted this CBT.")
			}
			started.Resumed = true
		case errors.Is(err, gorm.ErrRecordNotFound):
			doc, err := assessmentDocument(exam)
			if err != nil {
				return err
			}
			result, err = drawAttempt(tx, exam, doc.NumberOfQuestionsPerStudent, input.StudentID, at)
			if err != nil {
				return err
			}
			event = &websocket.CbtEvent{
				Type:      websocket.EventCbtStarted,
				ClassID:   classID,
				ExamID:    exam.ID,
				StudentID: input.StudentID,
				ResultID:  result.ID,
				At:        at,
			}
		default:
			return err
		}

		questions, err := servedQuestions(tx, result)
		if err != nil {
			return err
		}

		started.CbtResultID = result.ID
		started.ExamID = exam.ID
		started.SubjectName = subjectName(exam)
		started.DurationMinutes = exam.DurationMinutes
		started.RemainingTime = result.RemainingTime
		started.EndsAt = exam.EndTime()
		started.Questions = presentQuestions(result, questions)
		return nil
	})
	if err != nil {
		return started, err
	}

	if event != nil {
		websocket.Publish(*event)
	}
	return started, nil
}

// drawAttempt creates the attempt with a random selection of count questions.
func drawAttempt(tx *gorm.DB, exam models.CbtExam, count int, studentID uuid.UUID, at time.Time) (models.CbtResult, error) {
	var ids []uuid.UUID
	if err := tx.Model(&models.CbtObjQuestion{}).Where("exam_id = ?", exam.ID).Pluck("id", &ids).Error; err != nil {
		return models.CbtResult{}, err
	}
	if len(ids) == 0 {
		return models.CbtResult{}, businessError("Questions have not been set for this CBT yet.")
	}

	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if count > 0 && count < len(ids) {
		ids = ids[:count]
	}

	remaining := min(exam.DurationMinutes*60, int(exam.EndTime().Sub(at).Seconds()))
	result := models.CbtResult{
		ExamID:           exam.ID,
		StudentID:        studentID,
		Status:           models.CbtResultInProgress,
		QuestionOrder:    ids,
		ResultDoc:        []models.CbtAnswer{},
		RemainingTime:    remaining,
		LastTimeUpdateAt: at,
		StartedAt:        at,
	}
	if err := tx.Create(&result).Error; err != nil {
		return models.CbtResult{}, err
	}
	return result, nil
}

func servedQuestions(tx *gorm.DB, result models.CbtResult) (map[uuid.UUID]models.CbtObjQuestion, error) {
	var questions []models.CbtObjQuestion
	if len(result.QuestionOrder) > 0 {
		if err := tx.Where("id IN ?", result.QuestionOrder).Find(&questions).Error; err != nil {
			return nil, err
		}
	}
	byID := make(map[uuid.UUID]models.CbtObjQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	return byID, nil
}

func presentQuestions(result models.CbtResult, byID map[uuid.UUID]models.CbtObjQuestion) []StartedQuestion {
	selected := make(map[uuid.UUID]string, len(result.ResultDoc))
	for _, a := range result.ResultDoc {
		selected[a.QuestionID] = a.SelectedOption
	}

	out := make([]StartedQuestion, 0, len(result.QuestionOrder))
	for i, id := range result.QuestionOrder {
		q, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, StartedQuestion{
			QuestionID:     q.ID,
			QuestionNumber: i + 1,
			QuestionText:   q.QuestionText,
			Options:        q.Options,
			Score:          q.Score,
			ImageURL:       q.ImageURL,
			SelectedOption: selected[q.ID],
		})
	}
	return out
}

// loadActiveAttempt returns the caller's attempt, refusing submitted ones.
// The row stays locked until tx ends.
func loadActiveAttempt(tx *gorm.DB, ref AttemptRef) (models.CbtResult, error) {
	var result models.CbtResult

	resultID, err := parseID(ref.CbtResultID, "cbt result")
	if err != nil {
		return result, err
	}
	examID, err := parseID(ref.ExamID, "exam")
	if err != nil {
		return result, err
	}

	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Exam.Timetable").Preload("Exam.Subject").Preload("Student").
		Where("id = ? AND exam_id = ? AND student_id = ?", resultID, examID, ref.StudentID).
		First(&result).Error
	if err != nil {
		return result, notFoundAs(err, "CBT attempt not found.")
	}
	if result.Status == models.CbtResultSubmitted {
		return result, errAlreadySubmitted
	}
	return result, nil
}

var (
	errAlreadySubmitted = businessError("This CBT has already been submitted.")
	errTimeUp           = businessError("Time is up for this CBT.")
)

// stillInProgress checks a write that was conditioned on the attempt being in
// progress; no affected row means another submission closed it first.
func stillInProgress(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errAlreadySubmitted
	}
	return nil
}

// timeIsUp reports whether the student can no longer write to the attempt.
func timeIsUp(result models.CbtResult, at time.Time) bool {
	return result.Exam != nil && attemptExpired(result, *result.Exam, at, 0)
}

// mergeAnswers folds answers into the attempt's result doc, keyed by question.
func mergeAnswers(result models.CbtResult, byID map[uuid.UUID]models.CbtObjQuestion, answers []AnswerInput) ([]models.CbtAnswer, error) {
	merged := append([]models.CbtAnswer(nil), result.ResultDoc...)
	index := make(map[uuid.UUID]int, len(merged))
	for i, a := range merged {
		index[a.QuestionID] = i
	}

	for _, a := range answers {
		questionID, err := parseID(a.QuestionID, "question")
		if err != nil {
			return nil, err
		}
		q, ok := byID[questionID]
		if !ok {
			return nil, businessError("An answer refers to a question that is not part of this CBT.")
		}
		if !containsOption(q.Options, a.SelectedOption) {
			return nil, businessError("The selected option is not valid for one of the questions.")
		}

		answer := models.CbtAnswer{QuestionID: questionID, SelectedOption: a.SelectedOption}
		if i, ok := index[questionID]; ok {
			merged[i] = answer
		} else {
			index[questionID] = len(merged)
			merged = append(merged, answer)
		}
	}
	return merged, nil
}

func containsOption(options []string, option string) bool {
	for _, o := range options {
		if o == option {
			return true
		}
	}
	return false
}

func SubjectCbtObjCbtAssessmentRemainingTimeUpdate(ctx context.Context, input RemainingTimeInput) error {
	return db(ctx).Transaction(func(tx *gorm.DB) error {
		result, err := loadActiveAttempt(tx, input.AttemptRef)
		if err != nil {
			return err
		}
		if timeIsUp(result, now()) {
			return errTimeUp
		}
		if input.RemainingTime < 0 {
			return businessError("Remaining time cannot be negative.")
		}
		if input.RemainingTime > result.RemainingTime {
			return businessError("Remaining time cannot be increased.")
		}

		return stillInProgress(tx.Model(&models.CbtResult{}).
			Where("id = ? AND status = ?", result.ID, models.CbtResultInProgress).
			Updates(map[string]interface{}{
				"remaining_time":      input.RemainingTime,
				"last_time_update_at": now(),
			}))
	})
}

func SubjectCbtObjCbtAssessmentUpdate(ctx context.Context, input AnswersUpdateInput) ([]models.CbtAnswer, error) {
	var merged []models.CbtAnswer
	err := db(ctx).Transaction(func(tx *gorm.DB) error {
		result, err := loadActiveAttempt(tx, input.AttemptRef)
		if err != nil {
			return err
		}
		if timeIsUp(result, now()) {
			return errTimeUp
		}
		byID, err := servedQuestions(tx, result)
		if err != nil {
			return err
		}
		merged, err = mergeAnswers(result, byID, input.ResultDoc)
		if err != nil {
			return err
		}

		result.ResultDoc = merged
		return stillInProgress(tx.Model(&result).
			Where("status = ?", models.CbtResultInProgress).
			Select("result_doc", "updated_at").
			Updates(&result))
	})
	return merged, err
}

func SubjectCbtObjCbtAssessmentSubmission(ctx context.Context, input SubmissionInput) (SubmissionResult, error) {
	var summary SubmissionResult
	if !models.IsValidTriggerType(input.TriggerType) {
		return summary, businessError("Invalid trigger type.")
	}

	var result models.CbtResult
	err := db(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = loadActiveAttempt(tx, input.AttemptRef)
		if err != nil {
			return err
		}

		at := now()
		answers, trigger := input.ResultDoc, input.TriggerType
		if timeIsUp(result, at) {
			// late answers are dropped; the attempt closes with what was saved in time
			answers, trigger = nil, models.TriggerTimeUp
		}
		summary, err = submitAttempt(tx, &result, answers, trigger, at)
		return err
	})
	if err != nil {
		return summary, err
	}

	afterSubmission(result, summary)
	return summary, nil
}

// submitAttempt scores the attempt and closes it. result must come from loadActiveAttempt.
func submitAttempt(tx *gorm.DB, result *models.CbtResult, answers []AnswerInput, trigger string, at time.Time) (SubmissionResult, error) {
	byID, err := servedQuestions(tx, *result)
	if err != nil {
		return SubmissionResult{}, err
	}
	merged, err := mergeAnswers(*result, byID, answers)
	if err != nil {
		return SubmissionResult{}, err
	}

	chosen := make(map[uuid.UUID]string, len(merged))
	for _, a := range merged {
		chosen[a.QuestionID] = a.SelectedOption
	}
	var score, total float64
	for _, id := range result.QuestionOrder {
		q, ok := byID[id]
		if !ok {
			continue
		}
		total += q.Score
		if chosen[id] == q.CorrectAnswer {
			score += q.Score
		}
	}

	submittedAt := at
	triggerType := trigger
	result.ResultDoc = merged
	result.Status = models.CbtResultSubmitted
	result.SubmittedAt = &submittedAt
	result.TriggerType = &triggerType
	result.ObjScore = score
	result.ObjTotal = total

	if err := stillInProgress(tx.Model(result).
		Where("status = ?", models.CbtResultInProgress).
		Select("result_doc", "status", "submitted_at", "trigger_type", "obj_score", "obj_total", "updated_at").
		Updates(result)); err != nil {
		return SubmissionResult{}, err
	}

	name := ""
	if result.Exam != nil {
		name = subjectName(*result.Exam)
	}
	return SubmissionResult{
		CbtResultID:    result.ID,
		ExamID:         result.ExamID,
		SubjectName:    name,
		ObjScore:       score,
		ObjTotal:       total,
		AnsweredCount:  len(merged),
		TotalQuestions: len(result.QuestionOrder),
		TriggerType:    trigger,
		SubmittedAt:    submittedAt,
		ResultDoc:      merged,
	}, nil
}

// afterSubmission fans out the side effects of a committed submission.
func afterSubmission(result models.CbtResult, summary SubmissionResult) {
	event := websocket.CbtEvent{
		Type:        websocket.EventCbtSubmitted,
		ExamID:      result.ExamID,
		StudentID:   result.StudentID,
		ResultID:    result.ID,
		TriggerType: summary.TriggerType,
		At:          summary.SubmittedAt,
	}
	if result.Exam != nil && result.Exam.Timetable != nil {
		event.ClassID = result.Exam.Timetable.ClassID
	}
	websocket.Publish(event)

	if result.Student != nil {
		go notifications.SendCbtResultEmail(result.Student.FullName, result.Student.Email, summary.SubjectName, summary.ObjScore, summary.ObjTotal)
	}
	if ResultSlipEnabled() {
		go GenerateResultSlip(result.ID)
	}
}

// AutoSubmitExpired submits every in-progress attempt whose exam window has
// closed or whose remaining time ran out more than grace ago.
func AutoSubmitExpired(ctx context.Context, at time.Time, grace time.Duration) (int, error) {
	var candidates []models.CbtResult
	if err := db(ctx).Preload("Exam").Where("status = ?", models.CbtResultInProgress).Find(&candidates).Error; err != nil {
		return 0, err
	}

	submitted := 0
	for _, c := range candidates {
		if c.Exam == nil || !attemptExpired(c, *c.Exam, at, grace) {
			continue
		}

		var result models.CbtResult
		var summary SubmissionResult
		err := db(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			result, err = loadActiveAttempt(tx, AttemptRef{
				CbtResultID: c.ID.String(),
				ExamID:      c.ExamID.String(),
				StudentID:   c.StudentID,
			})
			if err != nil {
				return err
			}
			summary, err = submitAttempt(tx, &result, nil, models.TriggerAuto, at)
			return err
		})
		if errors.Is(err, errAlreadySubmitted) {
			continue
		}
		if err != nil {
			logger.Log.Error("auto submit failed", zap.String("cbt_result_id", c.ID.String()), zap.Error(err))
			continue
		}

		afterSubmission(result, summary)
		submitted++
	}
	return submitted, nil
}

func attemptExpired(result models.CbtResult, exam models.CbtExam, at time.Time, grace time.Duration) bool {
	if !at.Before(exam.EndTime().Add(grace)) {
		return true
	}
	deadline := result.LastTimeUpdateAt.Add(time.Duration(result.RemainingTime)*time.Second + grace)
	return at.After(deadline)
}
