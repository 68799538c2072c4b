package handlers

import (
	"fmt"

	"github.com/anjiri1684/school_cbt/services"
	"github.com/anjiri1684/school_cbt/utils"
	"github.com/gofiber/fiber/v2"
)

type ObjQuestionsRequest struct {
	QuestionsArray []services.ObjQuestionInput `json:"questions_array"`
	Term           string                      `json:"term"`
	SubjectID      string                      `json:"subject_id"`
	AssessmentType string                      `json:"assessment_type"`
}

type TheoryQuestionsRequest struct {
	QuestionsArray []services.TheoryQuestionInput `json:"questions_array"`
	Term           string                         `json:"term"`
	SubjectID      string                         `json:"subject_id"`
	AssessmentType string                         `json:"assessment_type"`
}

func SetSubjectCbtObjQuestionsForAClass(c *fiber.Ctx) error {
	academicSessionID := c.Params("academic_session_id")
	classID := c.Params("class_id")

	var req ObjQuestionsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if len(req.QuestionsArray) == 0 {
		return badRequest("Questions are required.")
	}

	teacherID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := utils.RequireFields(
		utils.F("academic_session_id", academicSessionID),
		utils.F("class_id", classID),
		utils.F("questions_array", req.QuestionsArray),
		utils.F("term", req.Term),
		utils.F("subject_id", req.SubjectID),
		utils.F("assessment_type", req.AssessmentType),
	); err != nil {
		return err
	}

	if err := utils.ValidateArray("questions_array", req.QuestionsArray); err != nil {
		return err
	}

	result, err := services.ObjQuestionSetting(c.UserContext(), services.ObjQuestionSettingInput{
		QuestionSlot: services.QuestionSlot{
			AcademicSessionID: academicSessionID,
			ClassID:           classID,
			Term:              req.Term,
			SubjectID:         req.SubjectID,
			AssessmentType:    req.AssessmentType,
			TeacherID:         teacherID,
		},
		QuestionsArray: req.QuestionsArray,
	})
	if err != nil {
		return serviceError(err, "Unable to store Cbt assessment questions for this subject.")
	}

	return respond(c, fiber.StatusCreated, fmt.Sprintf("Cbt assessment questions submitted for %s", result.SubjectName), "", nil)
}

func SetSubjectCbtTheoryQuestionsForAClass(c *fiber.Ctx) error {
	academicSessionID := c.Params("academic_session_id")
	classID := c.Params("class_id")

	teacherID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req TheoryQuestionsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := utils.RequireFields(
		utils.F("academic_session_id", academicSessionID),
		utils.F("class_id", classID),
		utils.F("questions_array", req.QuestionsArray),
		utils.F("term", req.Term),
		utils.F("subject_id", req.SubjectID),
		utils.F("assessment_type", req.AssessmentType),
	); err != nil {
		return err
	}

	if err := utils.ValidateArray("questions_array", req.QuestionsArray); err != nil {
		return err
	}

	result, err := services.TheoryQuestionSetting(c.UserContext(), services.TheoryQuestionSettingInput{
		QuestionSlot: services.QuestionSlot{
			AcademicSessionID: academicSessionID,
			ClassID:           classID,
			Term:              req.Term,
			SubjectID:         req.SubjectID,
			AssessmentType:    req.AssessmentType,
			TeacherID:         teacherID,
		},
		QuestionsArray: req.QuestionsArray,
	})
	if err != nil {
		return serviceError(err, "Unable to store Cbt theory questions for this subject.")
	}

	return respond(c, fiber.StatusCreated, fmt.Sprintf("Cbt theory questions submitted for %s", result.SubjectName), "", nil)
}
