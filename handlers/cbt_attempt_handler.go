package handlers

import (
	"github.com/anjiri1684/school_cbt/models"
	"github.com/anjiri1684/school_cbt/services"
	"github.com/anjiri1684/school_cbt/utils"
	"github.com/gofiber/fiber/v2"
)

type AuthorizeStudentsRequest struct {
	StudentsIDArray []string `json:"students_id_array"`
	Term            string   `json:"term"`
}

type RemainingTimeRequest struct {
	RemainingTime *int `json:"remaining_time"`
}

type ResultDocRequest struct {
	ResultDoc   []services.AnswerInput `json:"result_doc"`
	TriggerType string                 `json:"trigger_type"`
}

func ClassTeacherAuthorizeStudentsToWriteSubjectCbt(c *fiber.Ctx) error {
	subjectID := c.Params("subject_id")
	academicSessionID := c.Params("academic_session_id")
	classID := c.Params("class_id")

	var req AuthorizeStudentsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if len(req.StudentsIDArray) == 0 {
		return badRequest("Please provide the students that are to be allowed to take the CBT for this subject.")
	}

	teacherID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := utils.RequireFields(
		utils.F("subject_id", subjectID),
		utils.F("term", req.Term),
		utils.F("academic_session_id", academicSessionID),
		utils.F("class_id", classID),
		utils.F("students_id_array", req.StudentsIDArray),
	); err != nil {
		return err
	}

	result, err := services.StudentCbtSubjectCbtAssessmentAuthorization(c.UserContext(), services.AuthorizationInput{
		SubjectID:         subjectID,
		Term:              req.Term,
		AcademicSessionID: academicSessionID,
		ClassID:           classID,
		TeacherID:         teacherID,
		StudentsIDArray:   req.StudentsIDArray,
	})
	if err != nil {
		return serviceError(err, "Unable to authorize students to take this CBT subject.")
	}

	return respond(c, fiber.StatusCreated, "Students CBT subject attendance marked successfully", "authorized_students_ids", result)
}

func StartSubjectCbtObjCbtAssessmentForAClass(c *fiber.Ctx) error {
	term := c.Params("term")
	subjectID := c.Params("subject_id")
	academicSessionID := c.Params("academic_session_id")
	classID := c.Params("class_id")

	studentID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := utils.RequireFields(
		utils.F("academic_session_id", academicSessionID),
		utils.F("class_id", classID),
		utils.F("term", term),
		utils.F("subject_id", subjectID),
	); err != nil {
		return err
	}

	result, err := services.SubjectCbtObjCbtAssessmentStarting(c.UserContext(), services.StartInput{
		AcademicSessionID: academicSessionID,
		ClassID:           classID,
		StudentID:         studentID,
		Term:              term,
		SubjectID:         subjectID,
	})
	if err != nil {
		return serviceError(err, "Unable to start Cbt assessment.")
	}

	return respond(c, fiber.StatusOK, "Cbt assessment started successfully.", "questions", result)
}

func UpdateSubjectCbtObjCbtAssessmentRemainingTimeForAClass(c *fiber.Ctx) error {
	cbtResultID := c.Params("cbt_result_id")
	examID := c.Params("exam_id")

	studentID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req RemainingTimeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := utils.RequireFields(
		utils.F("cbt_result_id", cbtResultID),
		utils.F("exam_id", examID),
		utils.F("remaining_time", req.RemainingTime),
	); err != nil {
		return err
	}

	err = services.SubjectCbtObjCbtAssessmentRemainingTimeUpdate(c.UserContext(), services.RemainingTimeInput{
		AttemptRef: services.AttemptRef{
			CbtResultID: cbtResultID,
			ExamID:      examID,
			StudentID:   studentID,
		},
		RemainingTime: *req.RemainingTime,
	})
	if err != nil {
		return serviceError(err, "Unable to update exam remaining time.")
	}

	return respond(c, fiber.StatusOK, "Cbt assessment time updated successfully.", "", nil)
}

func UpdateSubjectCbtObjCbtAssessmentAnswersForAClass(c *fiber.Ctx) error {
	cbtResultID := c.Params("cbt_result_id")
	examID := c.Params("exam_id")

	studentID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req ResultDocRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if len(req.ResultDoc) == 0 {
		return badRequest("No answer selected.")
	}

	if err := utils.RequireFields(
		utils.F("cbt_result_id", cbtResultID),
		utils.F("exam_id", examID),
		utils.F("result_doc", req.ResultDoc),
	); err != nil {
		return err
	}

	if err := utils.ValidateArray("result_doc", req.ResultDoc); err != nil {
		return err
	}

	result, err := services.SubjectCbtObjCbtAssessmentUpdate(c.UserContext(), services.AnswersUpdateInput{
		AttemptRef: services.AttemptRef{
			CbtResultID: cbtResultID,
			ExamID:      examID,
			StudentID:   studentID,
		},
		ResultDoc: req.ResultDoc,
	})
	if err != nil {
		return serviceError(err, "Unable to update exam.")
	}

	return respond(c, fiber.StatusOK, "Cbt assessment answers updated successfully.", "questions", result)
}

func SubmitSubjectCbtObjCbtAssessmentForAClass(c *fiber.Ctx) error {
	cbtResultID := c.Params("cbt_result_id")
	examID := c.Params("exam_id")

	studentID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req ResultDocRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if !models.IsValidTriggerType(req.TriggerType) {
		return badRequest("Invalid trigger type.")
	}

	if err := utils.RequireFields(
		utils.F("cbt_result_id", cbtResultID),
		utils.F("exam_id", examID),
		utils.F("result_doc", req.ResultDoc),
		utils.F("trigger_type", req.TriggerType),
	); err != nil {
		return err
	}

	if len(req.ResultDoc) > 0 {
		if err := utils.ValidateArray("result_doc", req.ResultDoc); err != nil {
			return err
		}
	}

	result, err := services.SubjectCbtObjCbtAssessmentSubmission(c.UserContext(), services.SubmissionInput{
		AttemptRef: services.AttemptRef{
			CbtResultID: cbtResultID,
			ExamID:      examID,
			StudentID:   studentID,
		},
		ResultDoc:   req.ResultDoc,
		TriggerType: req.TriggerType,
	})
	if err != nil {
		return serviceError(err, "Unable to end and update Cbt assessment.")
	}

	return respond(c, fiber.StatusOK, "CBT assessment submitted successfully.", "questions", result)
}
