package handlers

import (
	"github.com/anjiri1684/school_cbt/services"
	"github.com/anjiri1684/school_cbt/utils"
	"github.com/gofiber/fiber/v2"
)

type TimetableRequest struct {
	Term           string                         `json:"term"`
	Level          string                         `json:"level"`
	AssessmentType string                         `json:"assessment_type"`
	TimetableArray []services.TimetableEntryInput `json:"timetable_array"`
}

func GetTermClassCbtAssessmentTimetables(c *fiber.Ctx) error {
	academicSessionID := c.Params("academic_session_id")
	classID := c.Params("class_id")
	term := c.Params("term")

	if err := utils.RequireFields(
		utils.F("academic_session_id", academicSessionID),
		utils.F("class_id", classID),
		utils.F("term", term),
	); err != nil {
		return err
	}

	result, err := services.FetchTermClassCbtAssessmentTimetable(c.UserContext(), services.TermClassTimetableQuery{
		AcademicSessionID: academicSessionID,
		ClassID:           classID,
		Term:              term,
	})
	if err != nil {
		return serviceError(err, "Unable to get Cbt assessment timetable for this class.")
	}

	return respond(c, fiber.StatusCreated, "Cbt assessment timetable fetched successfully.", "timetable", result)
}

func GetAllClassCbtAssessmentTimetables(c *fiber.Ctx) error {
	classID := c.Params("class_id")

	if err := utils.RequireFields(utils.F("class_id", classID)); err != nil {
		return err
	}

	result, err := services.FetchAllClassCbtAssessmentTimetables(c.UserContext(), classID, utils.ParsePageQuery(c))
	if err != nil {
		return serviceError(err, "Unable to get Cbt assessment timetable for this class.")
	}

	return respond(c, fiber.StatusCreated, "Cbt assessment timetable fetched successfully.", "timetable", result)
}

func CreateTermClassCbtAssessmentTimetable(c *fiber.Ctx) error {
	academicSessionID := c.Params("academic_session_id")
	classID := c.Params("class_id")

	userID, role, err := currentUser(c)
	if err != nil {
		return err
	}

	var req TimetableRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := utils.RequireFields(
		utils.F("academic_session_id", academicSessionID),
		utils.F("class_id", classID),
		utils.F("term", req.Term),
		utils.F("level", req.Level),
		utils.F("assessment_type", req.AssessmentType),
	); err != nil {
		return err
	}

	if err := utils.ValidateArray("timetable_array", req.TimetableArray); err != nil {
		return err
	}

	result, err := services.TermClassCbtAssessmentTimetableCreation(c.UserContext(), services.TimetableCreationInput{
		AcademicSessionID: academicSessionID,
		ClassID:           classID,
		Term:              req.Term,
		Level:             req.Level,
		AssessmentType:    req.AssessmentType,
		Timetable:         req.TimetableArray,
		UserID:            userID,
		UserRole:          role,
	})
	if err != nil {
		return serviceError(err, "Unable to create Cbt assessment timetable.")
	}

	return respond(c, fiber.StatusCreated, "Cbt assessment timetable created successfully.", "timetable", result)
}
