package handlers

import (
	"github.com/anjiri1684/school_cbt/services"
	"github.com/anjiri1684/school_cbt/utils"
	"github.com/gofiber/fiber/v2"
)

type AssessmentDocumentRequest struct {
	AssessmentDocumentArray []services.AssessmentDocumentInput `json:"assessment_document_array"`
}

func GetCbtAssessmentDocumentByID(c *fiber.Ctx) error {
	examDocumentID := c.Params("exam_document_id")

	result, err := services.FetchCbtAssessmentDocumentByID(c.UserContext(), examDocumentID)
	if err != nil {
		return serviceError(err, "Unable to fetch exam document.")
	}

	return respond(c, fiber.StatusCreated, "Cbt assessment document fetched successfully.", "exam_document", result)
}

func GetAllCbtAssessmentDocuments(c *fiber.Ctx) error {
	result, err := services.FetchAllCbtAssessmentDocuments(c.UserContext(), utils.ParsePageQuery(c))
	if err != nil {
		return serviceError(err, "Unable to fetch Cbt assessment documents.")
	}

	return respond(c, fiber.StatusCreated, "Cbt assessment document fetched successfully.", "exam_documents", result)
}

func CreateTermCbtAssessmentDocument(c *fiber.Ctx) error {
	academicSessionID := c.Params("academic_session_id")
	term := c.Params("term")

	if academicSessionID == "" {
		return badRequest("Academic session is required to proceed.")
	}
	if term == "" {
		return badRequest("Term is required to proceed.")
	}

	var req AssessmentDocumentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := utils.ValidateArray("assessment_document_array", req.AssessmentDocumentArray); err != nil {
		return err
	}

	result, err := services.TermCbtAssessmentDocumentCreation(c.UserContext(), services.TermDocumentCreationInput{
		AcademicSessionID:       academicSessionID,
		Term:                    term,
		AssessmentDocumentArray: req.AssessmentDocumentArray,
	})
	if err != nil {
		return serviceError(err, "Unable to create cbt assessment documents for the term.")
	}

	return respond(c, fiber.StatusCreated, "Cbt assessment documents created successfully.", "exam_document", result)
}

func GetTermCbtAssessmentDocument(c *fiber.Ctx) error {
	academicSessionID := c.Params("academic_session_id")
	term := c.Params("term")

	if academicSessionID == "" {
		return badRequest("Academic session is required to proceed.")
	}
	if term == "" {
		return badRequest("Term is required to proceed.")
	}

	result, err := services.FetchTermCbtAssessmentDocument(c.UserContext(), services.TermDocumentQuery{
		AcademicSessionID: academicSessionID,
		Term:              term,
	})
	if err != nil {
		return serviceError(err, "Unable to get CBT assessment document for the term.")
	}

	return respond(c, fiber.StatusCreated, "CBT assessment document fetched successfully.", "exam_document", result)
}
