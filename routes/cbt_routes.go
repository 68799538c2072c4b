package routes

import (
	"github.com/anjiri1684/school_cbt/handlers"
	"github.com/anjiri1684/school_cbt/middleware"
	"github.com/gofiber/fiber/v2"
)

// CbtRoutes guards each route on its own because the groups share a prefix.
func CbtRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	cbt := api.Group("/cbt", middleware.Protected())

	documents := cbt.Group("/documents")
	documents.Get("", middleware.StaffRequired(), handlers.GetAllCbtAssessmentDocuments)
	documents.Get("/:exam_document_id", middleware.StaffRequired(), handlers.GetCbtAssessmentDocumentByID)
	documents.Get("/:academic_session_id/:term", middleware.StaffRequired(), handlers.GetTermCbtAssessmentDocument)
	documents.Post("/:academic_session_id/:term", middleware.AdminRequired(), handlers.CreateTermCbtAssessmentDocument)

	timetables := cbt.Group("/timetables")
	timetables.Get("/:class_id", handlers.GetAllClassCbtAssessmentTimetables)
	timetables.Get("/:academic_session_id/:class_id/:term", handlers.GetTermClassCbtAssessmentTimetables)
	timetables.Post("/:academic_session_id/:class_id", middleware.StaffRequired(), handlers.CreateTermClassCbtAssessmentTimetable)

	questions := cbt.Group("/questions")
	questions.Post("/:academic_session_id/:class_id/obj", middleware.StaffRequired(), handlers.SetSubjectCbtObjQuestionsForAClass)
	questions.Post("/:academic_session_id/:class_id/theory", middleware.StaffRequired(), handlers.SetSubjectCbtTheoryQuestionsForAClass)

	cbt.Post("/authorize/:academic_session_id/:class_id/:subject_id", middleware.TeacherRequired(), handlers.ClassTeacherAuthorizeStudentsToWriteSubjectCbt)

	cbt.Post("/exams/:academic_session_id/:class_id/:subject_id/:term/start", middleware.StudentRequired(), handlers.StartSubjectCbtObjCbtAssessmentForAClass)

	results := cbt.Group("/results")
	results.Put("/:cbt_result_id/exams/:exam_id/time", middleware.StudentRequired(), handlers.UpdateSubjectCbtObjCbtAssessmentRemainingTimeForAClass)
	results.Put("/:cbt_result_id/exams/:exam_id/answers", middleware.StudentRequired(), handlers.UpdateSubjectCbtObjCbtAssessmentAnswersForAClass)
	results.Post("/:cbt_result_id/exams/:exam_id/submit", middleware.StudentRequired(), handlers.SubmitSubjectCbtObjCbtAssessmentForAClass)

	api.Get("/payment-priority", middleware.Protected(), handlers.GetPaymentPriority)
}
