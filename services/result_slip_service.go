package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	config "github.com/anjiri1684/school_cbt/configs"
	"github.com/anjiri1684/school_cbt/database"
	"github.com/anjiri1684/school_cbt/logger"
	"github.com/anjiri1684/school_cbt/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resultSlipFolder = "school_cbt_result_slips"

var resultSlipTemplate = template.Must(template.New("result_slip").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Arial, sans-serif; margin: 48px; color: #222; }
h1 { font-size: 22px; margin-bottom: 4px; }
table { border-collapse: collapse; margin-top: 24px; width: 100%; }
td { border: 1px solid #bbb; padding: 8px 12px; }
td.label { background: #f3f3f3; width: 40%; }
</style>
</head>
<body>
<h1>CBT Result Slip</h1>
<p>{{.Term}} &middot; {{.AssessmentType}}</p>
<table>
<tr><td class="label">Student</td><td>{{.StudentName}}</td></tr>
<tr><td class="label">Admission number</td><td>{{.AdmissionNumber}}</td></tr>
<tr><td class="label">Class</td><td>{{.ClassName}}</td></tr>
<tr><td class="label">Subject</td><td>{{.SubjectName}}</td></tr>
<tr><td class="label">Score</td><td>{{printf "%.1f" .Score}} / {{printf "%.1f" .Total}}</td></tr>
<tr><td class="label">Submitted</td><td>{{.SubmittedAt}}</td></tr>
</table>
</body>
</html>`))

type resultSlipData struct {
	StudentName     string
	AdmissionNumber string
	ClassName       string
	SubjectName     string
	Term            string
	AssessmentType  string
	Score           float64
	Total           float64
	SubmittedAt     string
}

func ResultSlipEnabled() bool {
	return config.Config("CLOUDINARY_URL") != ""
}

// GenerateResultSlip renders a submitted attempt to PDF, uploads it and
// stores the link on the result.
func GenerateResultSlip(resultID uuid.UUID) {
	log := logger.Log.With(zap.String("cbt_result_id", resultID.String()))

	var result models.CbtResult
	if err := database.DB.
		Preload("Student").
		Preload("Exam.Subject").
		Preload("Exam.Timetable.Class").
		First(&result, "id = ?", resultID).Error; err != nil {
		log.Error("🔥 Failed to load result for slip", zap.Error(err))
		return
	}
	if result.Status != models.CbtResultSubmitted || result.ResultSlipURL != nil {
		return
	}

	htmlData, err := renderResultSlipHTML(slipData(result))
	if err != nil {
		log.Error("🔥 Failed to render result slip HTML", zap.Error(err))
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Error("🔥 Failed to generate result slip PDF", zap.Error(err))
		return
	}

	uploadURL, err := uploadResultSlip(pdfBytes, result.StudentID.String())
	if err != nil {
		log.Error("🔥 Failed to upload result slip", zap.Error(err))
		return
	}

	if err := database.DB.Model(&models.CbtResult{}).Where("id = ?", resultID).Update("result_slip_url", uploadURL).Error; err != nil {
		log.Error("🔥 Failed to save result slip URL", zap.Error(err))
		return
	}
	log.Info("✅ Result slip generated", zap.String("url", uploadURL))
}

func slipData(result models.CbtResult) resultSlipData {
	data := resultSlipData{
		Score: result.ObjScore,
		Total: result.ObjTotal,
	}
	if result.SubmittedAt != nil {
		data.SubmittedAt = result.SubmittedAt.Format("January 2, 2006 15:04")
	}
	if result.Student != nil {
		data.StudentName = result.Student.FullName
		if result.Student.AdmissionNumber != nil {
			data.AdmissionNumber = *result.Student.AdmissionNumber
		}
	}
	if exam := result.Exam; exam != nil {
		data.SubjectName = subjectName(*exam)
		if exam.Timetable != nil {
			data.Term = exam.Timetable.Term
			data.AssessmentType = exam.Timetable.AssessmentType
			if exam.Timetable.Class != nil {
				data.ClassName = exam.Timetable.Class.Name
			}
		}
	}
	return data
}

func renderResultSlipHTML(data resultSlipData) (string, error) {
	var rendered bytes.Buffer
	if err := resultSlipTemplate.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, 30*time.Second)
	defer cancelTimeout()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadResultSlip(fileBytes []byte, studentID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploader.UploadParams{
		PublicID:     fmt.Sprintf("%s_%s", studentID, uuid.New().String()),
		Folder:       resultSlipFolder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	return uploadResult.SecureURL, nil
}
