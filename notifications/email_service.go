package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	config "github.com/anjiri1684/school_cbt/configs"
	"github.com/anjiri1684/school_cbt/logger"
	"go.uber.org/zap"
)

const brevoURL = "https://api.brevo.com/v3/smtp/email"

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	URL         string
	client      *http.Client
}

var EmailClient *BrevoService

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func InitEmailService() {
	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.ConfigDefault("EMAIL_SENDER_NAME", "School CBT")

	if apiKey == "" || senderEmail == "" {
		logger.Log.Warn("⚠️ Email service not configured. Missing API Key or Sender Email.")
		EmailClient = nil
		return
	}

	EmailClient = NewBrevoService(apiKey, senderEmail, senderName)
	logger.Log.Info("✅ Email service initialized successfully.", zap.String("sender", senderEmail))
}

func NewBrevoService(apiKey, senderEmail, senderName string) *BrevoService {
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		URL:         brevoURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *BrevoService) send(toEmail, toName, subject, htmlContent string) error {
	at := strings.Index(toEmail, "@")
	if at <= 0 {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:at]
	}

	body, err := json.Marshal(brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.URL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func SendEmail(toName, toEmail, subject, htmlContent string) {
	if EmailClient == nil {
		logger.Log.Debug("Email client not initialized, skipping email send.", zap.String("subject", subject))
		return
	}

	if err := EmailClient.send(toEmail, toName, subject, htmlContent); err != nil {
		logger.Log.Error("🔥 Failed to send email", zap.String("to", toEmail), zap.Error(err))
		return
	}
	logger.Log.Info("✅ Email sent", zap.String("to", toEmail), zap.String("subject", subject))
}

var cbtResultEmailTemplate = template.Must(template.New("cbt_result").Parse(
	`<h1>CBT Submitted</h1><p>Hi {{.StudentName}},</p><p>Your {{.SubjectName}} CBT has been submitted.</p><p><b>Objective score:</b> {{printf "%.1f" .Score}} / {{printf "%.1f" .Total}}</p>`,
))

func CbtResultEmailBody(studentName, subjectName string, score, total float64) string {
	var buf bytes.Buffer
	err := cbtResultEmailTemplate.Execute(&buf, struct {
		StudentName string
		SubjectName string
		Score       float64
		Total       float64
	}{studentName, subjectName, score, total})
	if err != nil {
		logger.Log.Error("failed to render cbt result email", zap.Error(err))
		return ""
	}
	return buf.String()
}

func SendCbtResultEmail(studentName, studentEmail, subjectName string, score, total float64) {
	SendEmail(studentName, studentEmail, fmt.Sprintf("Your %s CBT result", subjectName), CbtResultEmailBody(studentName, subjectName, score, total))
}
