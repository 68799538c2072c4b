package notifications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anjiri1684/school_cbt/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestBrevoServiceSend(t *testing.T) {
	var got brevoPayload
	var apiKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	service := NewBrevoService("key-123", "exams@school.test", "School CBT")
	service.URL = server.URL

	err := service.send("ada@school.test", "", "Your Mathematics CBT result", "<p>hi</p>")
	require.NoError(t, err)

	assert.Equal(t, "key-123", apiKey)
	assert.Equal(t, "Your Mathematics CBT result", got.Subject)
	assert.Equal(t, "exams@school.test", got.Sender["email"])
	require.Len(t, got.To, 1)
	assert.Equal(t, "ada", got.To[0]["name"], "name falls back to the mailbox")
}

func TestBrevoServiceSendErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Key not found"}`))
	}))
	defer server.Close()

	service := NewBrevoService("bad", "exams@school.test", "School CBT")
	service.URL = server.URL

	err := service.send("ada@school.test", "Ada", "subject", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Key not found")

	err = service.send("not-an-email", "Ada", "subject", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recipient email")
}

func TestSendEmailWithoutClient(t *testing.T) {
	logger.Set(zaptest.NewLogger(t))
	t.Cleanup(func() { logger.Set(nil) })

	previous := EmailClient
	EmailClient = nil
	t.Cleanup(func() { EmailClient = previous })

	assert.NotPanics(t, func() {
		SendCbtResultEmail("Ada", "ada@school.test", "Mathematics", 3, 5)
	})
}

func TestCbtResultEmailBody(t *testing.T) {
	body := CbtResultEmailBody("Ada", "Mathematics", 7, 10)
	assert.Contains(t, body, "Hi Ada")
	assert.Contains(t, body, "Mathematics")
	assert.Contains(t, body, "7.0 / 10.0")
}

func TestCbtResultEmailBodyEscapesNames(t *testing.T) {
	body := CbtResultEmailBody(`<script>alert("x")</script>`, "Maths & <b>Stats</b>", 1, 2)
	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<b>Stats</b>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "Maths &amp; &lt;b&gt;Stats&lt;/b&gt;")
}
