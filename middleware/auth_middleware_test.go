package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/anjiri1684/school_cbt/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "middleware-test-secret")

	app := fiber.New()
	app.Get("/staff", Protected(), StaffRequired(), func(c *fiber.Ctx) error {
		userID, role, ok := CurrentUser(c)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.JSON(fiber.Map{"user_id": userID, "role": role})
	})
	app.Get("/student", Protected(), StudentRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func tokenFor(t *testing.T, role string) (string, uuid.UUID) {
	t.Helper()
	user := models.User{Base: models.Base{ID: uuid.New()}, Role: role}
	token, err := IssueToken(user)
	require.NoError(t, err)
	return token, user.ID
}

func get(t *testing.T, app *fiber.App, path, token string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	body := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestStaffRequired(t *testing.T) {
	app := newGuardedApp(t)

	teacherToken, teacherID := tokenFor(t, models.RoleTeacher)
	code, body := get(t, app, "/staff", teacherToken)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, teacherID.String(), body["user_id"])
	assert.Equal(t, models.RoleTeacher, body["role"])

	adminToken, _ := tokenFor(t, models.RoleAdmin)
	code, _ = get(t, app, "/staff", adminToken)
	assert.Equal(t, fiber.StatusOK, code)

	studentToken, _ := tokenFor(t, models.RoleStudent)
	code, body = get(t, app, "/staff", studentToken)
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Forbidden: Staff access required", body["message"])
}

func TestStudentRequired(t *testing.T) {
	app := newGuardedApp(t)

	studentToken, _ := tokenFor(t, models.RoleStudent)
	code, _ := get(t, app, "/student", studentToken)
	assert.Equal(t, fiber.StatusOK, code)

	teacherToken, _ := tokenFor(t, models.RoleTeacher)
	code, _ = get(t, app, "/student", teacherToken)
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestProtectedRejectsBadTokens(t *testing.T) {
	app := newGuardedApp(t)

	code, body := get(t, app, "/staff", "")
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "Missing or malformed JWT", body["message"])

	code, body = get(t, app, "/staff", "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, "Invalid or expired JWT", body["message"])
}

func TestParseTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	token, userID := tokenFor(t, models.RoleAdmin)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims["user_id"])
	assert.Equal(t, models.RoleAdmin, claims["role"])

	t.Setenv("JWT_SECRET", "another-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}
