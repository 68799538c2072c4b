package middleware

import (
	"time"

	config "github.com/anjiri1684/school_cbt/configs"
	"github.com/anjiri1684/school_cbt/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing or malformed JWT",
			"status":  fiber.StatusBadRequest,
			"success": false,
		})
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Invalid or expired JWT",
		"status":  fiber.StatusUnauthorized,
		"success": false,
	})
}

// CurrentUser reads the id and role from the verified token, if any.
func CurrentUser(c *fiber.Ctx) (uuid.UUID, string, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", false
	}
	rawID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)

	userID, err := uuid.Parse(rawID)
	if err != nil || role == "" {
		return uuid.Nil, "", false
	}
	return userID, role, true
}

func requireRole(message string, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, role, ok := CurrentUser(c)
		if ok {
			for _, allowed := range roles {
				if role == allowed {
					return c.Next()
				}
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": message,
			"status":  fiber.StatusForbidden,
			"success": false,
		})
	}
}

func AdminRequired() fiber.Handler {
	return requireRole("Forbidden: Admin access required", models.RoleAdmin)
}

func TeacherRequired() fiber.Handler {
	return requireRole("Forbidden: Teacher access required", models.RoleTeacher)
}

// StaffRequired lets admins and teachers through.
func StaffRequired() fiber.Handler {
	return requireRole("Forbidden: Staff access required", models.RoleAdmin, models.RoleTeacher)
}

func StudentRequired() fiber.Handler {
	return requireRole("Forbidden: Student access required", models.RoleStudent)
}

// ParseToken validates a raw token string the same way Protected does.
func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "unexpected signing method")
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}
	return claims, nil
}

// IssueToken signs the claims CurrentUser reads back.
func IssueToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}
