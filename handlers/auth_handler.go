package handlers

import (
	"time"

	"github.com/anjiri1684/school_cbt/database"
	"github.com/anjiri1684/school_cbt/logger"
	"github.com/anjiri1684/school_cbt/middleware"
	"github.com/anjiri1684/school_cbt/models"
	"github.com/anjiri1684/school_cbt/notifications"
	"github.com/anjiri1684/school_cbt/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	AdmissionNumber *string   `json:"admission_number,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func toUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:              user.ID.String(),
		FullName:        user.FullName,
		Email:           user.Email,
		Role:            user.Role,
		AdmissionNumber: user.AdmissionNumber,
		CreatedAt:       user.CreatedAt,
	}
}

func emailTaken(tx *gorm.DB, email string) (bool, error) {
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RegisterUser signs up a student and gives them an admission number.
func RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password")
	}

	var newUser models.User
	err = database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, req.Email)
		if err != nil {
			return err
		}
		if taken {
			return fiber.NewError(fiber.StatusConflict, "Email already exists")
		}

		admissionNumber, err := utils.GenerateUniqueAdmissionNumber(tx)
		if err != nil {
			return err
		}

		newUser = models.User{
			FullName:        req.FullName,
			Email:           req.Email,
			Password:        string(hashedPassword),
			Role:            models.RoleStudent,
			AdmissionNumber: &admissionNumber,
			IsActive:        true,
		}
		return tx.Create(&newUser).Error
	})
	if err != nil {
		return serviceError(err, "Failed to create user")
	}

	go notifications.SendEmail(newUser.FullName, newUser.Email, "Welcome!",
		"<h1>Welcome!</h1><p>Your student account is ready. Your admission number is "+*newUser.AdmissionNumber+".</p>")

	return respond(c, fiber.StatusCreated, "User registered successfully.", "user", toUserResponse(newUser))
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var user models.User
	if err := database.DB.WithContext(c.UserContext()).Where("email = ?", req.Email).First(&user).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}
	if !user.IsActive {
		return fiber.NewError(fiber.StatusForbidden, "This account has been deactivated.")
	}

	token, err := middleware.IssueToken(user)
	if err != nil {
		logger.Log.Error("failed to sign token", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create token")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful.",
		"status":  fiber.StatusOK,
		"success": true,
		"token":   token,
		"user":    toUserResponse(user),
	})
}

func GetMe(c *fiber.Ctx) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := database.DB.WithContext(c.UserContext()).First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	return respond(c, fiber.StatusOK, "User fetched successfully.", "user", toUserResponse(user))
}
