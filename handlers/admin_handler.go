package handlers

import (
	"errors"
	"strings"

	"github.com/anjiri1684/school_cbt/database"
	"github.com/anjiri1684/school_cbt/models"
	"github.com/anjiri1684/school_cbt/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AcademicSessionRequest struct {
	Name     string `json:"name" validate:"required,max=20"`
	IsActive *bool  `json:"is_active"`
}

type ClassRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Level          string `json:"level" validate:"required,max=50"`
	ClassTeacherID string `json:"class_teacher_id" validate:"omitempty,uuid"`
}

type EnrollStudentsRequest struct {
	StudentsIDArray []string `json:"students_id_array" validate:"required,min=1,dive,uuid"`
}

type SubjectRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Code string `json:"code" validate:"required,max=20"`
}

type StaffRequest struct {
	FullName string `json:"full_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=teacher admin"`
}

func CreateAcademicSession(c *fiber.Ctx) error {
	var req AcademicSessionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	session := models.AcademicSession{Name: strings.TrimSpace(req.Name), IsActive: true}
	if req.IsActive != nil {
		session.IsActive = *req.IsActive
	}
	if err := database.DB.WithContext(c.UserContext()).Create(&session).Error; err != nil {
		return serviceError(err, "Unable to create academic session.")
	}

	return respond(c, fiber.StatusCreated, "Academic session created successfully.", "academic_session", session)
}

func ListAcademicSessions(c *fiber.Ctx) error {
	var sessions []models.AcademicSession
	if err := database.DB.WithContext(c.UserContext()).Order("name desc").Find(&sessions).Error; err != nil {
		return serviceError(err, "Unable to fetch academic sessions.")
	}
	return respond(c, fiber.StatusOK, "Academic sessions fetched successfully.", "academic_sessions", sessions)
}

func CreateClass(c *fiber.Ctx) error {
	var req ClassRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	class := models.Class{Name: strings.TrimSpace(req.Name), Level: req.Level}
	err := database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if req.ClassTeacherID != "" {
			teacherID := uuid.MustParse(req.ClassTeacherID)
			var count int64
			if err := tx.Model(&models.User{}).Where("id = ? AND role = ?", teacherID, models.RoleTeacher).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return badRequest("Class teacher must be an existing teacher.")
			}
			class.ClassTeacherID = &teacherID
		}
		return tx.Create(&class).Error
	})
	if err != nil {
		return serviceError(err, "Unable to create class.")
	}

	return respond(c, fiber.StatusCreated, "Class created successfully.", "class", class)
}

func ListClasses(c *fiber.Ctx) error {
	var classes []models.Class
	if err := database.DB.WithContext(c.UserContext()).Preload("ClassTeacher").Order("level asc, name asc").Find(&classes).Error; err != nil {
		return serviceError(err, "Unable to fetch classes.")
	}
	return respond(c, fiber.StatusOK, "Classes fetched successfully.", "classes", classes)
}

// EnrollClassStudents adds students to a class; already enrolled ones are kept.
func EnrollClassStudents(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("class_id"))
	if err != nil {
		return badRequest("Invalid class id.")
	}

	var req EnrollStudentsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var class models.Class
	err = database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&class, "id = ?", classID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Class not found.")
			}
			return err
		}

		var students []*models.User
		if err := tx.Where("id IN ? AND role = ?", req.StudentsIDArray, models.RoleStudent).Find(&students).Error; err != nil {
			return err
		}
		if len(students) != len(uniqueStrings(req.StudentsIDArray)) {
			return badRequest("Some of the selected students do not exist.")
		}

		if err := tx.Model(&class).Association("Students").Append(students); err != nil {
			return err
		}
		return tx.Preload("ClassTeacher").Preload("Students").First(&class, "id = ?", classID).Error
	})
	if err != nil {
		return serviceError(err, "Unable to enroll students.")
	}

	return respond(c, fiber.StatusOK, "Students enrolled successfully.", "class", class)
}

func CreateSubject(c *fiber.Ctx) error {
	var req SubjectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	subject := models.Subject{Name: strings.TrimSpace(req.Name), Code: strings.ToUpper(strings.TrimSpace(req.Code))}
	if err := database.DB.WithContext(c.UserContext()).Create(&subject).Error; err != nil {
		return serviceError(err, "Unable to create subject.")
	}

	return respond(c, fiber.StatusCreated, "Subject created successfully.", "subject", subject)
}

func ListSubjects(c *fiber.Ctx) error {
	var subjects []models.Subject
	if err := database.DB.WithContext(c.UserContext()).Order("name asc").Find(&subjects).Error; err != nil {
		return serviceError(err, "Unable to fetch subjects.")
	}
	return respond(c, fiber.StatusOK, "Subjects fetched successfully.", "subjects", subjects)
}

// CreateStaffUser creates teacher and admin accounts; students use /auth/register.
func CreateStaffUser(c *fiber.Ctx) error {
	var req StaffRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     req.Role,
		IsActive: true,
	}
	err = database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, req.Email)
		if err != nil {
			return err
		}
		if taken {
			return fiber.NewError(fiber.StatusConflict, "Email already exists")
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return serviceError(err, "Unable to create user.")
	}

	return respond(c, fiber.StatusCreated, "User created successfully.", "user", toUserResponse(user))
}

func GetAllUsers(c *fiber.Ctx) error {
	q := utils.ParsePageQuery(c)
	role := c.Query("role")

	query := database.DB.WithContext(c.UserContext()).Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if q.Search != "" {
		searchTerm := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return serviceError(err, "Unable to fetch users.")
	}

	var users []models.User
	if err := query.Order("created_at desc").Offset(q.Offset()).Limit(q.Limit).Find(&users).Error; err != nil {
		return serviceError(err, "Unable to fetch users.")
	}

	data := make([]UserResponse, 0, len(users))
	for _, user := range users {
		data = append(data, toUserResponse(user))
	}

	return respond(c, fiber.StatusOK, "Users fetched successfully.", "users", utils.NewPage(data, q, total))
}

func ToggleUserStatus(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return badRequest("Invalid user id.")
	}

	type Request struct {
		IsActive *bool `json:"is_active"`
	}
	var req Request
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := utils.RequireFields(utils.F("is_active", req.IsActive)); err != nil {
		return err
	}

	result := database.DB.WithContext(c.UserContext()).Model(&models.User{}).Where("id = ?", userID).Update("is_active", *req.IsActive)
	if result.Error != nil {
		return serviceError(result.Error, "Unable to update user status.")
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	return respond(c, fiber.StatusOK, "User status updated successfully.", "", nil)
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
