package models

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

type User struct {
	Base
	FullName        string  `gorm:"size:255;not null" json:"full_name"`
	Email           string  `gorm:"size:255;not null;unique" json:"email"`
	Password        string  `gorm:"not null" json:"-"`
	Role            string  `gorm:"size:20;not null;default:'student'" json:"role"`
	AdmissionNumber *string `gorm:"size:50;unique" json:"admission_number,omitempty"`
	IsActive        bool    `gorm:"not null" json:"is_active"`
}
