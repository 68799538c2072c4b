package models

import "github.com/google/uuid"

type AcademicSession struct {
	Base
	Name     string `gorm:"size:20;not null;unique" json:"name"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}

type Class struct {
	Base
	Name           string     `gorm:"size:100;not null;unique" json:"name"`
	Level          string     `gorm:"size:50;not null" json:"level"`
	ClassTeacherID *uuid.UUID `gorm:"type:uuid" json:"class_teacher_id"`

	ClassTeacher *User  `gorm:"foreignkey:ClassTeacherID" json:"class_teacher,omitempty"`
	Students     []*User `gorm:"many2many:class_students;" json:"students,omitempty"`
}

type Subject struct {
	Base
	Name string `gorm:"size:100;not null" json:"name"`
	Code string `gorm:"size:20;not null;unique" json:"code"`
}
