// internal/models/user.go
package models

import (
	"time"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

type User struct {
	ID        uint      `json:"_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	Username  string    `json:"username" gorm:"unique;not null"`
	Email     string    `json:"email" gorm:"unique;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      string    `json:"role" gorm:"default:student"`
}

type Course struct {
	ID           uint      `json:"_id" gorm:"primaryKey"`
	CreatedAt    time.Time `json:"createdAt"`
	Name         string    `json:"courseName" gorm:"not null"`
	InstructorID uint      `json:"instructor" gorm:"index;not null"`
	Students     []User    `json:"studentsEnroled,omitempty" gorm:"many2many:course_enrollments"`
}
