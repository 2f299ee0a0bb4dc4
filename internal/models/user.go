package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "Admin"
	RoleTeacher = "Teacher"
	RoleParent  = "Parent"
	RoleStudent = "Student"
)

var allowedRoles = map[string]struct{}{
	RoleAdmin:   {},
	RoleTeacher: {},
	RoleParent:  {},
	RoleStudent: {},
}

// ValidRole reports whether role is one of the four known roles. Roles are
// stored as text but treated as a closed set everywhere above the store.
func ValidRole(role string) bool {
	_, ok := allowedRoles[role]
	return ok
}

type User struct {
	ID           uint   `gorm:"primaryKey"`
	PublicID     string `gorm:"type:varchar(36);uniqueIndex;not null"`
	Username     string `gorm:"size:80;uniqueIndex;not null"`
	Email        string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:20;not null"`

	// ParentID is only meaningful for Role == Student; the link endpoint
	// enforces that, the column does not.
	ParentID *uint `gorm:"index"`
	ClassID  *uint `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.PublicID == "" {
		u.PublicID = uuid.NewString()
	}
	return nil
}

type Class struct {
	ID        uint   `gorm:"primaryKey"`
	PublicID  string `gorm:"type:varchar(36);uniqueIndex;not null"`
	Name      string `gorm:"size:100;not null"`
	TeacherID uint   `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (cl *Class) BeforeCreate(_ *gorm.DB) error {
	if cl.PublicID == "" {
		cl.PublicID = uuid.NewString()
	}
	return nil
}
