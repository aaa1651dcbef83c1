package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleJobSeeker Role = "JOB_SEEKER"
	RoleRecruiter Role = "RECRUITER"
	RoleAdmin     Role = "ADMIN"
)

var Roles = []Role{RoleJobSeeker, RoleRecruiter, RoleAdmin}

// ParseRole accepts any casing and surrounding whitespace.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	for _, r := range Roles {
		if r == role {
			return role, true
		}
	}
	return "", false
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Name         string `gorm:"not null" json:"name"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'JOB_SEEKER';index" json:"role"`

	// Associations exist for cascade constraints; they are never preloaded
	// on the user itself.
	Profile      *Profile      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Jobs         []Job         `gorm:"foreignKey:RecruiterID;constraint:OnDelete:CASCADE" json:"-"`
	Applications []Application `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SavedJobs    []SavedJob    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// UserSummary is the public slice of a user attached to related rows.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) Summary() *UserSummary {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
