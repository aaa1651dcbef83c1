package models

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryFrontend  Category = "frontend"
	CategoryBackend   Category = "backend"
	CategoryFullstack Category = "fullstack"
)

var Categories = []Category{CategoryFrontend, CategoryBackend, CategoryFullstack}

// NormalizeCategory trims and lowercases raw before matching it.
func NormalizeCategory(raw string) (Category, bool) {
	category := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, c := range Categories {
		if c == category {
			return category, true
		}
	}
	return "", false
}

type JobType string

const (
	JobTypeFullTime   JobType = "FULL_TIME"
	JobTypePartTime   JobType = "PART_TIME"
	JobTypeContract   JobType = "CONTRACT"
	JobTypeInternship JobType = "INTERNSHIP"
)

var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship}

// ParseJobType accepts "full-time", "Full Time" and "FULL_TIME" alike.
func ParseJobType(raw string) (JobType, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	for _, t := range JobTypes {
		if string(t) == normalized {
			return t, true
		}
	}
	return "", false
}

type Job struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RecruiterID uint  `gorm:"index;not null" json:"recruiter_id"`
	Recruiter   *User `gorm:"foreignKey:RecruiterID" json:"-"`

	Title        string   `gorm:"not null" json:"title"`
	Company      string   `gorm:"not null" json:"company"`
	Location     string   `gorm:"not null" json:"location"`
	Category     Category `gorm:"type:varchar(20);not null;default:'fullstack';index" json:"category"`
	Type         JobType  `gorm:"type:varchar(20);not null;default:'FULL_TIME'" json:"type"`
	Salary       string   `gorm:"not null" json:"salary"`
	Description  string   `gorm:"type:text;not null" json:"description"`
	Requirements string   `gorm:"type:text" json:"requirements"`

	Applications []Application `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SavedJobs    []SavedJob    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
