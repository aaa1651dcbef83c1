package models

import (
	"strings"
	"time"
)

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusReviewed ApplicationStatus = "REVIEWED"
	StatusAccepted ApplicationStatus = "ACCEPTED"
	StatusRejected ApplicationStatus = "REJECTED"
)

var ApplicationStatuses = []ApplicationStatus{StatusPending, StatusReviewed, StatusAccepted, StatusRejected}

func ParseApplicationStatus(raw string) (ApplicationStatus, bool) {
	status := ApplicationStatus(strings.ToUpper(strings.TrimSpace(raw)))
	for _, s := range ApplicationStatuses {
		if s == status {
			return status, true
		}
	}
	return "", false
}

// Application links a job seeker to a job. One row per (user, job).
type Application struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint  `gorm:"not null;uniqueIndex:idx_application_user_job" json:"user_id"`
	User   *User `json:"-"`
	JobID  uint  `gorm:"not null;uniqueIndex:idx_application_user_job;index" json:"job_id"`
	Job    *Job  `json:"-"`

	CoverLetter string            `gorm:"type:text" json:"cover_letter"`
	Status      ApplicationStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
}

// SavedJob is a job seeker's bookmark. One row per (user, job).
type SavedJob struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID uint  `gorm:"not null;uniqueIndex:idx_saved_job_user_job" json:"user_id"`
	User   *User `json:"-"`
	JobID  uint  `gorm:"not null;uniqueIndex:idx_saved_job_user_job;index" json:"job_id"`
	Job    *Job  `json:"-"`
}
