package services_test

import (
	"testing"

	"gorm.io/gorm"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) auth.Identity {
	t.Helper()

	user := &models.User{Email: email, Name: "User " + email, PasswordHash: "unused", Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return auth.Identity{UserID: user.ID, Role: role}
}

func createJob(t *testing.T, db *gorm.DB, recruiter auth.Identity, title string, category models.Category) *models.Job {
	t.Helper()

	job := &models.Job{
		RecruiterID: recruiter.UserID,
		Title:       title,
		Company:     "Acme",
		Location:    "Remote",
		Category:    category,
		Type:        models.JobTypeFullTime,
		Salary:      "100k",
		Description: "Build things",
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}

func jobRequest() *dtos.JobRequest {
	return &dtos.JobRequest{
		Title:       strPtr("Engineer"),
		Company:     strPtr("Acme"),
		Location:    strPtr("Remote"),
		Salary:      strPtr("100k"),
		Description: strPtr("Build things"),
	}
}

func assertType(t *testing.T, err error, want apperrors.ErrorType) {
	t.Helper()

	if err == nil {
		t.Fatalf("error = nil, want %s", want)
	}
	if got := apperrors.TypeOf(err); got != want {
		t.Fatalf("error type = %s, want %s (%v)", got, want, err)
	}
}

func count(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()

	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
