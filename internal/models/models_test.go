package models_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/justsurfingit/job-portal/internal/models"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		raw    string
		want   models.Category
		wantOK bool
	}{
		{"frontend", models.CategoryFrontend, true},
		{"  Frontend ", models.CategoryFrontend, true},
		{"BACKEND", models.CategoryBackend, true},
		{"fullstack", models.CategoryFullstack, true},
		{"mobile", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := models.NormalizeCategory(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeCategory(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseEnums(t *testing.T) {
	if r, ok := models.ParseRole(" recruiter "); !ok || r != models.RoleRecruiter {
		t.Errorf("ParseRole = %q, %v", r, ok)
	}
	if _, ok := models.ParseRole("SUPERUSER"); ok {
		t.Error("ParseRole accepted unknown role")
	}
	if s, ok := models.ParseApplicationStatus("accepted"); !ok || s != models.StatusAccepted {
		t.Errorf("ParseApplicationStatus = %q, %v", s, ok)
	}
	if _, ok := models.ParseApplicationStatus("HIRED"); ok {
		t.Error("ParseApplicationStatus accepted unknown status")
	}
	if jt, ok := models.ParseJobType("part-time"); !ok || jt != models.JobTypePartTime {
		t.Errorf("ParseJobType = %q, %v", jt, ok)
	}
	if _, ok := models.ParseJobType("gig"); ok {
		t.Error("ParseJobType accepted unknown type")
	}
}

func TestJobViewJSON(t *testing.T) {
	job := &models.Job{
		ID:          7,
		RecruiterID: 3,
		Title:       "Engineer",
		Recruiter:   &models.User{ID: 3, Name: "Rita", Email: "rita@acme.test", PasswordHash: "hash"},
	}

	data, err := json.Marshal(models.NewJobView(job))
	if err != nil {
		t.Fatal(err)
	}

	out := string(data)
	if !strings.Contains(out, `"recruiter":{"id":3,"name":"Rita","email":"rita@acme.test"}`) {
		t.Errorf("missing recruiter summary: %s", out)
	}
	if strings.Contains(out, "hash") {
		t.Errorf("password hash leaked: %s", out)
	}
	if strings.Contains(out, "application_count") {
		t.Errorf("unexpected application_count: %s", out)
	}
}
