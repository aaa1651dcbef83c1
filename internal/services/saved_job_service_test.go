package services_test

import (
	"context"
	"testing"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/database/dbtest"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/services"
)

func TestSavedJobLifecycle(t *testing.T) {
	db := dbtest.New(t)
	svc := services.NewSavedJobService(db)
	recruiter := createUser(t, db, "r@example.com", models.RoleRecruiter)
	seeker := createUser(t, db, "s@example.com", models.RoleJobSeeker)
	job := createJob(t, db, recruiter, "Engineer", models.CategoryFrontend)
	ctx := context.Background()

	saved, err := svc.Save(ctx, seeker, job.ID)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.Job == nil || saved.Job.ID != job.ID {
		t.Errorf("Save() job = %+v", saved.Job)
	}

	_, err = svc.Save(ctx, seeker, job.ID)
	assertType(t, err, apperrors.ErrTypeConflict)

	ok, err := svc.Check(ctx, seeker, job.ID)
	if err != nil || !ok {
		t.Errorf("Check() = %v, %v; want true", ok, err)
	}

	list, err := svc.Mine(ctx, seeker)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	if len(list) != 1 || list[0].Job == nil || list[0].Job.Recruiter == nil {
		t.Errorf("Mine() = %+v", list)
	}

	if err := svc.Remove(ctx, seeker, job.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	ok, err = svc.Check(ctx, seeker, job.ID)
	if err != nil || ok {
		t.Errorf("Check() after remove = %v, %v; want false", ok, err)
	}
	assertType(t, svc.Remove(ctx, seeker, job.ID), apperrors.ErrTypeNotFound)

	if _, err := svc.Save(ctx, seeker, job.ID); err != nil {
		t.Errorf("Save() after remove error = %v", err)
	}
}

func TestSaveRejections(t *testing.T) {
	db := dbtest.New(t)
	svc := services.NewSavedJobService(db)
	recruiter := createUser(t, db, "r@example.com", models.RoleRecruiter)
	seeker := createUser(t, db, "s@example.com", models.RoleJobSeeker)
	job := createJob(t, db, recruiter, "Engineer", models.CategoryFrontend)
	ctx := context.Background()

	_, err := svc.Save(ctx, seeker, job.ID+10)
	assertType(t, err, apperrors.ErrTypeNotFound)

	_, err = svc.Save(ctx, recruiter, job.ID)
	assertType(t, err, apperrors.ErrTypeForbidden)
}
