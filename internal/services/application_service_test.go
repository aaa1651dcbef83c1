package services_test

import (
	"context"
	"testing"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/database/dbtest"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/services"
)

func TestApplyDuplicateAndReapply(t *testing.T) {
	db := dbtest.New(t)
	svc := services.NewApplicationService(db)
	recruiter := createUser(t, db, "r@example.com", models.RoleRecruiter)
	seeker := createUser(t, db, "s@example.com", models.RoleJobSeeker)
	job := createJob(t, db, recruiter, "Engineer", models.CategoryBackend)
	ctx := context.Background()

	app, err := svc.Apply(ctx, seeker, job.ID, "Hire me <script>x</script>")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if app.Status != models.StatusPending {
		t.Errorf("Status = %q", app.Status)
	}
	if app.CoverLetter != "Hire me" {
		t.Errorf("CoverLetter = %q", app.CoverLetter)
	}
	if app.Job == nil || app.Job.Recruiter == nil || app.Job.Recruiter.ID != recruiter.UserID {
		t.Errorf("job summary missing: %+v", app.Job)
	}

	_, err = svc.Apply(ctx, seeker, job.ID, "")
	assertType(t, err, apperrors.ErrTypeConflict)

	if err := svc.Withdraw(ctx, seeker, app.ID); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if _, err := svc.Apply(ctx, seeker, job.ID, ""); err != nil {
		t.Fatalf("re-Apply() error = %v", err)
	}
}

func TestApplyUniqueIndexIsAuthoritative(t *testing.T) {
	db := dbtest.New(t)
	recruiter := createUser(t, db, "r@example.com", models.RoleRecruiter)
	seeker := createUser(t, db, "s@example.com", models.RoleJobSeeker)
	job := createJob(t, db, recruiter, "Engineer", models.CategoryBackend)

	if err := db.Create(&models.Application{UserID: seeker.UserID, JobID: job.ID}).Error; err != nil {
		t.Fatal(err)
	}
	err := db.Create(&models.Application{UserID: seeker.UserID, JobID: job.ID}).Error
	if !apperrors.IsUniqueViolation(err) {
		t.Fatalf("second insert error = %v, want unique violation", err)
	}
	assertType(t, apperrors.FromStore(err, "", "dup"), apperrors.ErrTypeConflict)
}

func TestApplyRejections(t *testing.T) {
	db := dbtest.New(t)
	svc := services.NewApplicationService(db)
	recruiter := createUser(t, db, "r@example.com", models.RoleRecruiter)
	seeker := createUser(t, db, "s@example.com", models.RoleJobSeeker)
	job := createJob(t, db, recruiter, "Engineer", models.CategoryBackend)
	ctx := context.Background()

	_, err := svc.Apply(ctx, recruiter, job.ID, "")
	assertType(t, err, apperrors.ErrTypeForbidden)

	_, err = svc.Apply(ctx, seeker, job.ID+99, "")
	assertType(t, err, apperrors.ErrTypeNotFound)
}

func TestApplicationVisibilityAndStatus(t *testing.T) {
	db := dbtest.New(t)
	svc := services.NewApplicationService(db)
	owner := createUser(t, db, "owner@example.com", models.RoleRecruiter)
	other := createUser(t, db, "other@example.com", models.RoleRecruiter)
	seeker := createUser(t, db, "s@example.com", models.RoleJobSeeker)
	stranger := createUser(t, db, "x@example.com", models.RoleJobSeeker)
	job := createJob(t, db, owner, "Engineer", models.CategoryBackend)
	ctx := context.Background()

	app, err := svc.Apply(ctx, seeker, job.ID, "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(ctx, seeker, app.ID); err != nil {
		t.Errorf("applicant Get() error = %v", err)
	}
	if _, err := svc.Get(ctx, owner, app.ID); err != nil {
		t.Errorf("owner Get() error = %v", err)
	}
	_, err = svc.Get(ctx, stranger, app.ID)
	assertType(t, err, apperrors.ErrTypeForbidden)
	_, err = svc.Get(ctx, other, app.ID)
	assertType(t, err, apperrors.ErrTypeForbidden)
	_, err = svc.Get(ctx, seeker, app.ID+50)
	assertType(t, err, apperrors.ErrTypeNotFound)

	_, err = svc.UpdateStatus(ctx, owner, app.ID, "hired")
	assertType(t, err, apperrors.ErrTypeBadRequest)
	_, err = svc.UpdateStatus(ctx, other, app.ID, "ACCEPTED")
	assertType(t, err, apperrors.ErrTypeForbidden)
	_, err = svc.UpdateStatus(ctx, owner, app.ID+50, "ACCEPTED")
	assertType(t, err, apperrors.ErrTypeNotFound)
	_, err = svc.UpdateStatus(ctx, seeker, app.ID, "ACCEPTED")
	assertType(t, err, apperrors.ErrTypeForbidden)

	updated, err := svc.UpdateStatus(ctx, owner, app.ID, " reviewed ")
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != models.StatusReviewed {
		t.Errorf("Status = %q", updated.Status)
	}
}

func TestWithdrawOwnership(t *testing.T) {
	db := dbtest.New(t)
	svc := services.NewApplicationService(db)
	recruiter := createUser(t, db, "r@example.com", models.RoleRecruiter)
	seeker := createUser(t, db, "s@example.com", models.RoleJobSeeker)
	stranger := createUser(t, db, "x@example.com", models.RoleJobSeeker)
	job := createJob(t, db, recruiter, "Engineer", models.CategoryBackend)
	ctx := context.Background()

	app, err := svc.Apply(ctx, seeker, job.ID, "")
	if err != nil {
		t.Fatal(err)
	}

	assertType(t, svc.Withdraw(ctx, stranger, app.ID), apperrors.ErrTypeForbidden)
	assertType(t, svc.Withdraw(ctx, seeker, app.ID+1), apperrors.ErrTypeNotFound)

	mine, err := svc.Mine(ctx, seeker)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	if len(mine) != 1 || mine[0].ID != app.ID {
		t.Errorf("Mine() = %+v", mine)
	}

	if err := svc.Withdraw(ctx, seeker, app.ID); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if n := count(t, db, &models.Application{}, "id = ?", app.ID); n != 0 {
		t.Errorf("application still present")
	}
}

func TestApplyKeepsCoverLetterText(t *testing.T) {
	db := dbtest.New(t)
	svc := services.NewApplicationService(db)
	recruiter := createUser(t, db, "r@example.com", models.RoleRecruiter)
	seeker := createUser(t, db, "s@example.com", models.RoleJobSeeker)
	job := createJob(t, db, recruiter, "Engineer", models.CategoryBackend)
	ctx := context.Background()

	const letter = `I'm keen & ready, "A > B"`
	app, err := svc.Apply(ctx, seeker, job.ID, letter+"<script>x()</script>")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	got, err := svc.Get(ctx, seeker, app.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CoverLetter != letter {
		t.Errorf("CoverLetter = %q, want %q", got.CoverLetter, letter)
	}
}
