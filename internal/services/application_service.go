package services

import (
	"context"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/models"
	"gorm.io/gorm"
)

const (
	applicationNotFoundMessage = "Application not found"
	alreadyAppliedMessage      = "You have already applied for this job"
	invalidStatusMessage       = "Invalid status. Use one of: PENDING, REVIEWED, ACCEPTED, REJECTED"
)

type ApplicationService struct {
	DB *gorm.DB
}

func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{
		DB: db,
	}
}

// Apply records a job seeker's application. The (user, job) unique index is
// the final word on duplicates; the lookup before insert only produces the
// friendlier error in the common case.
func (s *ApplicationService) Apply(ctx context.Context, caller auth.Identity, jobID uint, coverLetter string) (*models.ApplicationView, error) {
	if err := auth.Authorize(caller, "Only job seekers can apply for jobs", auth.Role(models.RoleJobSeeker)); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	var job models.Job
	if err := db.Select("id").First(&job, jobID).Error; err != nil {
		return nil, apperrors.FromStore(err, jobNotFoundMessage, "")
	}

	var existing int64
	if err := db.Model(&models.Application{}).Where("user_id = ? AND job_id = ?", caller.UserID, jobID).Count(&existing).Error; err != nil {
		return nil, apperrors.Internal("failed to check application", err)
	}
	if existing > 0 {
		return nil, apperrors.Conflict(alreadyAppliedMessage)
	}

	app := &models.Application{
		UserID:      caller.UserID,
		JobID:       jobID,
		CoverLetter: sanitizeRichText(coverLetter),
		Status:      models.StatusPending,
	}
	if err := db.Create(app).Error; err != nil {
		return nil, apperrors.FromStore(err, "", alreadyAppliedMessage)
	}

	return s.load(db, app.ID)
}

// Mine lists the caller's applications with job and recruiter details.
func (s *ApplicationService) Mine(ctx context.Context, caller auth.Identity) ([]*models.ApplicationView, error) {
	if err := auth.Authorize(caller, "Only job seekers have applications", auth.Role(models.RoleJobSeeker)); err != nil {
		return nil, err
	}

	var apps []models.Application
	err := s.DB.WithContext(ctx).
		Preload("Job").
		Preload("Job.Recruiter", userSummaryColumns).
		Scopes(newestFirst).
		Where("user_id = ?", caller.UserID).
		Find(&apps).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list applications", err)
	}
	return applicationViews(apps), nil
}

// Get is visible to the applicant and the job's recruiter.
func (s *ApplicationService) Get(ctx context.Context, caller auth.Identity, appID uint) (*models.ApplicationView, error) {
	view, err := s.load(s.DB.WithContext(ctx), appID)
	if err != nil {
		return nil, err
	}

	var recruiterID uint
	if view.Application.Job != nil {
		recruiterID = view.Application.Job.RecruiterID
	}
	err = auth.Authorize(caller, "You do not have access to this application",
		auth.OwnedBy(view.UserID, models.RoleJobSeeker),
		auth.OwnedBy(recruiterID, models.RoleRecruiter),
	)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateStatus lets the recruiter who owns the job move an application to
// any status.
func (s *ApplicationService) UpdateStatus(ctx context.Context, caller auth.Identity, appID uint, rawStatus string) (*models.ApplicationView, error) {
	if err := auth.Authorize(caller, "Only recruiters can update application status", auth.Role(models.RoleRecruiter)); err != nil {
		return nil, err
	}

	status, ok := models.ParseApplicationStatus(rawStatus)
	if !ok {
		return nil, apperrors.BadRequest(invalidStatusMessage)
	}

	db := s.DB.WithContext(ctx)
	var app models.Application
	if err := db.Preload("Job", func(db *gorm.DB) *gorm.DB { return db.Select("id", "recruiter_id") }).First(&app, appID).Error; err != nil {
		return nil, apperrors.FromStore(err, applicationNotFoundMessage, "")
	}

	var recruiterID uint
	if app.Job != nil {
		recruiterID = app.Job.RecruiterID
	}
	if err := auth.Authorize(caller, "You can only update applications for your own jobs", auth.OwnedBy(recruiterID)); err != nil {
		return nil, err
	}

	if err := db.Model(&app).Update("status", status).Error; err != nil {
		return nil, apperrors.Internal("failed to update application", err)
	}
	return s.load(db, app.ID)
}

// Withdraw deletes the caller's own application.
func (s *ApplicationService) Withdraw(ctx context.Context, caller auth.Identity, appID uint) error {
	if err := auth.Authorize(caller, "Only job seekers can withdraw applications", auth.Role(models.RoleJobSeeker)); err != nil {
		return err
	}

	db := s.DB.WithContext(ctx)
	var app models.Application
	if err := db.First(&app, appID).Error; err != nil {
		return apperrors.FromStore(err, applicationNotFoundMessage, "")
	}
	if err := auth.Authorize(caller, "You can only withdraw your own applications", auth.OwnedBy(app.UserID)); err != nil {
		return err
	}

	if err := db.Delete(&app).Error; err != nil {
		return apperrors.Internal("failed to withdraw application", err)
	}
	return nil
}

func (s *ApplicationService) load(db *gorm.DB, appID uint) (*models.ApplicationView, error) {
	var app models.Application
	err := db.Preload("User", userSummaryColumns).
		Preload("Job").
		Preload("Job.Recruiter", userSummaryColumns).
		First(&app, appID).Error
	if err != nil {
		return nil, apperrors.FromStore(err, applicationNotFoundMessage, "")
	}
	return models.NewApplicationView(&app), nil
}

func applicationViews(apps []models.Application) []*models.ApplicationView {
	views := make([]*models.ApplicationView, 0, len(apps))
	for i := range apps {
		views = append(views, models.NewApplicationView(&apps[i]))
	}
	return views
}
