package services

import (
	"context"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/models"
	"gorm.io/gorm"
)

const alreadySavedMessage = "Job already saved"

type SavedJobService struct {
	DB *gorm.DB
}

func NewSavedJobService(db *gorm.DB) *SavedJobService {
	return &SavedJobService{
		DB: db,
	}
}

func (s *SavedJobService) Save(ctx context.Context, caller auth.Identity, jobID uint) (*models.SavedJobView, error) {
	if err := auth.Authorize(caller, "Only job seekers can save jobs", auth.Role(models.RoleJobSeeker)); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	var job models.Job
	if err := db.Select("id").First(&job, jobID).Error; err != nil {
		return nil, apperrors.FromStore(err, jobNotFoundMessage, "")
	}

	saved, err := s.lookup(db, caller.UserID, jobID)
	if err != nil {
		return nil, err
	}
	if saved != nil {
		return nil, apperrors.Conflict(alreadySavedMessage)
	}

	row := &models.SavedJob{UserID: caller.UserID, JobID: jobID}
	if err := db.Create(row).Error; err != nil {
		return nil, apperrors.FromStore(err, "", alreadySavedMessage)
	}

	if err := db.Preload("Job").Preload("Job.Recruiter", userSummaryColumns).First(row, row.ID).Error; err != nil {
		return nil, apperrors.Internal("failed to load saved job", err)
	}
	return models.NewSavedJobView(row), nil
}

func (s *SavedJobService) Mine(ctx context.Context, caller auth.Identity) ([]*models.SavedJobView, error) {
	if err := auth.Authorize(caller, "Only job seekers have saved jobs", auth.Role(models.RoleJobSeeker)); err != nil {
		return nil, err
	}

	var rows []models.SavedJob
	err := s.DB.WithContext(ctx).
		Preload("Job").
		Preload("Job.Recruiter", userSummaryColumns).
		Scopes(newestFirst).
		Where("user_id = ?", caller.UserID).
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list saved jobs", err)
	}

	views := make([]*models.SavedJobView, 0, len(rows))
	for i := range rows {
		views = append(views, models.NewSavedJobView(&rows[i]))
	}
	return views, nil
}

// Remove deletes the caller's bookmark for jobID.
func (s *SavedJobService) Remove(ctx context.Context, caller auth.Identity, jobID uint) error {
	if err := auth.Authorize(caller, "Only job seekers can unsave jobs", auth.Role(models.RoleJobSeeker)); err != nil {
		return err
	}

	result := s.DB.WithContext(ctx).
		Where("user_id = ? AND job_id = ?", caller.UserID, jobID).
		Delete(&models.SavedJob{})
	if result.Error != nil {
		return apperrors.Internal("failed to remove saved job", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Saved job not found")
	}
	return nil
}

// Check reports whether the caller has bookmarked jobID.
func (s *SavedJobService) Check(ctx context.Context, caller auth.Identity, jobID uint) (bool, error) {
	if err := auth.Authorize(caller, "Only job seekers have saved jobs", auth.Role(models.RoleJobSeeker)); err != nil {
		return false, err
	}

	saved, err := s.lookup(s.DB.WithContext(ctx), caller.UserID, jobID)
	if err != nil {
		return false, err
	}
	return saved != nil, nil
}

func (s *SavedJobService) lookup(db *gorm.DB, userID, jobID uint) (*models.SavedJob, error) {
	var rows []models.SavedJob
	if err := db.Where("user_id = ? AND job_id = ?", userID, jobID).Limit(1).Find(&rows).Error; err != nil {
		return nil, apperrors.Internal("failed to look up saved job", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
