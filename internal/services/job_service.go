package services

import (
	"context"
	"strings"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
	"gorm.io/gorm"
)

const (
	invalidCategoryMessage = "Invalid role. Use one of: frontend, backend, fullstack"
	invalidJobTypeMessage  = "Invalid job type. Use one of: FULL_TIME, PART_TIME, CONTRACT, INTERNSHIP"
	jobNotFoundMessage     = "Job not found"
)

type JobService struct {
	DB *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{
		DB: db,
	}
}

// List returns every job newest first, filtered by category when one is
// given. A non-empty value that is only whitespace is invalid, not absent.
func (s *JobService) List(ctx context.Context, rawCategory string) ([]*models.JobView, error) {
	query := s.DB.WithContext(ctx).Scopes(withRecruiter, newestFirst)

	if rawCategory != "" {
		category, ok := models.NormalizeCategory(rawCategory)
		if !ok {
			return nil, apperrors.BadRequest(invalidCategoryMessage)
		}
		query = query.Where("category = ?", category)
	}

	var jobs []models.Job
	if err := query.Find(&jobs).Error; err != nil {
		return nil, apperrors.Internal("failed to list jobs", err)
	}
	return jobViews(jobs), nil
}

// ListMine returns the caller's postings with their application counts.
func (s *JobService) ListMine(ctx context.Context, caller auth.Identity) ([]*models.JobView, error) {
	if err := auth.Authorize(caller, "Only recruiters have job postings", auth.Role(models.RoleRecruiter)); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	var jobs []models.Job
	if err := db.Scopes(withRecruiter, newestFirst).Where("recruiter_id = ?", caller.UserID).Find(&jobs).Error; err != nil {
		return nil, apperrors.Internal("failed to list jobs", err)
	}

	views := jobViews(jobs)
	if err := attachApplicationCounts(db, views); err != nil {
		return nil, apperrors.Internal("failed to count applications", err)
	}
	return views, nil
}

func (s *JobService) Get(ctx context.Context, jobID uint) (*models.JobView, error) {
	job, err := s.find(s.DB.WithContext(ctx).Scopes(withRecruiter), jobID)
	if err != nil {
		return nil, err
	}
	return models.NewJobView(job), nil
}

func (s *JobService) Create(ctx context.Context, caller auth.Identity, req *dtos.JobRequest) (*models.JobView, error) {
	if err := auth.Authorize(caller, "Only recruiters can post jobs", auth.Role(models.RoleRecruiter)); err != nil {
		return nil, err
	}

	for _, field := range []*string{req.Title, req.Company, req.Location, req.Salary, req.Description} {
		if value(field) == "" {
			return nil, apperrors.BadRequest("Title, company, location, salary and description are required")
		}
	}

	category := models.CategoryFullstack
	if raw := req.RawCategory(); raw != nil && *raw != "" {
		normalized, ok := models.NormalizeCategory(*raw)
		if !ok {
			return nil, apperrors.BadRequest(invalidCategoryMessage)
		}
		category = normalized
	}

	jobType := models.JobTypeFullTime
	if req.Type != nil && !blank(req.Type) {
		parsed, ok := models.ParseJobType(*req.Type)
		if !ok {
			return nil, apperrors.BadRequest(invalidJobTypeMessage)
		}
		jobType = parsed
	}

	job := &models.Job{
		RecruiterID:  caller.UserID,
		Title:        value(req.Title),
		Company:      value(req.Company),
		Location:     value(req.Location),
		Category:     category,
		Type:         jobType,
		Salary:       value(req.Salary),
		Description:  sanitizeRichText(value(req.Description)),
		Requirements: sanitizeRichText(value(req.Requirements)),
	}
	if err := s.DB.WithContext(ctx).Create(job).Error; err != nil {
		return nil, apperrors.Internal("failed to create job", err)
	}

	return s.Get(ctx, job.ID)
}

// Update applies the fields present in req. Category is normalized before it
// reaches the store.
func (s *JobService) Update(ctx context.Context, caller auth.Identity, jobID uint, req *dtos.JobRequest) (*models.JobView, error) {
	if err := auth.Authorize(caller, "Only recruiters can edit jobs", auth.Role(models.RoleRecruiter)); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	job, err := s.find(db, jobID)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(caller, "You can only edit your own jobs", auth.OwnedBy(job.RecruiterID, models.RoleRecruiter)); err != nil {
		return nil, err
	}

	updates, err := jobUpdates(req)
	if err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := db.Model(job).Updates(updates).Error; err != nil {
			return nil, apperrors.Internal("failed to update job", err)
		}
	}

	return s.Get(ctx, jobID)
}

// Delete removes a job with its applications and bookmarks. Recruiters may
// delete their own postings, admins any.
func (s *JobService) Delete(ctx context.Context, caller auth.Identity, jobID uint) error {
	db := s.DB.WithContext(ctx)
	job, err := s.find(db, jobID)
	if err != nil {
		return err
	}

	err = auth.Authorize(caller, "You can only delete your own jobs",
		auth.OwnedBy(job.RecruiterID, models.RoleRecruiter),
		auth.Role(models.RoleAdmin),
	)
	if err != nil {
		return err
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return deleteJobsCascade(tx, []uint{job.ID})
	}); err != nil {
		return apperrors.Internal("failed to delete job", err)
	}
	return nil
}

// Applicants lists applications to a job the caller owns.
func (s *JobService) Applicants(ctx context.Context, caller auth.Identity, jobID uint) ([]*models.ApplicationView, error) {
	if err := auth.Authorize(caller, "Only recruiters can view applicants", auth.Role(models.RoleRecruiter)); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	job, err := s.find(db, jobID)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(caller, "You can only view applicants for your own jobs", auth.OwnedBy(job.RecruiterID)); err != nil {
		return nil, err
	}

	var apps []models.Application
	err = db.Preload("User", userSummaryColumns).
		Scopes(newestFirst).
		Where("job_id = ?", jobID).
		Find(&apps).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list applicants", err)
	}
	return applicationViews(apps), nil
}

func (s *JobService) find(db *gorm.DB, jobID uint) (*models.Job, error) {
	var job models.Job
	if err := db.First(&job, jobID).Error; err != nil {
		return nil, apperrors.FromStore(err, jobNotFoundMessage, "")
	}
	return &job, nil
}

func jobUpdates(req *dtos.JobRequest) (map[string]any, error) {
	updates := map[string]any{}

	required := []struct {
		column string
		field  *string
	}{
		{"title", req.Title},
		{"company", req.Company},
		{"location", req.Location},
		{"salary", req.Salary},
		{"description", req.Description},
	}
	for _, r := range required {
		if r.field == nil {
			continue
		}
		if blank(r.field) {
			return nil, apperrors.BadRequest(strings.ToUpper(r.column[:1]) + r.column[1:] + " cannot be empty")
		}
		updates[r.column] = value(r.field)
	}
	if req.Description != nil {
		updates["description"] = sanitizeRichText(value(req.Description))
	}
	if req.Requirements != nil {
		updates["requirements"] = sanitizeRichText(value(req.Requirements))
	}

	if raw := req.RawCategory(); raw != nil {
		category, ok := models.NormalizeCategory(*raw)
		if !ok {
			return nil, apperrors.BadRequest(invalidCategoryMessage)
		}
		updates["category"] = category
	}

	if req.Type != nil {
		jobType, ok := models.ParseJobType(*req.Type)
		if !ok {
			return nil, apperrors.BadRequest(invalidJobTypeMessage)
		}
		updates["type"] = jobType
	}

	return updates, nil
}

func jobViews(jobs []models.Job) []*models.JobView {
	views := make([]*models.JobView, 0, len(jobs))
	for i := range jobs {
		views = append(views, models.NewJobView(&jobs[i]))
	}
	return views
}

func attachApplicationCounts(db *gorm.DB, views []*models.JobView) error {
	if len(views) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}

	var rows []struct {
		JobID uint
		Count int64
	}
	err := db.Model(&models.Application{}).
		Select("job_id, COUNT(*) AS count").
		Where("job_id IN ?", ids).
		Group("job_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.JobID] = r.Count
	}
	for _, v := range views {
		n := counts[v.ID]
		v.ApplicationCount = &n
	}
	return nil
}
