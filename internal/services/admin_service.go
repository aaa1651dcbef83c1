package services

import (
	"context"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/storage"
	"gorm.io/gorm"
)

const userNotFoundMessage = "User not found"

type Stats struct {
	TotalUsers           int64                              `json:"total_users"`
	TotalJobs            int64                              `json:"total_jobs"`
	TotalApplications    int64                              `json:"total_applications"`
	TotalSavedJobs       int64                              `json:"total_saved_jobs"`
	UsersByRole          map[models.Role]int64              `json:"users_by_role"`
	ApplicationsByStatus map[models.ApplicationStatus]int64 `json:"applications_by_status"`
}

type AdminService struct {
	DB    *gorm.DB
	Files *storage.FileStore
}

func NewAdminService(db *gorm.DB, files *storage.FileStore) *AdminService {
	return &AdminService{
		DB:    db,
		Files: files,
	}
}

func (s *AdminService) Stats(ctx context.Context, caller auth.Identity) (*Stats, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	stats := &Stats{
		UsersByRole:          make(map[models.Role]int64, len(models.Roles)),
		ApplicationsByStatus: make(map[models.ApplicationStatus]int64, len(models.ApplicationStatuses)),
	}
	for _, r := range models.Roles {
		stats.UsersByRole[r] = 0
	}
	for _, st := range models.ApplicationStatuses {
		stats.ApplicationsByStatus[st] = 0
	}

	counts := []struct {
		model any
		dest  *int64
	}{
		{&models.User{}, &stats.TotalUsers},
		{&models.Job{}, &stats.TotalJobs},
		{&models.Application{}, &stats.TotalApplications},
		{&models.SavedJob{}, &stats.TotalSavedJobs},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, apperrors.Internal("failed to count rows", err)
		}
	}

	var roleRows []struct {
		Role  models.Role
		Count int64
	}
	if err := db.Model(&models.User{}).Select("role, COUNT(*) AS count").Group("role").Scan(&roleRows).Error; err != nil {
		return nil, apperrors.Internal("failed to count users by role", err)
	}
	for _, r := range roleRows {
		stats.UsersByRole[r.Role] = r.Count
	}

	var statusRows []struct {
		Status models.ApplicationStatus
		Count  int64
	}
	if err := db.Model(&models.Application{}).Select("status, COUNT(*) AS count").Group("status").Scan(&statusRows).Error; err != nil {
		return nil, apperrors.Internal("failed to count applications by status", err)
	}
	for _, r := range statusRows {
		stats.ApplicationsByStatus[r.Status] = r.Count
	}

	return stats, nil
}

func (s *AdminService) Users(ctx context.Context, caller auth.Identity) ([]*models.UserView, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	var users []models.User
	if err := db.Scopes(newestFirst).Find(&users).Error; err != nil {
		return nil, apperrors.Internal("failed to list users", err)
	}

	jobCounts, err := countBy(db, &models.Job{}, "recruiter_id")
	if err != nil {
		return nil, apperrors.Internal("failed to count jobs", err)
	}
	appCounts, err := countBy(db, &models.Application{}, "user_id")
	if err != nil {
		return nil, apperrors.Internal("failed to count applications", err)
	}

	views := make([]*models.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, &models.UserView{
			User:             u,
			JobCount:         jobCounts[u.ID],
			ApplicationCount: appCounts[u.ID],
		})
	}
	return views, nil
}

func (s *AdminService) Jobs(ctx context.Context, caller auth.Identity) ([]*models.JobView, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	var jobs []models.Job
	if err := db.Scopes(withRecruiter, newestFirst).Find(&jobs).Error; err != nil {
		return nil, apperrors.Internal("failed to list jobs", err)
	}

	views := jobViews(jobs)
	if err := attachApplicationCounts(db, views); err != nil {
		return nil, apperrors.Internal("failed to count applications", err)
	}
	return views, nil
}

func (s *AdminService) Applications(ctx context.Context, caller auth.Identity) ([]*models.ApplicationView, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	var apps []models.Application
	err := s.DB.WithContext(ctx).
		Preload("User", userSummaryColumns).
		Preload("Job").
		Preload("Job.Recruiter", userSummaryColumns).
		Scopes(newestFirst).
		Find(&apps).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list applications", err)
	}
	return applicationViews(apps), nil
}

func (s *AdminService) UpdateUserRole(ctx context.Context, caller auth.Identity, userID uint, rawRole string) (*models.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	role, ok := models.ParseRole(rawRole)
	if !ok {
		return nil, apperrors.BadRequest("Invalid role. Use one of: JOB_SEEKER, RECRUITER, ADMIN")
	}

	db := s.DB.WithContext(ctx)
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, apperrors.FromStore(err, userNotFoundMessage, "")
	}
	if err := db.Model(&user).Update("role", role).Error; err != nil {
		return nil, apperrors.Internal("failed to update role", err)
	}
	user.Role = role
	return &user, nil
}

// DeleteUser removes the user and everything they own in one transaction.
// Their upload files are removed only after the commit.
func (s *AdminService) DeleteUser(ctx context.Context, caller auth.Identity, userID uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if userID == caller.UserID {
		return apperrors.BadRequest("You cannot delete your own account")
	}

	db := s.DB.WithContext(ctx)
	var user models.User
	if err := db.Select("id").First(&user, userID).Error; err != nil {
		return apperrors.FromStore(err, userNotFoundMessage, "")
	}

	var files []string
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		files, err = deleteUserCascade(tx, user.ID)
		return err
	})
	if err != nil {
		return apperrors.Internal("failed to delete user", err)
	}

	for _, f := range files {
		s.Files.RemoveQuietly(f)
	}
	return nil
}

func (s *AdminService) DeleteJob(ctx context.Context, caller auth.Identity, jobID uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	db := s.DB.WithContext(ctx)
	var job models.Job
	if err := db.Select("id").First(&job, jobID).Error; err != nil {
		return apperrors.FromStore(err, jobNotFoundMessage, "")
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return deleteJobsCascade(tx, []uint{job.ID})
	}); err != nil {
		return apperrors.Internal("failed to delete job", err)
	}
	return nil
}

func requireAdmin(caller auth.Identity) error {
	return auth.Authorize(caller, "Admin access required", auth.Role(models.RoleAdmin))
}

func countBy(db *gorm.DB, model any, column string) (map[uint]int64, error) {
	var rows []struct {
		OwnerID uint
		Count   int64
	}
	err := db.Model(model).
		Select(column + " AS owner_id, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.OwnerID] = r.Count
	}
	return counts, nil
}
