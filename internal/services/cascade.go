package services

import (
	"github.com/justsurfingit/job-portal/internal/models"
	"gorm.io/gorm"
)

// Cascades run inside the caller's transaction and delete children before
// parents so they hold even where the store lacks ON DELETE CASCADE.

func deleteJobsCascade(tx *gorm.DB, jobIDs []uint) error {
	if len(jobIDs) == 0 {
		return nil
	}
	if err := tx.Where("job_id IN ?", jobIDs).Delete(&models.Application{}).Error; err != nil {
		return err
	}
	if err := tx.Where("job_id IN ?", jobIDs).Delete(&models.SavedJob{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", jobIDs).Delete(&models.Job{}).Error
}

// deleteUserCascade removes everything owned by userID and the user row. It
// returns the upload paths the profile referenced so they can be removed
// once the transaction commits.
func deleteUserCascade(tx *gorm.DB, userID uint) ([]string, error) {
	if err := tx.Where("user_id = ?", userID).Delete(&models.Application{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.SavedJob{}).Error; err != nil {
		return nil, err
	}

	var jobIDs []uint
	if err := tx.Model(&models.Job{}).Where("recruiter_id = ?", userID).Pluck("id", &jobIDs).Error; err != nil {
		return nil, err
	}
	if err := deleteJobsCascade(tx, jobIDs); err != nil {
		return nil, err
	}

	var files []string
	var profile models.Profile
	err := tx.Where("user_id = ?", userID).Limit(1).Find(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID != 0 {
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.Experience{}).Error; err != nil {
			return nil, err
		}
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.Education{}).Error; err != nil {
			return nil, err
		}
		if err := tx.Delete(&profile).Error; err != nil {
			return nil, err
		}
		for _, p := range []string{profile.ResumePath, profile.AvatarPath} {
			if p != "" {
				files = append(files, p)
			}
		}
	}

	if err := tx.Delete(&models.User{}, userID).Error; err != nil {
		return nil, err
	}
	return files, nil
}
