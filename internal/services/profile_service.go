package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/storage"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	profileNotFoundMessage    = "Profile not found"
	experienceNotFoundMessage = "Experience not found"
	educationNotFoundMessage  = "Education not found"
	skillsNotArrayMessage     = "Skills must be an array"
)

var dateLayouts = []string{"2006-01-02", "2006-01", time.RFC3339}

type ProfileService struct {
	DB    *gorm.DB
	Files *storage.FileStore
}

func NewProfileService(db *gorm.DB, files *storage.FileStore) *ProfileService {
	return &ProfileService{
		DB:    db,
		Files: files,
	}
}

// GetOrCreate returns the caller's profile, creating an empty one named after
// the user on first access.
func (s *ProfileService) GetOrCreate(ctx context.Context, caller auth.Identity) (*models.Profile, error) {
	db := s.DB.WithContext(ctx)
	profile, err := s.ensure(db, caller.UserID)
	if err != nil {
		return nil, err
	}
	return s.load(db, profile.UserID)
}

// GetByUser is the public lookup. It never creates a profile.
func (s *ProfileService) GetByUser(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.load(s.DB.WithContext(ctx), userID)
}

func (s *ProfileService) UpdateBasic(ctx context.Context, caller auth.Identity, req *dtos.BasicProfileRequest) (*models.Profile, error) {
	updates := map[string]any{}
	if req.Name != nil {
		if blank(req.Name) {
			return nil, apperrors.BadRequest("Name cannot be empty")
		}
		updates["name"] = value(req.Name)
	}
	if req.Headline != nil {
		updates["headline"] = value(req.Headline)
	}
	if req.Location != nil {
		updates["location"] = value(req.Location)
	}
	if req.Phone != nil {
		updates["phone"] = value(req.Phone)
	}
	return s.update(ctx, caller.UserID, updates)
}

func (s *ProfileService) UpdateAbout(ctx context.Context, caller auth.Identity, about string) (*models.Profile, error) {
	return s.update(ctx, caller.UserID, map[string]any{"about": sanitizeRichText(about)})
}

// UpdateSkills replaces the skill list. raw must be a JSON array of strings.
func (s *ProfileService) UpdateSkills(ctx context.Context, caller auth.Identity, raw json.RawMessage) (*models.Profile, error) {
	skills, err := parseSkills(raw)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, caller.UserID, map[string]any{"skills": skills})
}

func (s *ProfileService) AddExperience(ctx context.Context, caller auth.Identity, req *dtos.ExperienceRequest) (*models.Experience, error) {
	if value(req.Title) == "" || value(req.Company) == "" || value(req.StartDate) == "" {
		return nil, apperrors.BadRequest("Title, company and start date are required")
	}

	exp := &models.Experience{}
	if err := applyExperience(exp, req); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	profile, err := s.ensure(db, caller.UserID)
	if err != nil {
		return nil, err
	}
	exp.ProfileID = profile.ID

	if err := db.Create(exp).Error; err != nil {
		return nil, apperrors.Internal("failed to add experience", err)
	}
	return exp, nil
}

func (s *ProfileService) UpdateExperience(ctx context.Context, caller auth.Identity, expID uint, req *dtos.ExperienceRequest) (*models.Experience, error) {
	db := s.DB.WithContext(ctx)

	var exp models.Experience
	if err := db.Preload("Profile", profileOwnerColumns).First(&exp, expID).Error; err != nil {
		return nil, apperrors.FromStore(err, experienceNotFoundMessage, "")
	}
	if err := authorizeProfileChild(caller, exp.Profile, "You can only edit your own experience"); err != nil {
		return nil, err
	}

	for field, v := range map[string]*string{"Title": req.Title, "Company": req.Company, "Start date": req.StartDate} {
		if blank(v) {
			return nil, apperrors.BadRequest(field + " cannot be empty")
		}
	}
	if err := applyExperience(&exp, req); err != nil {
		return nil, err
	}

	exp.Profile = nil
	err := db.Model(&exp).
		Select("title", "company", "location", "start_date", "end_date", "current", "description").
		Updates(&exp).Error
	if err != nil {
		return nil, apperrors.Internal("failed to update experience", err)
	}
	return &exp, nil
}

func (s *ProfileService) DeleteExperience(ctx context.Context, caller auth.Identity, expID uint) error {
	db := s.DB.WithContext(ctx)

	var exp models.Experience
	if err := db.Preload("Profile", profileOwnerColumns).First(&exp, expID).Error; err != nil {
		return apperrors.FromStore(err, experienceNotFoundMessage, "")
	}
	if err := authorizeProfileChild(caller, exp.Profile, "You can only delete your own experience"); err != nil {
		return err
	}

	if err := db.Delete(&models.Experience{}, exp.ID).Error; err != nil {
		return apperrors.Internal("failed to delete experience", err)
	}
	return nil
}

func (s *ProfileService) AddEducation(ctx context.Context, caller auth.Identity, req *dtos.EducationRequest) (*models.Education, error) {
	if value(req.Institution) == "" || value(req.Degree) == "" || value(req.FieldOfStudy) == "" || req.StartYear == nil {
		return nil, apperrors.BadRequest("Institution, degree, field of study and start year are required")
	}

	edu := &models.Education{}
	if err := applyEducation(edu, req); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	profile, err := s.ensure(db, caller.UserID)
	if err != nil {
		return nil, err
	}
	edu.ProfileID = profile.ID

	if err := db.Create(edu).Error; err != nil {
		return nil, apperrors.Internal("failed to add education", err)
	}
	return edu, nil
}

func (s *ProfileService) UpdateEducation(ctx context.Context, caller auth.Identity, eduID uint, req *dtos.EducationRequest) (*models.Education, error) {
	db := s.DB.WithContext(ctx)

	var edu models.Education
	if err := db.Preload("Profile", profileOwnerColumns).First(&edu, eduID).Error; err != nil {
		return nil, apperrors.FromStore(err, educationNotFoundMessage, "")
	}
	if err := authorizeProfileChild(caller, edu.Profile, "You can only edit your own education"); err != nil {
		return nil, err
	}

	for field, v := range map[string]*string{"Institution": req.Institution, "Degree": req.Degree, "Field of study": req.FieldOfStudy} {
		if blank(v) {
			return nil, apperrors.BadRequest(field + " cannot be empty")
		}
	}
	if err := applyEducation(&edu, req); err != nil {
		return nil, err
	}

	edu.Profile = nil
	err := db.Model(&edu).
		Select("institution", "degree", "field_of_study", "start_year", "end_year", "grade").
		Updates(&edu).Error
	if err != nil {
		return nil, apperrors.Internal("failed to update education", err)
	}
	return &edu, nil
}

func (s *ProfileService) DeleteEducation(ctx context.Context, caller auth.Identity, eduID uint) error {
	db := s.DB.WithContext(ctx)

	var edu models.Education
	if err := db.Preload("Profile", profileOwnerColumns).First(&edu, eduID).Error; err != nil {
		return apperrors.FromStore(err, educationNotFoundMessage, "")
	}
	if err := authorizeProfileChild(caller, edu.Profile, "You can only delete your own education"); err != nil {
		return err
	}

	if err := db.Delete(&models.Education{}, edu.ID).Error; err != nil {
		return apperrors.Internal("failed to delete education", err)
	}
	return nil
}

// UploadResume stores the file, records it, and only then removes the file it
// replaced.
func (s *ProfileService) UploadResume(ctx context.Context, caller auth.Identity, header *multipart.FileHeader) (*models.Profile, error) {
	return s.upload(ctx, caller.UserID, storage.Resume, header, func(p *models.Profile, stored *storage.StoredFile) (string, map[string]any) {
		return p.ResumePath, map[string]any{
			"resume_path":        stored.Path,
			"resume_name":        stored.OriginalName,
			"resume_uploaded_at": time.Now(),
		}
	})
}

func (s *ProfileService) UploadAvatar(ctx context.Context, caller auth.Identity, header *multipart.FileHeader) (*models.Profile, error) {
	return s.upload(ctx, caller.UserID, storage.Avatar, header, func(p *models.Profile, stored *storage.StoredFile) (string, map[string]any) {
		return p.AvatarPath, map[string]any{"avatar_path": stored.Path}
	})
}

func (s *ProfileService) DeleteResume(ctx context.Context, caller auth.Identity) (*models.Profile, error) {
	return s.removeFile(ctx, caller.UserID, "No resume uploaded", func(p *models.Profile) (string, map[string]any) {
		return p.ResumePath, map[string]any{
			"resume_path":        "",
			"resume_name":        "",
			"resume_uploaded_at": nil,
		}
	})
}

func (s *ProfileService) DeleteAvatar(ctx context.Context, caller auth.Identity) (*models.Profile, error) {
	return s.removeFile(ctx, caller.UserID, "No avatar uploaded", func(p *models.Profile) (string, map[string]any) {
		return p.AvatarPath, map[string]any{"avatar_path": ""}
	})
}

type fileUpdate func(*models.Profile, *storage.StoredFile) (previous string, updates map[string]any)

func (s *ProfileService) upload(ctx context.Context, userID uint, kind storage.Kind, header *multipart.FileHeader, apply fileUpdate) (*models.Profile, error) {
	db := s.DB.WithContext(ctx)
	profile, err := s.ensure(db, userID)
	if err != nil {
		return nil, err
	}

	stored, err := s.Files.Save(kind, userID, header)
	if err != nil {
		return nil, uploadError(kind, err)
	}

	previous, updates := apply(profile, stored)
	if err := db.Model(profile).Updates(updates).Error; err != nil {
		s.Files.RemoveQuietly(stored.Path)
		return nil, apperrors.Internal("failed to record upload", err)
	}
	if previous != "" && previous != stored.Path {
		s.Files.RemoveQuietly(previous)
	}

	return s.load(db, userID)
}

func (s *ProfileService) removeFile(ctx context.Context, userID uint, missing string, clear func(*models.Profile) (string, map[string]any)) (*models.Profile, error) {
	db := s.DB.WithContext(ctx)
	profile, err := s.ensure(db, userID)
	if err != nil {
		return nil, err
	}

	previous, updates := clear(profile)
	if previous == "" {
		return nil, apperrors.NotFound(missing)
	}
	if err := db.Model(profile).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal("failed to clear upload", err)
	}
	s.Files.RemoveQuietly(previous)

	return s.load(db, userID)
}

func (s *ProfileService) update(ctx context.Context, userID uint, updates map[string]any) (*models.Profile, error) {
	db := s.DB.WithContext(ctx)
	profile, err := s.ensure(db, userID)
	if err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := db.Model(profile).Updates(updates).Error; err != nil {
			return nil, apperrors.Internal("failed to update profile", err)
		}
	}
	return s.load(db, userID)
}

// ensure returns the user's profile row, creating it when absent. A
// concurrent creator losing the unique user_id race re-reads the winner's row.
func (s *ProfileService) ensure(db *gorm.DB, userID uint) (*models.Profile, error) {
	var user models.User
	if err := db.Select("id", "name").First(&user, userID).Error; err != nil {
		return nil, apperrors.FromStore(err, "User not found", "")
	}

	var profile models.Profile
	err := db.Where(models.Profile{UserID: userID}).
		Attrs(models.Profile{Name: user.Name, Skills: datatypes.JSONSlice[string]{}}).
		FirstOrCreate(&profile).Error
	if apperrors.IsUniqueViolation(err) {
		err = db.Where("user_id = ?", userID).First(&profile).Error
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load profile", err)
	}
	return &profile, nil
}

func (s *ProfileService) load(db *gorm.DB, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := db.
		Preload("Experiences", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_date DESC").Order("id DESC")
		}).
		Preload("Educations", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_year DESC").Order("id DESC")
		}).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, apperrors.FromStore(err, profileNotFoundMessage, "")
	}

	if profile.Skills == nil {
		profile.Skills = datatypes.JSONSlice[string]{}
	}
	if profile.Experiences == nil {
		profile.Experiences = []models.Experience{}
	}
	if profile.Educations == nil {
		profile.Educations = []models.Education{}
	}
	return &profile, nil
}

func profileOwnerColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "user_id")
}

func authorizeProfileChild(caller auth.Identity, profile *models.Profile, message string) error {
	var owner uint
	if profile != nil {
		owner = profile.UserID
	}
	return auth.Authorize(caller, message, auth.OwnedBy(owner))
}

func applyExperience(exp *models.Experience, req *dtos.ExperienceRequest) error {
	if req.Title != nil {
		exp.Title = value(req.Title)
	}
	if req.Company != nil {
		exp.Company = value(req.Company)
	}
	if req.Location != nil {
		exp.Location = value(req.Location)
	}
	if req.Description != nil {
		exp.Description = sanitizeRichText(value(req.Description))
	}
	if req.StartDate != nil {
		start, err := parseDate(value(req.StartDate))
		if err != nil {
			return apperrors.BadRequest("Invalid start date. Use YYYY-MM-DD")
		}
		exp.StartDate = start
	}
	if req.EndDate != nil {
		if value(req.EndDate) == "" {
			exp.EndDate = nil
		} else {
			end, err := parseDate(value(req.EndDate))
			if err != nil {
				return apperrors.BadRequest("Invalid end date. Use YYYY-MM-DD")
			}
			exp.EndDate = &end
		}
	}
	if req.Current != nil {
		exp.Current = *req.Current
	}

	if exp.Current {
		exp.EndDate = nil
	}
	if exp.EndDate != nil && exp.EndDate.Before(exp.StartDate) {
		return apperrors.BadRequest("End date cannot be before start date")
	}
	return nil
}

func applyEducation(edu *models.Education, req *dtos.EducationRequest) error {
	if req.Institution != nil {
		edu.Institution = value(req.Institution)
	}
	if req.Degree != nil {
		edu.Degree = value(req.Degree)
	}
	if req.FieldOfStudy != nil {
		edu.FieldOfStudy = value(req.FieldOfStudy)
	}
	if req.Grade != nil {
		edu.Grade = value(req.Grade)
	}
	if req.StartYear != nil {
		if *req.StartYear <= 0 {
			return apperrors.BadRequest("Start year must be a positive year")
		}
		edu.StartYear = *req.StartYear
	}
	if req.EndYear != nil {
		end := *req.EndYear
		edu.EndYear = &end
	}

	if edu.EndYear != nil && *edu.EndYear < edu.StartYear {
		return apperrors.BadRequest("End year cannot be before start year")
	}
	return nil
}

func parseDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseSkills(raw json.RawMessage) (datatypes.JSONSlice[string], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, apperrors.BadRequest(skillsNotArrayMessage)
	}

	var items []any
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, apperrors.BadRequest(skillsNotArrayMessage)
	}

	skills := datatypes.JSONSlice[string]{}
	for _, item := range items {
		str, ok := item.(string)
		if !ok {
			return nil, apperrors.BadRequest("Skills must be an array of strings")
		}
		if str = strings.TrimSpace(str); str != "" {
			skills = append(skills, str)
		}
	}
	return skills, nil
}

func uploadError(kind storage.Kind, err error) error {
	switch {
	case errors.Is(err, storage.ErrNoFile):
		return apperrors.BadRequest("No file uploaded. Use the '" + kind.Field + "' field")
	case errors.Is(err, storage.ErrFileType):
		return apperrors.BadRequest(kind.Message)
	case errors.Is(err, storage.ErrFileSize):
		return apperrors.BadRequest("File too large")
	default:
		return apperrors.Internal("failed to store upload", err)
	}
}
