package services

import (
	"context"
	"errors"
	"strings"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	invalidCredentialsMessage = "Invalid credentials"
	emailTakenMessage         = "User with this email already exists"
)

// Session is returned by register and login.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService struct {
	DB     *gorm.DB
	Tokens *auth.TokenManager
}

func NewAuthService(db *gorm.DB, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		DB:     db,
		Tokens: tokens,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dtos.RegisterRequest) (*Session, error) {
	role := models.RoleJobSeeker
	if strings.TrimSpace(req.Role) != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok {
			return nil, apperrors.BadRequest("Invalid role. Use one of: JOB_SEEKER, RECRUITER")
		}
		if parsed == models.RoleAdmin {
			return nil, apperrors.BadRequest("Cannot register as ADMIN")
		}
		role = parsed
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.BadRequest("Name is required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		Email:        normalizeEmail(req.Email),
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	}

	db := s.DB.WithContext(ctx)
	var taken int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&taken).Error; err != nil {
		return nil, apperrors.Internal("failed to check email", err)
	}
	if taken > 0 {
		return nil, apperrors.Conflict(emailTakenMessage)
	}
	if err := db.Create(user).Error; err != nil {
		return nil, apperrors.FromStore(err, "", emailTakenMessage)
	}

	return s.session(user)
}

func (s *AuthService) Login(ctx context.Context, req *dtos.LoginRequest) (*Session, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthorized(invalidCredentialsMessage)
		}
		return nil, apperrors.Internal("failed to look up user", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to verify password", err)
	}
	if !ok {
		return nil, apperrors.Unauthorized(invalidCredentialsMessage)
	}

	return s.session(&user)
}

// Me returns the caller's current user row.
func (s *AuthService) Me(ctx context.Context, caller auth.Identity) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, caller.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthorized("User no longer exists")
		}
		return nil, apperrors.Internal("failed to load user", err)
	}
	return &user, nil
}

// EnsureAdmin creates the configured admin account if no user holds that
// email yet. An existing account is promoted to ADMIN.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string, log *zap.Logger) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		log.Debug("admin seed skipped, ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}

	db := s.DB.WithContext(ctx)
	var existing models.User
	err := db.Where("email = ?", email).Limit(1).Find(&existing).Error
	if err != nil {
		return apperrors.Internal("failed to look up admin", err)
	}

	if existing.ID != 0 {
		if existing.Role == models.RoleAdmin {
			return nil
		}
		if err := db.Model(&existing).Update("role", models.RoleAdmin).Error; err != nil {
			return apperrors.Internal("failed to promote admin", err)
		}
		log.Info("promoted configured admin", zap.String("email", email))
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperrors.Internal("failed to hash admin password", err)
	}
	admin := &models.User{Email: email, Name: name, PasswordHash: hash, Role: models.RoleAdmin}
	if err := db.Create(admin).Error; err != nil {
		return apperrors.FromStore(err, "", emailTakenMessage)
	}

	log.Info("seeded admin user", zap.String("email", email), zap.Uint("user_id", admin.ID))
	return nil
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, err := s.Tokens.Issue(user)
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err)
	}
	return &Session{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
