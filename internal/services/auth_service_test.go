package services_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/database/dbtest"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/services"
)

func newAuthService(t *testing.T) *services.AuthService {
	t.Helper()
	return services.NewAuthService(dbtest.New(t), auth.NewTokenManager("test-secret", time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, &dtos.RegisterRequest{
		Email: " Jane@Example.COM ", Password: "secret1", Name: "Jane", Role: "recruiter",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if session.User.Email != "jane@example.com" || session.User.Role != models.RoleRecruiter {
		t.Errorf("Register() user = %+v", session.User)
	}
	id, err := svc.Tokens.Verify(session.Token)
	if err != nil || id.UserID != session.User.ID || id.Role != models.RoleRecruiter {
		t.Errorf("token identity = %+v, %v", id, err)
	}

	_, err = svc.Register(ctx, &dtos.RegisterRequest{Email: "JANE@example.com", Password: "secret1", Name: "Again"})
	assertType(t, err, apperrors.ErrTypeConflict)

	login, err := svc.Login(ctx, &dtos.LoginRequest{Email: "jane@EXAMPLE.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if login.User.ID != session.User.ID {
		t.Errorf("Login() user = %d", login.User.ID)
	}

	_, err = svc.Login(ctx, &dtos.LoginRequest{Email: "jane@example.com", Password: "wrong!"})
	assertType(t, err, apperrors.ErrTypeUnauthorized)
	_, err = svc.Login(ctx, &dtos.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assertType(t, err, apperrors.ErrTypeUnauthorized)
}

func TestRegisterRoles(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, &dtos.RegisterRequest{Email: "a@example.com", Password: "secret1", Name: "A"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if session.User.Role != models.RoleJobSeeker {
		t.Errorf("default role = %q", session.User.Role)
	}

	_, err = svc.Register(ctx, &dtos.RegisterRequest{Email: "b@example.com", Password: "secret1", Name: "B", Role: "ADMIN"})
	assertType(t, err, apperrors.ErrTypeBadRequest)

	_, err = svc.Register(ctx, &dtos.RegisterRequest{Email: "c@example.com", Password: "secret1", Name: "C", Role: "boss"})
	assertType(t, err, apperrors.ErrTypeBadRequest)
}

func TestMe(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	id := createUser(t, svc.DB, "me@example.com", models.RoleJobSeeker)

	user, err := svc.Me(ctx, id)
	if err != nil || user.Email != "me@example.com" {
		t.Fatalf("Me() = %v, %v", user, err)
	}

	if err := svc.DB.Delete(&models.User{}, id.UserID).Error; err != nil {
		t.Fatal(err)
	}
	_, err = svc.Me(ctx, id)
	assertType(t, err, apperrors.ErrTypeUnauthorized)
}

func TestEnsureAdmin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	log := zap.NewNop()

	if err := svc.EnsureAdmin(ctx, "", "", "Admin", log); err != nil {
		t.Fatalf("EnsureAdmin(empty) error = %v", err)
	}
	if n := count(t, svc.DB, &models.User{}, "1 = 1"); n != 0 {
		t.Fatalf("empty config created %d users", n)
	}

	for range 2 {
		if err := svc.EnsureAdmin(ctx, "Root@Example.com", "rootpass", "Admin", log); err != nil {
			t.Fatalf("EnsureAdmin() error = %v", err)
		}
	}
	if n := count(t, svc.DB, &models.User{}, "email = ? AND role = ?", "root@example.com", models.RoleAdmin); n != 1 {
		t.Errorf("admin rows = %d", n)
	}

	if _, err := svc.Login(ctx, &dtos.LoginRequest{Email: "root@example.com", Password: "rootpass"}); err != nil {
		t.Errorf("seeded admin cannot log in: %v", err)
	}

	createUser(t, svc.DB, "promote@example.com", models.RoleJobSeeker)
	if err := svc.EnsureAdmin(ctx, "promote@example.com", "whatever", "Admin", log); err != nil {
		t.Fatal(err)
	}
	if n := count(t, svc.DB, &models.User{}, "email = ? AND role = ?", "promote@example.com", models.RoleAdmin); n != 1 {
		t.Error("existing user not promoted")
	}
}
