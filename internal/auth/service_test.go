package auth

import (
	"context"
	"testing"
	"time"

	pkgAuth "github.com/adrianvasquez/fundhub-backend/pkg/auth"
	"github.com/adrianvasquez/fundhub-backend/pkg/config"
	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	pkgerrors "github.com/adrianvasquez/fundhub-backend/pkg/errors"
	"github.com/adrianvasquez/fundhub-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var testJWTCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "fundhub-test",
	ExpirationMinutes: 15,
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{SessionManager: stubSession{}}); err == nil {
		t.Fatal("expected error without user repo")
	}
	if _, err := NewService(ServiceParams{UserRepo: &stubAuthUserRepo{}}); err == nil {
		t.Fatal("expected error without session manager")
	}
}

func TestLoginSuccess(t *testing.T) {
	password := "correct horse battery"
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        "backer@example.com",
		PasswordHash: hash,
		Name:         "Backer",
		Role:         enums.UserRoleCreator,
	}
	repo := &stubAuthUserRepo{user: user}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: stubSession{token: "refresh-token"},
		JWTConfig:      testJWTCfg,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Backer@Example.com",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.RefreshToken != "refresh-token" {
		t.Fatalf("expected refresh token, got %q", resp.RefreshToken)
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("expected user in response, got %v", resp.User)
	}
	if repo.lastLoginID != user.ID {
		t.Fatal("expected last login to be recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTCfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected subject %s got %s", user.ID, claims.UserID)
	}
	if claims.Role != enums.UserRoleCreator {
		t.Fatalf("expected role creator got %s", claims.Role)
	}
}

func TestLoginLowercasesEmailLookup(t *testing.T) {
	hash, _ := security.HashPassword("pw-long-enough", config.PasswordConfig{})
	repo := &stubAuthUserRepo{user: &models.User{
		ID:           uuid.New(),
		PasswordHash: hash,
		Role:         enums.UserRoleUser,
	}}
	svc, _ := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: stubSession{},
		JWTConfig:      testJWTCfg,
	})

	if _, err := svc.Login(context.Background(), LoginRequest{Email: "  MiXeD@Example.COM ", Password: "pw-long-enough"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if repo.lookedUp != "mixed@example.com" {
		t.Fatalf("expected lowercase lookup, got %q", repo.lookedUp)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	repo := &stubAuthUserRepo{err: gorm.ErrRecordNotFound}
	svc, _ := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: stubSession{},
		JWTConfig:      testJWTCfg,
	})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := security.HashPassword("the-real-password", config.PasswordConfig{})
	repo := &stubAuthUserRepo{user: &models.User{
		ID:           uuid.New(),
		PasswordHash: hash,
		Role:         enums.UserRoleUser,
	}}
	svc, _ := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: stubSession{},
		JWTConfig:      testJWTCfg,
	})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "not-the-password"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginBlankEmail(t *testing.T) {
	svc, _ := NewService(ServiceParams{
		UserRepo:       &stubAuthUserRepo{},
		SessionManager: stubSession{},
		JWTConfig:      testJWTCfg,
	})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "   ", Password: "whatever"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

type stubAuthUserRepo struct {
	user        *models.User
	err         error
	lookedUp    string
	lastLoginID uuid.UUID
}

func (s *stubAuthUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.lookedUp = email
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubAuthUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLoginID = id
	return nil
}

type stubSession struct {
	token string
	err   error
}

func (s stubSession) Generate(ctx context.Context, accessID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.token == "" {
		return "generated", nil
	}
	return s.token, nil
}
