package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	pkgerrors "github.com/adrianvasquez/fundhub-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil)
	if err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestServiceGetByIDSuccess(t *testing.T) {
	user := baseUser(enums.UserRoleUser)
	repo := &stubUserRepo{users: map[uuid.UUID]*models.User{user.ID: user}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if dto.ID != user.ID {
		t.Fatalf("expected id %s got %s", user.ID, dto.ID)
	}
	if dto.Email != user.Email {
		t.Fatalf("expected email %s got %s", user.Email, dto.Email)
	}
	if dto.Role != enums.UserRoleUser {
		t.Fatalf("expected role user got %s", dto.Role)
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	repo := &stubUserRepo{err: gorm.ErrRecordNotFound}
	svc, _ := NewService(repo)

	_, gotErr := svc.GetByID(context.Background(), uuid.New())
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func TestServiceUpdateRolePromotesUser(t *testing.T) {
	admin := baseUser(enums.UserRoleAdmin)
	target := baseUser(enums.UserRoleUser)
	repo := &stubUserRepo{users: map[uuid.UUID]*models.User{
		admin.ID:  admin,
		target.ID: target,
	}}
	svc, _ := NewService(repo)

	dto, err := svc.UpdateRole(context.Background(), admin.ID, target.ID, enums.UserRoleCreator)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if dto.Role != enums.UserRoleCreator {
		t.Fatalf("expected role creator got %s", dto.Role)
	}
	if repo.roleUpdates[target.ID] != enums.UserRoleCreator {
		t.Fatalf("expected repo role update recorded, got %v", repo.roleUpdates)
	}
}

func TestServiceUpdateRoleRequiresAdmin(t *testing.T) {
	actor := baseUser(enums.UserRoleCreator)
	target := baseUser(enums.UserRoleUser)
	repo := &stubUserRepo{users: map[uuid.UUID]*models.User{
		actor.ID:  actor,
		target.ID: target,
	}}
	svc, _ := NewService(repo)

	_, gotErr := svc.UpdateRole(context.Background(), actor.ID, target.ID, enums.UserRoleCreator)
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", gotErr)
	}
}

func TestServiceUpdateRoleBlocksSelfDemotion(t *testing.T) {
	admin := baseUser(enums.UserRoleAdmin)
	repo := &stubUserRepo{users: map[uuid.UUID]*models.User{admin.ID: admin}}
	svc, _ := NewService(repo)

	_, gotErr := svc.UpdateRole(context.Background(), admin.ID, admin.ID, enums.UserRoleUser)
	if gotErr == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(gotErr)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", gotErr)
	}
	if typed.Message() != "Cannot remove your own admin role" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestServiceUpdateRoleAllowsSelfWhenStayingAdmin(t *testing.T) {
	admin := baseUser(enums.UserRoleAdmin)
	repo := &stubUserRepo{users: map[uuid.UUID]*models.User{admin.ID: admin}}
	svc, _ := NewService(repo)

	dto, err := svc.UpdateRole(context.Background(), admin.ID, admin.ID, enums.UserRoleAdmin)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if dto.Role != enums.UserRoleAdmin {
		t.Fatalf("expected role admin got %s", dto.Role)
	}
}

func TestServiceUpdateRoleRejectsInvalidRole(t *testing.T) {
	admin := baseUser(enums.UserRoleAdmin)
	repo := &stubUserRepo{users: map[uuid.UUID]*models.User{admin.ID: admin}}
	svc, _ := NewService(repo)

	_, gotErr := svc.UpdateRole(context.Background(), admin.ID, uuid.New(), enums.UserRole("superuser"))
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", gotErr)
	}
}

func TestServiceUpdateProfile(t *testing.T) {
	user := baseUser(enums.UserRoleUser)
	repo := &stubUserRepo{users: map[uuid.UUID]*models.User{user.ID: user}}
	svc, _ := NewService(repo)

	newName := "Renamed Backer"
	newImage := "https://cdn.example.com/avatar.png"
	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Name:     &newName,
		ImageURL: &newImage,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if dto.Name != newName {
		t.Fatalf("expected name %q got %q", newName, dto.Name)
	}
	if dto.ImageURL == nil || *dto.ImageURL != newImage {
		t.Fatalf("expected image %q got %v", newImage, dto.ImageURL)
	}
	if repo.saved == nil {
		t.Fatal("expected repo save to be called")
	}
}

func TestServiceUpdateProfileDependencyError(t *testing.T) {
	repo := &stubUserRepo{err: errors.New("boom")}
	svc, _ := NewService(repo)

	_, gotErr := svc.UpdateProfile(context.Background(), uuid.New(), UpdateProfileInput{})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", gotErr)
	}
}

func baseUser(role enums.UserRole) *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

type stubUserRepo struct {
	users       map[uuid.UUID]*models.User
	err         error
	saved       *models.User
	roleUpdates map[uuid.UUID]enums.UserRole
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error {
	if s.roleUpdates == nil {
		s.roleUpdates = map[uuid.UUID]enums.UserRole{}
	}
	s.roleUpdates[id] = role
	return nil
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	s.saved = user
	return nil
}
