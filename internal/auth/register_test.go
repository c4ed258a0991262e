package auth

import (
	"context"
	"testing"

	"github.com/adrianvasquez/fundhub-backend/internal/users"
	"github.com/adrianvasquez/fundhub-backend/pkg/config"
	pkgmodels "github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	pkgerrors "github.com/adrianvasquez/fundhub-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserRepository struct {
	data      map[string]*pkgmodels.User
	created   *pkgmodels.User
	createErr error
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{data: map[string]*pkgmodels.User{}}
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*pkgmodels.User, error) {
	if user, ok := s.data[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) Create(ctx context.Context, dto users.CreateUserDTO) (*pkgmodels.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	s.data[dto.Email] = user
	s.created = user
	return user, nil
}

func newRegisterTestService(t *testing.T, repo *stubUserRepository) RegisterService {
	t.Helper()
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return repo
		},
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return svc
}

func TestRegisterCreatesUserWithDefaultRole(t *testing.T) {
	repo := newStubUserRepository()
	svc := newRegisterTestService(t, repo)

	err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Jamie Rivera",
		Email:    "New@Example.com",
		Password: "Secret123!",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if repo.created == nil {
		t.Fatal("expected user to be created")
	}
	if repo.created.Email != "new@example.com" {
		t.Fatalf("expected normalized email, got %q", repo.created.Email)
	}
	if repo.created.Role != enums.UserRoleUser {
		t.Fatalf("expected default role user, got %s", repo.created.Role)
	}
	if repo.created.PasswordHash == "" || repo.created.PasswordHash == "Secret123!" {
		t.Fatal("expected password to be hashed")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newStubUserRepository()
	repo.data["taken@example.com"] = &pkgmodels.User{ID: uuid.New(), Email: "taken@example.com"}
	svc := newRegisterTestService(t, repo)

	err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Jamie Rivera",
		Email:    "taken@example.com",
		Password: "Secret123!",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if repo.created != nil {
		t.Fatal("expected no user creation on conflict")
	}
}

func TestRegisterRequiresEmail(t *testing.T) {
	svc := newRegisterTestService(t, newStubUserRepository())

	err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Jamie Rivera",
		Email:    "   ",
		Password: "Secret123!",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
