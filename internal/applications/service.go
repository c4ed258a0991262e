package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrianvasquez/fundhub-backend/internal/users"
	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	pkgerrors "github.com/adrianvasquez/fundhub-backend/pkg/errors"
	"github.com/adrianvasquez/fundhub-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type applicationRepository interface {
	Create(ctx context.Context, dto CreateApplicationDTO) (*models.CreatorApplication, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CreatorApplication, error)
	FindLatestByUser(ctx context.Context, userID uuid.UUID) (*models.CreatorApplication, error)
	ListPending(ctx context.Context) ([]models.CreatorApplication, error)
	ListAll(ctx context.Context) ([]models.CreatorApplication, error)
}

type applicantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type reviewAppRepository interface {
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.CreatorApplication, error)
	UpdateWithTx(tx *gorm.DB, app *models.CreatorApplication) error
}

type reviewUserRepository interface {
	UpdateRoleWithTx(tx *gorm.DB, id uuid.UUID, role enums.UserRole) error
}

// SubmitInput captures the applicant-provided fields.
type SubmitInput struct {
	FullName string
	Bio      string
	Website  *string
	Social   *types.SocialLinks
}

// ReviewInput captures the admin decision for an application.
type ReviewInput struct {
	Approve         bool
	RejectionReason *string
}

// Service exposes creator application operations.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*ApplicationDTO, error)
	Review(ctx context.Context, reviewerID, applicationID uuid.UUID, input ReviewInput) (*ApplicationDTO, error)
	MyApplication(ctx context.Context, userID uuid.UUID) (*ApplicationDTO, error)
	Pending(ctx context.Context) ([]ApplicationDTO, error)
	All(ctx context.Context) ([]ApplicationDTO, error)
}

// ServiceParams bundles the dependencies required to build an applications service.
type ServiceParams struct {
	Repo              applicationRepository
	Users             applicantRepository
	TxRunner          txRunner
	ReviewRepoFactory func(tx *gorm.DB) reviewAppRepository
	UserRepoFactory   func(tx *gorm.DB) reviewUserRepository
}

type service struct {
	repo         applicationRepository
	users        applicantRepository
	tx           txRunner
	reviewRepoFn func(tx *gorm.DB) reviewAppRepository
	userRepoFn   func(tx *gorm.DB) reviewUserRepository
}

// NewService builds an applications service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("applications repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	reviewRepoFn := params.ReviewRepoFactory
	if reviewRepoFn == nil {
		reviewRepoFn = func(tx *gorm.DB) reviewAppRepository { return NewRepository(tx) }
	}
	userRepoFn := params.UserRepoFactory
	if userRepoFn == nil {
		userRepoFn = func(tx *gorm.DB) reviewUserRepository { return users.NewRepository(tx) }
	}
	return &service{
		repo:         params.Repo,
		users:        params.Users,
		tx:           params.TxRunner,
		reviewRepoFn: reviewRepoFn,
		userRepoFn:   userRepoFn,
	}, nil
}

func (s *service) Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*ApplicationDTO, error) {
	applicant, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Not authenticated")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load applicant")
	}
	if applicant.Role == enums.UserRoleCreator || applicant.Role == enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "You are already a creator")
	}

	if _, err := s.repo.FindActiveByUser(ctx, userID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "You already have an active application")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing application")
	}

	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full_name is required")
	}
	bio := strings.TrimSpace(input.Bio)
	if bio == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bio is required")
	}

	app, err := s.repo.Create(ctx, CreateApplicationDTO{
		UserID:   userID,
		FullName: fullName,
		Bio:      bio,
		Website:  input.Website,
		Social:   input.Social,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create application")
	}
	return FromModel(app), nil
}

func (s *service) Review(ctx context.Context, reviewerID, applicationID uuid.UUID, input ReviewInput) (*ApplicationDTO, error) {
	reviewer, err := s.users.FindByID(ctx, reviewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Not authenticated")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reviewer")
	}
	if reviewer.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only admins can review applications")
	}
	if !input.Approve && (input.RejectionReason == nil || strings.TrimSpace(*input.RejectionReason) == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection_reason is required when rejecting")
	}

	var reviewed *models.CreatorApplication
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		appRepo := s.reviewRepoFn(tx)
		userRepo := s.userRepoFn(tx)

		app, err := appRepo.FindByIDWithTx(tx, applicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Application not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
		}
		if app.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "Application has already been reviewed")
		}

		now := time.Now().UTC()
		app.ReviewedBy = &reviewerID
		app.ReviewedAt = &now
		if input.Approve {
			app.Status = enums.ApplicationStatusApproved
			app.RejectionReason = nil
		} else {
			app.Status = enums.ApplicationStatusRejected
			app.RejectionReason = input.RejectionReason
		}

		if err := appRepo.UpdateWithTx(tx, app); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application")
		}

		// Promotion rides the same transaction so an approved application
		// never exists without the creator role.
		if input.Approve {
			if err := userRepo.UpdateRoleWithTx(tx, app.UserID, enums.UserRoleCreator); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote applicant")
			}
		}

		reviewed = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(reviewed), nil
}

func (s *service) MyApplication(ctx context.Context, userID uuid.UUID) (*ApplicationDTO, error) {
	app, err := s.repo.FindLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}
	return FromModel(app), nil
}

func (s *service) Pending(ctx context.Context) ([]ApplicationDTO, error) {
	apps, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending applications")
	}
	return FromModels(apps), nil
}

func (s *service) All(ctx context.Context) ([]ApplicationDTO, error) {
	apps, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	return FromModels(apps), nil
}
