package pledges

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	pkgerrors "github.com/adrianvasquez/fundhub-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type pledgeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pledge, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Pledge, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Pledge, error)
	TotalsForCampaign(ctx context.Context, campaignID uuid.UUID) (decimal.Decimal, int64, error)
}

type txPledgeRepository interface {
	CreateWithTx(tx *gorm.DB, dto CreatePledgeDTO) (*models.Pledge, error)
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Pledge, error)
	FindCampaignWithTx(tx *gorm.DB, id uuid.UUID) (*models.Campaign, error)
	UpdateWithTx(tx *gorm.DB, pledge *models.Pledge) error
	DeleteWithTx(tx *gorm.DB, id uuid.UUID) error
	IncrementCampaignTotal(tx *gorm.DB, campaignID uuid.UUID, amount decimal.Decimal) error
	DecrementCampaignTotal(tx *gorm.DB, campaignID uuid.UUID, amount decimal.Decimal) error
}

type pledgeUserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type campaignFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateInput captures the backer-provided pledge fields.
type CreateInput struct {
	CampaignID  uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Message     *string
	IsAnonymous bool
}

// PaymentStatusInput carries a processor-driven status change.
type PaymentStatusInput struct {
	PaymentStatus   enums.PaymentStatus
	PaymentIntentID *string
}

// Service exposes pledge operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*PledgeDTO, error)
	UpdatePaymentStatus(ctx context.Context, adminID, pledgeID uuid.UUID, input PaymentStatusInput) (*PledgeDTO, error)
	Cancel(ctx context.Context, userID, pledgeID uuid.UUID) error
	CampaignStats(ctx context.Context, campaignID uuid.UUID) (*StatsDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]PledgeDTO, error)
	CampaignPledges(ctx context.Context, campaignID uuid.UUID) ([]PledgeDTO, error)
}

// ServiceParams bundles the dependencies required to build a pledges service.
type ServiceParams struct {
	Repo          pledgeRepository
	Users         pledgeUserFinder
	Campaigns     campaignFinder
	TxRunner      txRunner
	TxRepoFactory func(tx *gorm.DB) txPledgeRepository
}

type service struct {
	repo      pledgeRepository
	users     pledgeUserFinder
	campaigns campaignFinder
	tx        txRunner
	txRepoFn  func(tx *gorm.DB) txPledgeRepository
	now       func() time.Time
}

// NewService builds a pledges service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("pledges repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Campaigns == nil {
		return nil, fmt.Errorf("campaigns repository required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	txRepoFn := params.TxRepoFactory
	if txRepoFn == nil {
		txRepoFn = func(tx *gorm.DB) txPledgeRepository { return NewRepository(tx) }
	}
	return &service{
		repo:      params.Repo,
		users:     params.Users,
		campaigns: params.Campaigns,
		tx:        params.TxRunner,
		txRepoFn:  txRepoFn,
		now:       time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*PledgeDTO, error) {
	if _, err := s.loadUser(ctx, userID); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Pledge amount must be greater than 0")
	}

	var pledge *models.Pledge
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepoFn(tx)

		campaign, err := repo.FindCampaignWithTx(tx, input.CampaignID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Campaign not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load campaign")
		}
		if campaign.Status != enums.CampaignStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "Campaign is not active")
		}
		if campaign.HasEnded(s.now()) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "Campaign has ended")
		}

		pledge, err = repo.CreateWithTx(tx, CreatePledgeDTO{
			CampaignID:  input.CampaignID,
			UserID:      userID,
			Amount:      input.Amount,
			Currency:    input.Currency,
			Message:     input.Message,
			IsAnonymous: input.IsAnonymous,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pledge")
		}

		// The total moves in the same transaction as the insert.
		if err := repo.IncrementCampaignTotal(tx, input.CampaignID, input.Amount); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment campaign total")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(pledge, false), nil
}

func (s *service) UpdatePaymentStatus(ctx context.Context, adminID, pledgeID uuid.UUID, input PaymentStatusInput) (*PledgeDTO, error) {
	admin, err := s.loadUser(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if admin.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only admins can update payment status")
	}
	if !input.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	var pledge *models.Pledge
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepoFn(tx)

		var err error
		pledge, err = repo.FindByIDWithTx(tx, pledgeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Pledge not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pledge")
		}

		previous := pledge.PaymentStatus
		pledge.PaymentStatus = input.PaymentStatus
		if input.PaymentIntentID != nil {
			pledge.PaymentIntentID = input.PaymentIntentID
		}
		if err := repo.UpdateWithTx(tx, pledge); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pledge")
		}

		// Release the amount only on the transition into a dead state;
		// replays of the same status are a no-op on the total.
		if input.PaymentStatus.ReleasesFunds() && previous.HoldsFunds() {
			if err := repo.DecrementCampaignTotal(tx, pledge.CampaignID, pledge.Amount); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement campaign total")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(pledge, false), nil
}

func (s *service) Cancel(ctx context.Context, userID, pledgeID uuid.UUID) error {
	if _, err := s.loadUser(ctx, userID); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepoFn(tx)

		pledge, err := repo.FindByIDWithTx(tx, pledgeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Pledge not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pledge")
		}
		if pledge.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "You can only cancel your own pledges")
		}
		if pledge.PaymentStatus == enums.PaymentStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "Cannot cancel a completed pledge")
		}

		if pledge.PaymentStatus.HoldsFunds() {
			if err := repo.DecrementCampaignTotal(tx, pledge.CampaignID, pledge.Amount); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement campaign total")
			}
		}
		if err := repo.DeleteWithTx(tx, pledgeID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete pledge")
		}
		return nil
	})
}

func (s *service) CampaignStats(ctx context.Context, campaignID uuid.UUID) (*StatsDTO, error) {
	campaign, err := s.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load campaign")
	}

	totalAmount, totalBackers, err := s.repo.TotalsForCampaign(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum pledges")
	}

	now := s.now()
	percentage := 0.0
	if campaign.GoalAmount.IsPositive() {
		ratio, _ := totalAmount.Div(campaign.GoalAmount).Mul(decimal.NewFromInt(100)).Float64()
		percentage = ratio
		if percentage > 100 {
			percentage = 100
		}
	}
	daysLeft := 0
	if remaining := campaign.EndDate.Sub(now); remaining > 0 {
		daysLeft = int((remaining + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
	}

	return &StatsDTO{
		TotalBackers:     totalBackers,
		TotalAmount:      totalAmount,
		PercentageFunded: percentage,
		DaysLeft:         daysLeft,
		GoalAmount:       campaign.GoalAmount,
		Currency:         campaign.Currency,
		IsFullyFunded:    totalAmount.GreaterThanOrEqual(campaign.GoalAmount),
		HasEnded:         campaign.HasEnded(now),
	}, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]PledgeDTO, error) {
	pledges, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pledges")
	}
	out := make([]PledgeDTO, 0, len(pledges))
	for i := range pledges {
		out = append(out, *FromModel(&pledges[i], false))
	}
	return out, nil
}

func (s *service) CampaignPledges(ctx context.Context, campaignID uuid.UUID) ([]PledgeDTO, error) {
	pledges, err := s.repo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pledges")
	}
	out := make([]PledgeDTO, 0, len(pledges))
	for i := range pledges {
		out = append(out, *FromModel(&pledges[i], true))
	}
	return out, nil
}

func (s *service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Not authenticated")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
