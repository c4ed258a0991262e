package pledges

import (
	"context"
	"testing"
	"time"

	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	pkgerrors "github.com/adrianvasquez/fundhub-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type totalChange struct {
	campaignID uuid.UUID
	amount     decimal.Decimal
}

type stubPledgeRepo struct {
	pledges    map[uuid.UUID]*models.Pledge
	campaigns  map[uuid.UUID]*models.Campaign
	byUser     map[uuid.UUID][]models.Pledge
	byCampaign map[uuid.UUID][]models.Pledge
	total      decimal.Decimal
	backers    int64

	created    []*models.Pledge
	increments []totalChange
	decrements []totalChange
	deleted    []uuid.UUID
}

func newStubPledgeRepo() *stubPledgeRepo {
	return &stubPledgeRepo{
		pledges:    map[uuid.UUID]*models.Pledge{},
		campaigns:  map[uuid.UUID]*models.Campaign{},
		byUser:     map[uuid.UUID][]models.Pledge{},
		byCampaign: map[uuid.UUID][]models.Pledge{},
		total:      decimal.Zero,
	}
}

func (s *stubPledgeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Pledge, error) {
	pledge, ok := s.pledges[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return pledge, nil
}

func (s *stubPledgeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Pledge, error) {
	return s.byUser[userID], nil
}

func (s *stubPledgeRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Pledge, error) {
	return s.byCampaign[campaignID], nil
}

func (s *stubPledgeRepo) TotalsForCampaign(ctx context.Context, campaignID uuid.UUID) (decimal.Decimal, int64, error) {
	return s.total, s.backers, nil
}

func (s *stubPledgeRepo) CreateWithTx(tx *gorm.DB, dto CreatePledgeDTO) (*models.Pledge, error) {
	pledge := dto.ToModel()
	pledge.ID = uuid.New()
	s.created = append(s.created, pledge)
	s.pledges[pledge.ID] = pledge
	return pledge, nil
}

func (s *stubPledgeRepo) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Pledge, error) {
	return s.FindByID(context.Background(), id)
}

func (s *stubPledgeRepo) FindCampaignWithTx(tx *gorm.DB, id uuid.UUID) (*models.Campaign, error) {
	campaign, ok := s.campaigns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return campaign, nil
}

func (s *stubPledgeRepo) UpdateWithTx(tx *gorm.DB, pledge *models.Pledge) error {
	s.pledges[pledge.ID] = pledge
	return nil
}

func (s *stubPledgeRepo) DeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	delete(s.pledges, id)
	return nil
}

func (s *stubPledgeRepo) IncrementCampaignTotal(tx *gorm.DB, campaignID uuid.UUID, amount decimal.Decimal) error {
	s.increments = append(s.increments, totalChange{campaignID: campaignID, amount: amount})
	return nil
}

func (s *stubPledgeRepo) DecrementCampaignTotal(tx *gorm.DB, campaignID uuid.UUID, amount decimal.Decimal) error {
	s.decrements = append(s.decrements, totalChange{campaignID: campaignID, amount: amount})
	return nil
}

type stubPledgeUsers struct {
	users map[uuid.UUID]*models.User
}

func (s *stubPledgeUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type stubCampaignFinder struct {
	campaigns map[uuid.UUID]*models.Campaign
}

func (s *stubCampaignFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	campaign, ok := s.campaigns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return campaign, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type pledgeFixture struct {
	repo    *stubPledgeRepo
	svc     *service
	backer  *models.User
	admin   *models.User
	camp    *models.Campaign
}

func newPledgeFixture(t *testing.T) *pledgeFixture {
	t.Helper()
	repo := newStubPledgeRepo()
	backer := &models.User{ID: uuid.New(), Email: "backer@example.com", Name: "Backer", Role: enums.UserRoleUser}
	admin := &models.User{ID: uuid.New(), Email: "admin@example.com", Name: "Admin", Role: enums.UserRoleAdmin}
	camp := &models.Campaign{
		ID:            uuid.New(),
		CreatorID:     uuid.New(),
		Title:         "Solar Lantern Kits",
		GoalAmount:    decimal.NewFromInt(100),
		CurrentAmount: decimal.Zero,
		Currency:      "USD",
		StartDate:     time.Now().Add(-time.Hour),
		EndDate:       time.Now().Add(10 * 24 * time.Hour),
		Status:        enums.CampaignStatusActive,
	}
	repo.campaigns[camp.ID] = camp

	svc, err := NewService(ServiceParams{
		Repo:          repo,
		Users:         &stubPledgeUsers{users: map[uuid.UUID]*models.User{backer.ID: backer, admin.ID: admin}},
		Campaigns:     &stubCampaignFinder{campaigns: repo.campaigns},
		TxRunner:      stubTxRunner{},
		TxRepoFactory: func(tx *gorm.DB) txPledgeRepository { return repo },
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return &pledgeFixture{repo: repo, svc: svc.(*service), backer: backer, admin: admin, camp: camp}
}

func (f *pledgeFixture) seedPledge(status enums.PaymentStatus) *models.Pledge {
	pledge := &models.Pledge{
		ID:            uuid.New(),
		CampaignID:    f.camp.ID,
		UserID:        f.backer.ID,
		Amount:        decimal.NewFromInt(25),
		Currency:      "USD",
		PaymentStatus: status,
	}
	f.repo.pledges[pledge.ID] = pledge
	return pledge
}

func TestCreatePledgeIncrementsTotal(t *testing.T) {
	f := newPledgeFixture(t)

	dto, err := f.svc.Create(context.Background(), f.backer.ID, CreateInput{
		CampaignID: f.camp.ID,
		Amount:     decimal.NewFromInt(40),
		Currency:   "USD",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if dto.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("expected pending payment, got %s", dto.PaymentStatus)
	}
	if len(f.repo.increments) != 1 {
		t.Fatalf("expected one increment, got %d", len(f.repo.increments))
	}
	if !f.repo.increments[0].amount.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("unexpected increment amount %s", f.repo.increments[0].amount)
	}
}

func TestCreatePledgeRejectsInactiveCampaign(t *testing.T) {
	f := newPledgeFixture(t)
	f.camp.Status = enums.CampaignStatusDraft

	_, err := f.svc.Create(context.Background(), f.backer.ID, CreateInput{
		CampaignID: f.camp.ID,
		Amount:     decimal.NewFromInt(10),
		Currency:   "USD",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if got := pkgerrors.As(err).Message(); got != "Campaign is not active" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestCreatePledgeRejectsEndedCampaign(t *testing.T) {
	f := newPledgeFixture(t)
	f.camp.EndDate = time.Now().Add(-time.Hour)

	_, err := f.svc.Create(context.Background(), f.backer.ID, CreateInput{
		CampaignID: f.camp.ID,
		Amount:     decimal.NewFromInt(10),
		Currency:   "USD",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if got := pkgerrors.As(err).Message(); got != "Campaign has ended" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestCreatePledgeRejectsNonPositiveAmount(t *testing.T) {
	f := newPledgeFixture(t)

	_, err := f.svc.Create(context.Background(), f.backer.ID, CreateInput{
		CampaignID: f.camp.ID,
		Amount:     decimal.Zero,
		Currency:   "USD",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := pkgerrors.As(err).Message(); got != "Pledge amount must be greater than 0" {
		t.Fatalf("unexpected message: %q", got)
	}
	if len(f.repo.increments) != 0 {
		t.Fatalf("total should not have moved")
	}
}

func TestCreatePledgeUnknownCampaign(t *testing.T) {
	f := newPledgeFixture(t)

	_, err := f.svc.Create(context.Background(), f.backer.ID, CreateInput{
		CampaignID: uuid.New(),
		Amount:     decimal.NewFromInt(10),
		Currency:   "USD",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdatePaymentStatusRequiresAdmin(t *testing.T) {
	f := newPledgeFixture(t)
	pledge := f.seedPledge(enums.PaymentStatusPending)

	_, err := f.svc.UpdatePaymentStatus(context.Background(), f.backer.ID, pledge.ID, PaymentStatusInput{
		PaymentStatus: enums.PaymentStatusCompleted,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if got := pkgerrors.As(err).Message(); got != "Only admins can update payment status" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestUpdatePaymentStatusFailureReleasesFundsOnce(t *testing.T) {
	f := newPledgeFixture(t)
	pledge := f.seedPledge(enums.PaymentStatusPending)

	input := PaymentStatusInput{PaymentStatus: enums.PaymentStatusFailed}
	if _, err := f.svc.UpdatePaymentStatus(context.Background(), f.admin.ID, pledge.ID, input); err != nil {
		t.Fatalf("UpdatePaymentStatus returned error: %v", err)
	}
	if len(f.repo.decrements) != 1 {
		t.Fatalf("expected one decrement, got %d", len(f.repo.decrements))
	}

	// A replayed webhook must not drain the total a second time.
	if _, err := f.svc.UpdatePaymentStatus(context.Background(), f.admin.ID, pledge.ID, input); err != nil {
		t.Fatalf("UpdatePaymentStatus replay returned error: %v", err)
	}
	if len(f.repo.decrements) != 1 {
		t.Fatalf("expected decrements to stay at 1, got %d", len(f.repo.decrements))
	}
}

func TestUpdatePaymentStatusReleasesProcessingPledge(t *testing.T) {
	f := newPledgeFixture(t)
	pledge := f.seedPledge(enums.PaymentStatusProcessing)

	_, err := f.svc.UpdatePaymentStatus(context.Background(), f.admin.ID, pledge.ID, PaymentStatusInput{
		PaymentStatus: enums.PaymentStatusFailed,
	})
	if err != nil {
		t.Fatalf("UpdatePaymentStatus returned error: %v", err)
	}
	if len(f.repo.decrements) != 1 {
		t.Fatalf("expected one decrement, got %d", len(f.repo.decrements))
	}
	if !f.repo.decrements[0].amount.Equal(pledge.Amount) {
		t.Fatalf("expected the pledge amount released, got %s", f.repo.decrements[0].amount)
	}
}

func TestUpdatePaymentStatusCompletedKeepsTotal(t *testing.T) {
	f := newPledgeFixture(t)
	pledge := f.seedPledge(enums.PaymentStatusPending)

	intentID := "pi_123"
	dto, err := f.svc.UpdatePaymentStatus(context.Background(), f.admin.ID, pledge.ID, PaymentStatusInput{
		PaymentStatus:   enums.PaymentStatusCompleted,
		PaymentIntentID: &intentID,
	})
	if err != nil {
		t.Fatalf("UpdatePaymentStatus returned error: %v", err)
	}
	if dto.PaymentStatus != enums.PaymentStatusCompleted {
		t.Fatalf("expected completed, got %s", dto.PaymentStatus)
	}
	if dto.PaymentIntentID == nil || *dto.PaymentIntentID != intentID {
		t.Fatalf("expected payment intent recorded")
	}
	if len(f.repo.decrements) != 0 {
		t.Fatalf("total should not have moved")
	}
}

func TestUpdatePaymentStatusRejectsUnknownStatus(t *testing.T) {
	f := newPledgeFixture(t)
	pledge := f.seedPledge(enums.PaymentStatusPending)

	_, err := f.svc.UpdatePaymentStatus(context.Background(), f.admin.ID, pledge.ID, PaymentStatusInput{
		PaymentStatus: enums.PaymentStatus("settled"),
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCancelOwnPendingPledge(t *testing.T) {
	f := newPledgeFixture(t)
	pledge := f.seedPledge(enums.PaymentStatusPending)

	if err := f.svc.Cancel(context.Background(), f.backer.ID, pledge.ID); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if len(f.repo.decrements) != 1 {
		t.Fatalf("expected one decrement, got %d", len(f.repo.decrements))
	}
	if len(f.repo.deleted) != 1 || f.repo.deleted[0] != pledge.ID {
		t.Fatalf("expected pledge deleted")
	}
}

func TestCancelProcessingPledgeReleasesFunds(t *testing.T) {
	f := newPledgeFixture(t)
	pledge := f.seedPledge(enums.PaymentStatusProcessing)

	if err := f.svc.Cancel(context.Background(), f.backer.ID, pledge.ID); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if len(f.repo.decrements) != 1 {
		t.Fatalf("expected one decrement, got %d", len(f.repo.decrements))
	}
	if len(f.repo.deleted) != 1 || f.repo.deleted[0] != pledge.ID {
		t.Fatalf("expected pledge deleted")
	}
}

func TestCancelRejectsOtherUsersPledge(t *testing.T) {
	f := newPledgeFixture(t)
	pledge := f.seedPledge(enums.PaymentStatusPending)

	err := f.svc.Cancel(context.Background(), f.admin.ID, pledge.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if got := pkgerrors.As(err).Message(); got != "You can only cancel your own pledges" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestCancelRejectsCompletedPledge(t *testing.T) {
	f := newPledgeFixture(t)
	pledge := f.seedPledge(enums.PaymentStatusCompleted)

	err := f.svc.Cancel(context.Background(), f.backer.ID, pledge.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if got := pkgerrors.As(err).Message(); got != "Cannot cancel a completed pledge" {
		t.Fatalf("unexpected message: %q", got)
	}
	if len(f.repo.deleted) != 0 {
		t.Fatalf("completed pledge should not be deleted")
	}
}

func TestCampaignStatsClampsPercentage(t *testing.T) {
	f := newPledgeFixture(t)
	f.repo.total = decimal.NewFromInt(250)
	f.repo.backers = 5

	stats, err := f.svc.CampaignStats(context.Background(), f.camp.ID)
	if err != nil {
		t.Fatalf("CampaignStats returned error: %v", err)
	}
	if stats.PercentageFunded != 100 {
		t.Fatalf("expected clamp at 100, got %f", stats.PercentageFunded)
	}
	if !stats.IsFullyFunded {
		t.Fatalf("expected fully funded")
	}
	if stats.TotalBackers != 5 {
		t.Fatalf("expected 5 backers, got %d", stats.TotalBackers)
	}
	if stats.DaysLeft <= 0 {
		t.Fatalf("expected days left, got %d", stats.DaysLeft)
	}
}

func TestCampaignStatsPartialFunding(t *testing.T) {
	f := newPledgeFixture(t)
	f.repo.total = decimal.NewFromInt(40)
	f.repo.backers = 2

	stats, err := f.svc.CampaignStats(context.Background(), f.camp.ID)
	if err != nil {
		t.Fatalf("CampaignStats returned error: %v", err)
	}
	if stats.PercentageFunded != 40 {
		t.Fatalf("expected 40%%, got %f", stats.PercentageFunded)
	}
	if stats.IsFullyFunded {
		t.Fatalf("did not expect fully funded")
	}
	if stats.HasEnded {
		t.Fatalf("campaign has not ended")
	}
}

func TestCampaignPledgesHidesAnonymousBackers(t *testing.T) {
	f := newPledgeFixture(t)
	named := models.Pledge{
		ID:            uuid.New(),
		CampaignID:    f.camp.ID,
		UserID:        f.backer.ID,
		Amount:        decimal.NewFromInt(10),
		Currency:      "USD",
		PaymentStatus: enums.PaymentStatusCompleted,
		User:          f.backer,
	}
	anon := models.Pledge{
		ID:            uuid.New(),
		CampaignID:    f.camp.ID,
		UserID:        f.backer.ID,
		Amount:        decimal.NewFromInt(15),
		Currency:      "USD",
		IsAnonymous:   true,
		PaymentStatus: enums.PaymentStatusPending,
		User:          f.backer,
	}
	f.repo.byCampaign[f.camp.ID] = []models.Pledge{named, anon}

	dtos, err := f.svc.CampaignPledges(context.Background(), f.camp.ID)
	if err != nil {
		t.Fatalf("CampaignPledges returned error: %v", err)
	}
	if len(dtos) != 2 {
		t.Fatalf("expected 2 pledges, got %d", len(dtos))
	}
	if dtos[0].User == nil {
		t.Fatalf("named pledge should expose its backer")
	}
	if dtos[1].User != nil {
		t.Fatalf("anonymous pledge should hide its backer")
	}
}

func TestListMineIncludesCampaigns(t *testing.T) {
	f := newPledgeFixture(t)
	pledge := models.Pledge{
		ID:            uuid.New(),
		CampaignID:    f.camp.ID,
		UserID:        f.backer.ID,
		Amount:        decimal.NewFromInt(10),
		Currency:      "USD",
		PaymentStatus: enums.PaymentStatusPending,
		Campaign:      f.camp,
	}
	f.repo.byUser[f.backer.ID] = []models.Pledge{pledge}

	dtos, err := f.svc.ListMine(context.Background(), f.backer.ID)
	if err != nil {
		t.Fatalf("ListMine returned error: %v", err)
	}
	if len(dtos) != 1 {
		t.Fatalf("expected 1 pledge, got %d", len(dtos))
	}
	if dtos[0].Campaign == nil || dtos[0].Campaign.Title != f.camp.Title {
		t.Fatalf("expected campaign joined onto pledge")
	}
}
