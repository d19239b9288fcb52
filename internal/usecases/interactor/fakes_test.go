package interactor

import (
	"context"
	"sort"
	"testing"

	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/grandguard/budget-service/internal/domain/repositories"
	apperrors "github.com/grandguard/budget-service/internal/errors"
	"github.com/grandguard/budget-service/internal/infrastructure/compliance"
	"github.com/grandguard/budget-service/internal/metrics"
	"github.com/grandguard/budget-service/internal/usecases/dtos"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// The default prometheus registry rejects duplicate registration, so the
// whole test binary shares one metrics instance.
var testMetrics = metrics.New()

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// The fakes below mirror the semantics of the SQL repositories, including
// the fused check-and-mutate statements: a rejected admission mutates
// nothing, and a transition on the wrong state reports a conflict.

type fakeAwardRepository struct {
	awards map[string]*models.Award
	order  []string
}

func newFakeAwardRepository() *fakeAwardRepository {
	return &fakeAwardRepository{awards: make(map[string]*models.Award)}
}

func (f *fakeAwardRepository) GetByID(_ context.Context, id string) (*models.Award, error) {
	award, ok := f.awards[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Award")
	}
	clone := *award
	return &clone, nil
}

func (f *fakeAwardRepository) List(_ context.Context) ([]models.Award, error) {
	awards := make([]models.Award, 0, len(f.order))
	for _, id := range f.order {
		if award, ok := f.awards[id]; ok {
			awards = append(awards, *award)
		}
	}
	return awards, nil
}

func (f *fakeAwardRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Award, error) {
	all, _ := f.List(ctx)
	awards := make([]models.Award, 0, len(all))
	for _, award := range all {
		if award.CreatedBy == ownerID {
			awards = append(awards, award)
		}
	}
	return awards, nil
}

func (f *fakeAwardRepository) Create(_ context.Context, award *models.Award) error {
	clone := *award
	f.awards[award.ID] = &clone
	f.order = append(f.order, award.ID)
	return nil
}

func (f *fakeAwardRepository) Update(_ context.Context, award *models.Award) error {
	stored, ok := f.awards[award.ID]
	if !ok {
		return apperrors.NewNotFoundError("Award")
	}
	stored.Title = award.Title
	stored.Amount = award.Amount
	stored.Breakdown = award.Breakdown
	return nil
}

func (f *fakeAwardRepository) UpdateStatus(_ context.Context, id string, from, to models.AwardStatus) (bool, error) {
	award, ok := f.awards[id]
	if !ok || award.Status != from {
		return false, nil
	}
	award.Status = to
	return true, nil
}

func (f *fakeAwardRepository) Delete(_ context.Context, id string) error {
	delete(f.awards, id)
	return nil
}

func (f *fakeAwardRepository) ApproveWithinPool(_ context.Context, id string, poolCap decimal.Decimal) (repositories.PoolAdmissionRow, error) {
	target, ok := f.awards[id]
	if !ok || target.Status != models.AwardPending {
		return repositories.PoolAdmissionRow{}, apperrors.NewStateConflictError("award is not pending approval")
	}

	pool := f.approvedTotal(id)
	row := repositories.PoolAdmissionRow{
		PoolRemaining: poolCap.Sub(pool),
		Required:      target.Amount,
	}
	if pool.Add(target.Amount).LessThanOrEqual(poolCap) {
		target.Status = models.AwardApproved
		row.Admitted = true
	}
	return row, nil
}

func (f *fakeAwardRepository) SumApproved(_ context.Context, excludeID string) (decimal.Decimal, error) {
	return f.approvedTotal(excludeID), nil
}

func (f *fakeAwardRepository) approvedTotal(excludeID string) decimal.Decimal {
	total := decimal.Zero
	for id, award := range f.awards {
		if id != excludeID && award.Status == models.AwardApproved {
			total = total.Add(award.Amount)
		}
	}
	return total
}

type fakeBudgetLineRepository struct {
	lines map[string]map[models.Category]*models.BudgetLine
}

func newFakeBudgetLineRepository() *fakeBudgetLineRepository {
	return &fakeBudgetLineRepository{lines: make(map[string]map[models.Category]*models.BudgetLine)}
}

func (f *fakeBudgetLineRepository) ListByAward(_ context.Context, awardID string) ([]models.BudgetLine, error) {
	byCategory := f.lines[awardID]
	lines := make([]models.BudgetLine, 0, len(byCategory))
	for _, line := range byCategory {
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Category < lines[j].Category })
	return lines, nil
}

func (f *fakeBudgetLineRepository) UpsertAllocations(_ context.Context, awardID string, alloc map[models.Category]decimal.Decimal) error {
	for category, line := range f.lines[awardID] {
		if _, ok := alloc[category]; !ok {
			line.Allocated = decimal.Zero
		}
	}
	for category, amount := range alloc {
		f.ensure(awardID, category).Allocated = amount
	}
	return nil
}

func (f *fakeBudgetLineRepository) ReplaceFigures(_ context.Context, awardID string, lines []models.BudgetLine) error {
	for _, replayed := range lines {
		line := f.ensure(awardID, replayed.Category)
		line.Spent = replayed.Spent
		line.Committed = replayed.Committed
	}
	return nil
}

func (f *fakeBudgetLineRepository) get(awardID string, category models.Category) *models.BudgetLine {
	return f.lines[awardID][category]
}

func (f *fakeBudgetLineRepository) ensure(awardID string, category models.Category) *models.BudgetLine {
	byCategory, ok := f.lines[awardID]
	if !ok {
		byCategory = make(map[models.Category]*models.BudgetLine)
		f.lines[awardID] = byCategory
	}
	line, ok := byCategory[category]
	if !ok {
		line = &models.BudgetLine{AwardID: awardID, Category: category}
		byCategory[category] = line
	}
	return line
}

type fakeTransactionRepository struct {
	txns  map[string]*models.Transaction
	order []string
	lines *fakeBudgetLineRepository
}

func newFakeTransactionRepository(lines *fakeBudgetLineRepository) *fakeTransactionRepository {
	return &fakeTransactionRepository{txns: make(map[string]*models.Transaction), lines: lines}
}

func (f *fakeTransactionRepository) GetByID(_ context.Context, id string) (*models.Transaction, error) {
	txn, ok := f.txns[id]
	if !ok {
		return nil, nil
	}
	clone := *txn
	return &clone, nil
}

func (f *fakeTransactionRepository) ListByAward(_ context.Context, awardID string) ([]models.Transaction, error) {
	txns := make([]models.Transaction, 0)
	for _, id := range f.order {
		if txn := f.txns[id]; txn.AwardID == awardID {
			txns = append(txns, *txn)
		}
	}
	return txns, nil
}

func (f *fakeTransactionRepository) CreateWithBudgetCheck(_ context.Context, txn *models.Transaction) (repositories.AdmissionRow, error) {
	var row repositories.AdmissionRow
	line := f.lines.get(txn.AwardID, txn.Category)
	if line != nil {
		row.Remaining = line.Remaining()
	}
	if line == nil || !line.Allocated.IsPositive() || line.Remaining().GreaterThanOrEqual(txn.Amount) {
		clone := *txn
		f.txns[txn.ID] = &clone
		f.order = append(f.order, txn.ID)
		row.Admitted = true
	}
	return row, nil
}

func (f *fakeTransactionRepository) ApproveAndCommit(_ context.Context, id string, verdict models.ComplianceResult) (repositories.TransitionRow, error) {
	txn, ok := f.txns[id]
	if !ok || txn.Status != models.TransactionPending {
		return repositories.TransitionRow{}, apperrors.NewStateConflictError("transaction already processed")
	}

	txn.Status = models.TransactionApproved
	txn.Compliance = verdict

	line := f.lines.ensure(txn.AwardID, txn.Category)
	line.Committed = line.Committed.Add(txn.Amount)

	return repositories.TransitionRow{
		AwardID:    txn.AwardID,
		Category:   txn.Category,
		Amount:     txn.Amount,
		FromStatus: models.TransactionPending,
	}, nil
}

func (f *fakeTransactionRepository) PayAndSettle(_ context.Context, id string) (repositories.TransitionRow, error) {
	txn, ok := f.txns[id]
	if !ok || txn.Status != models.TransactionApproved {
		return repositories.TransitionRow{}, apperrors.NewStateConflictError("transaction already processed")
	}

	txn.Status = models.TransactionPaid

	line := f.lines.ensure(txn.AwardID, txn.Category)
	line.Committed = clampZero(line.Committed.Sub(txn.Amount))
	line.Spent = line.Spent.Add(txn.Amount)

	return repositories.TransitionRow{
		AwardID:    txn.AwardID,
		Category:   txn.Category,
		Amount:     txn.Amount,
		FromStatus: models.TransactionApproved,
	}, nil
}

func (f *fakeTransactionRepository) DeclineAndRelease(_ context.Context, id string) (repositories.TransitionRow, error) {
	txn, ok := f.txns[id]
	if !ok || txn.Status.Terminal() {
		return repositories.TransitionRow{}, apperrors.NewStateConflictError("transaction already processed")
	}

	from := txn.Status
	txn.Status = models.TransactionDeclined

	if from == models.TransactionApproved {
		line := f.lines.ensure(txn.AwardID, txn.Category)
		line.Committed = clampZero(line.Committed.Sub(txn.Amount))
	}

	return repositories.TransitionRow{
		AwardID:    txn.AwardID,
		Category:   txn.Category,
		Amount:     txn.Amount,
		FromStatus: from,
	}, nil
}

type fakeSubawardRepository struct {
	subs  map[string]*models.Subaward
	order []string
}

func newFakeSubawardRepository() *fakeSubawardRepository {
	return &fakeSubawardRepository{subs: make(map[string]*models.Subaward)}
}

func (f *fakeSubawardRepository) GetByID(_ context.Context, id string) (*models.Subaward, error) {
	sub, ok := f.subs[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Subaward")
	}
	clone := *sub
	return &clone, nil
}

func (f *fakeSubawardRepository) ListByAward(_ context.Context, awardID string) ([]models.Subaward, error) {
	subs := make([]models.Subaward, 0)
	for _, id := range f.order {
		if sub := f.subs[id]; sub.AwardID == awardID {
			subs = append(subs, *sub)
		}
	}
	return subs, nil
}

func (f *fakeSubawardRepository) CreateWithinCap(_ context.Context, sub *models.Subaward, awardAmount decimal.Decimal) (repositories.CapAdmissionRow, error) {
	active, _ := f.SumActive(context.Background(), sub.AwardID)
	row := repositories.CapAdmissionRow{Active: active}
	if active.Add(sub.Amount).LessThanOrEqual(awardAmount) {
		clone := *sub
		f.subs[sub.ID] = &clone
		f.order = append(f.order, sub.ID)
		row.Admitted = true
	}
	return row, nil
}

func (f *fakeSubawardRepository) UpdateStatus(_ context.Context, id string, from, to models.SubawardStatus) (bool, error) {
	sub, ok := f.subs[id]
	if !ok || sub.Status != from {
		return false, nil
	}
	sub.Status = to
	return true, nil
}

func (f *fakeSubawardRepository) SumActive(_ context.Context, awardID string) (decimal.Decimal, error) {
	return f.sum(awardID, func(s models.SubawardStatus) bool { return s != models.SubawardDeclined }), nil
}

func (f *fakeSubawardRepository) SumApproved(_ context.Context, awardID string) (decimal.Decimal, error) {
	return f.sum(awardID, func(s models.SubawardStatus) bool { return s == models.SubawardApproved }), nil
}

func (f *fakeSubawardRepository) sum(awardID string, keep func(models.SubawardStatus) bool) decimal.Decimal {
	total := decimal.Zero
	for _, sub := range f.subs {
		if sub.AwardID == awardID && keep(sub.Status) {
			total = total.Add(sub.Amount)
		}
	}
	return total
}

func clampZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// testEnv wires the interactors onto the in-memory fakes, the way the DI
// container wires them onto the SQL repositories.
type testEnv struct {
	awards *fakeAwardRepository
	lines  *fakeBudgetLineRepository
	txns   *fakeTransactionRepository
	subs   *fakeSubawardRepository

	award    *AwardInteractor
	txn      *TransactionInteractor
	subaward *SubawardInteractor
	budget   *BudgetInteractor
}

func newTestEnv(poolCap string) *testEnv {
	awards := newFakeAwardRepository()
	lines := newFakeBudgetLineRepository()
	txns := newFakeTransactionRepository(lines)
	subs := newFakeSubawardRepository()

	refresher := NewAllocationRefresher(lines, subs)
	advisor := &compliance.DisabledAdvisor{}

	return &testEnv{
		awards:   awards,
		lines:    lines,
		txns:     txns,
		subs:     subs,
		award:    NewAwardInteractor(awards, refresher, d(poolCap), testMetrics),
		txn:      NewTransactionInteractor(txns, awards, lines, advisor, testMetrics),
		subaward: NewSubawardInteractor(subs, awards, testMetrics),
		budget:   NewBudgetInteractor(awards, lines, txns, subs, refresher),
	}
}

var (
	piUser      = &models.User{ID: "pi-1", Email: "pi@example.edu", Role: models.RolePI}
	otherPI     = &models.User{ID: "pi-2", Email: "other@example.edu", Role: models.RolePI}
	adminUser   = &models.User{ID: "admin-1", Email: "admin@example.edu", Role: models.RoleAdmin}
	financeUser = &models.User{ID: "fin-1", Email: "finance@example.edu", Role: models.RoleFinance}
)

// approvedAward walks an award through the full lifecycle so the tests start
// from seeded budget lines.
func approvedAward(t *testing.T, env *testEnv, owner *models.User, amount string, breakdown models.Breakdown) *models.Award {
	t.Helper()
	ctx := context.Background()

	award, err := env.award.Create(ctx, owner, &dtos.AwardDTO{Title: "Study", Amount: amount, Breakdown: breakdown})
	require.NoError(t, err)
	require.NoError(t, env.award.Submit(ctx, owner, award.ID))
	require.NoError(t, env.award.Approve(ctx, adminUser, award.ID))

	award, err = env.awards.GetByID(ctx, award.ID)
	require.NoError(t, err)
	return award
}
