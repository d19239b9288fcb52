package interactor

import (
	"context"
	"time"

	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/grandguard/budget-service/internal/domain/repositories"
	apperrors "github.com/grandguard/budget-service/internal/errors"
	"github.com/grandguard/budget-service/internal/infrastructure/compliance"
	"github.com/grandguard/budget-service/internal/metrics"
	"github.com/grandguard/budget-service/internal/usecases/dtos"
	"github.com/grandguard/budget-service/pkg/log"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TransactionInteractor governs an expenditure request through
// Pending -> Approved -> Paid, or -> Declined. Every transition is checked
// here and applied atomically in the repository; a second transition on a
// processed transaction always fails.
type TransactionInteractor struct {
	transactionRepository repositories.TransactionRepository
	awardRepository       repositories.AwardRepository
	lineRepository        repositories.BudgetLineRepository
	advisor               compliance.PolicyAdvisor
	metrics               *metrics.Metrics
	logger                *zerolog.Logger
}

func NewTransactionInteractor(
	transactionRepository repositories.TransactionRepository,
	awardRepository repositories.AwardRepository,
	lineRepository repositories.BudgetLineRepository,
	advisor compliance.PolicyAdvisor,
	m *metrics.Metrics,
) *TransactionInteractor {
	l := log.GetLogger()
	return &TransactionInteractor{
		transactionRepository: transactionRepository,
		awardRepository:       awardRepository,
		lineRepository:        lineRepository,
		advisor:               advisor,
		metrics:               m,
		logger:                &l,
	}
}

// Create files a Pending expenditure request. The request is admitted only
// if the category has no allocation yet or the amount fits its remaining
// balance; a rejection carries the current remaining figure and mutates
// nothing.
func (i *TransactionInteractor) Create(ctx context.Context, actor *models.User, awardID string, dto *dtos.TransactionDTO) (*models.Transaction, error) {
	if dto.Description == "" {
		return nil, apperrors.NewBadRequestError("Description is required")
	}
	amount, err := parseAmount(dto.Amount)
	if err != nil {
		return nil, err
	}
	submitted, err := parseDate(dto.DateSubmitted)
	if err != nil {
		return nil, err
	}

	award, err := i.awardRepository.GetByID(ctx, awardID)
	if err != nil {
		return nil, err
	}
	if award.Status != models.AwardApproved {
		return nil, apperrors.NewStateConflictError("only approved awards can have transactions")
	}
	if !award.OwnedBy(actor) && !actor.Role.CanApprove() {
		return nil, apperrors.NewForbiddenError("no access to this award")
	}

	category, err := i.resolveCategory(ctx, awardID, dto.Category)
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		ID:            uuid.New().String(),
		AwardID:       awardID,
		UserID:        actor.ID,
		Category:      category,
		Description:   dto.Description,
		Amount:        amount,
		DateSubmitted: submitted,
		Status:        models.TransactionPending,
	}

	row, err := i.transactionRepository.CreateWithBudgetCheck(ctx, txn)
	if err != nil {
		return nil, err
	}
	if !row.Admitted {
		i.metrics.RejectBudget()
		return nil, apperrors.NewInsufficientBudgetError(row.Remaining, amount)
	}

	i.metrics.TransactionsCreated.Inc()
	return txn, nil
}

// Approve commits the transaction's amount against its category. The policy
// advisor's verdict is attached as metadata; a non-compliant verdict is
// logged but approval authority rests with the human actor.
func (i *TransactionInteractor) Approve(ctx context.Context, actor *models.User, id string) error {
	txn, award, err := i.loadForTransition(ctx, actor, id)
	if err != nil {
		return err
	}
	if txn.Status != models.TransactionPending {
		return apperrors.NewStateConflictError("transaction already processed")
	}
	if award.Status != models.AwardApproved {
		return apperrors.NewStateConflictError("award must be approved")
	}

	verdict := i.advisor.Evaluate(ctx, award, txn)
	if verdict.Verdict == models.ComplianceNonCompliant {
		i.logger.Warn().
			Str("transaction_id", id).
			Str("reason", verdict.Reason).
			Msg("approving non-compliant transaction")
	}

	if _, err = i.transactionRepository.ApproveAndCommit(ctx, id, verdict); err != nil {
		return err
	}

	i.metrics.TransactionsApproved.Inc()
	return nil
}

// Pay settles an approved transaction: its amount moves from committed to
// spent within the same category.
func (i *TransactionInteractor) Pay(ctx context.Context, actor *models.User, id string) error {
	txn, award, err := i.loadForTransition(ctx, actor, id)
	if err != nil {
		return err
	}
	if txn.Status.Terminal() {
		return apperrors.NewStateConflictError("transaction already processed")
	}
	if txn.Status != models.TransactionApproved {
		return apperrors.NewStateConflictError("transaction is not approved")
	}
	if award.Status != models.AwardApproved {
		return apperrors.NewStateConflictError("award must be approved")
	}

	if _, err = i.transactionRepository.PayAndSettle(ctx, id); err != nil {
		return err
	}

	i.metrics.TransactionsPaid.Inc()
	return nil
}

// Decline rejects a pending or approved transaction. A previously approved
// amount is released from committed; a pending one never reached the ledger.
func (i *TransactionInteractor) Decline(ctx context.Context, actor *models.User, id string) error {
	txn, _, err := i.loadForTransition(ctx, actor, id)
	if err != nil {
		return err
	}
	if txn.Status.Terminal() {
		return apperrors.NewStateConflictError("transaction already processed")
	}

	if _, err = i.transactionRepository.DeclineAndRelease(ctx, id); err != nil {
		return err
	}

	i.metrics.TransactionsDeclined.Inc()
	return nil
}

func (i *TransactionInteractor) List(ctx context.Context, actor *models.User, awardID string) ([]models.Transaction, error) {
	award, err := i.awardRepository.GetByID(ctx, awardID)
	if err != nil {
		return nil, err
	}
	if !award.OwnedBy(actor) && !actor.Role.CanApprove() {
		return nil, apperrors.NewForbiddenError("no access to this award")
	}
	return i.transactionRepository.ListByAward(ctx, awardID)
}

// resolveCategory parses the raw category and applies the reconciliation
// mapping against the award's existing budget lines, once, at creation.
func (i *TransactionInteractor) resolveCategory(ctx context.Context, awardID, raw string) (models.Category, error) {
	category, err := models.ParseCategory(raw)
	if err != nil {
		return "", apperrors.NewBadRequestError("Invalid category")
	}

	lines, err := i.lineRepository.ListByAward(ctx, awardID)
	if err != nil {
		return "", err
	}
	existing := make(map[models.Category]bool, len(lines))
	for _, line := range lines {
		existing[line.Category] = true
	}

	return category.Reconcile(func(c models.Category) bool { return existing[c] }), nil
}

func (i *TransactionInteractor) loadForTransition(ctx context.Context, actor *models.User, id string) (*models.Transaction, *models.Award, error) {
	if !actor.Role.CanApprove() {
		return nil, nil, apperrors.NewForbiddenError("only admin or finance roles may process transactions")
	}

	txn, err := i.transactionRepository.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if txn == nil {
		return nil, nil, apperrors.NewNotFoundError("Transaction")
	}

	award, err := i.awardRepository.GetByID(ctx, txn.AwardID)
	if err != nil {
		return nil, nil, err
	}
	return txn, award, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	submitted, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, apperrors.NewBadRequestError("Invalid date, expected YYYY-MM-DD")
	}
	return submitted, nil
}
