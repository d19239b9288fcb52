package di

import (
	"fmt"

	"github.com/grandguard/budget-service/internal/config"
	"github.com/grandguard/budget-service/internal/infrastructure/api/handlers"
	"github.com/grandguard/budget-service/internal/infrastructure/compliance"
	"github.com/grandguard/budget-service/internal/infrastructure/database/repositories"
	"github.com/grandguard/budget-service/internal/metrics"
	"github.com/grandguard/budget-service/internal/usecases/interactor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Container struct {
	AwardHandler       *handlers.AwardHandler
	TransactionHandler *handlers.TransactionHandler
	SubawardHandler    *handlers.SubawardHandler
	BudgetHandler      *handlers.BudgetHandler
	UserInteractor     *interactor.UserInteractor
}

// NewContainer creates a new Container instance.
func NewContainer(db *pgxpool.Pool, cfg *config.Config) (*Container, error) {
	poolCap, err := decimal.NewFromString(cfg.Pool.Cap)
	if err != nil {
		return nil, fmt.Errorf("invalid pool cap %q: %w", cfg.Pool.Cap, err)
	}

	awardRepository := repositories.NewAwardRepositoryImpl(db)
	lineRepository := repositories.NewBudgetLineRepositoryImpl(db)
	transactionRepository := repositories.NewTransactionRepositoryImpl(db)
	subawardRepository := repositories.NewSubawardRepositoryImpl(db)
	userRepository := repositories.NewUserRepositoryImpl(db)

	m := metrics.New()
	advisor := compliance.NewAdvisor(cfg.Compliance)
	refresher := interactor.NewAllocationRefresher(lineRepository, subawardRepository)

	awardInteractor := interactor.NewAwardInteractor(awardRepository, refresher, poolCap, m)
	transactionInteractor := interactor.NewTransactionInteractor(transactionRepository, awardRepository, lineRepository, advisor, m)
	subawardInteractor := interactor.NewSubawardInteractor(subawardRepository, awardRepository, m)
	budgetInteractor := interactor.NewBudgetInteractor(awardRepository, lineRepository, transactionRepository, subawardRepository, refresher)
	userInteractor := interactor.NewUserInteractor(userRepository)

	return &Container{
		AwardHandler:       handlers.NewAwardHandler(awardInteractor),
		TransactionHandler: handlers.NewTransactionHandler(transactionInteractor),
		SubawardHandler:    handlers.NewSubawardHandler(subawardInteractor),
		BudgetHandler:      handlers.NewBudgetHandler(budgetInteractor),
		UserInteractor:     userInteractor,
	}, nil
}
