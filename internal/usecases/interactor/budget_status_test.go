package interactor

import (
	"context"
	"testing"

	"github.com/grandguard/budget-service/internal/domain/models"
	apperrors "github.com/grandguard/budget-service/internal/errors"
	"github.com/grandguard/budget-service/internal/usecases/dtos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("composes the category view with totals", func(t *testing.T) {
		env := newTestEnv("1000000")
		award := approvedAward(t, env, piUser, "10000", materialsBreakdown("2000"))
		txn, err := env.txn.Create(ctx, piUser, award.ID, &dtos.TransactionDTO{
			Category: "Materials", Description: "tips", Amount: "1500",
		})
		require.NoError(t, err)
		require.NoError(t, env.txn.Approve(ctx, adminUser, txn.ID))

		status, err := env.budget.Status(ctx, piUser, award.ID)
		require.NoError(t, err)

		materials := status.Categories[models.CategoryMaterials]
		assert.True(t, materials.Allocated.Equal(d("2000")))
		assert.True(t, materials.Committed.Equal(d("1500")))
		assert.True(t, materials.Remaining.Equal(d("500")))

		assert.True(t, status.Totals.Allocated.Equal(d("10000")))
		assert.True(t, status.Totals.Committed.Equal(d("1500")))
		assert.True(t, status.Totals.Remaining.Equal(d("8500")))
	})

	t.Run("a read reflects a new subaward without an explicit refresh", func(t *testing.T) {
		env := newTestEnv("1000000")
		award := approvedAward(t, env, piUser, "10000", materialsBreakdown("2000"))

		sub, err := env.subaward.Create(ctx, piUser, award.ID, subawardDTO("3000"))
		require.NoError(t, err)

		status, err := env.budget.Status(ctx, piUser, award.ID)
		require.NoError(t, err)

		// pending subaward: allocated under Subawards, not yet committed
		assert.True(t, status.Categories[models.CategorySubawards].Allocated.Equal(d("3000")))
		assert.True(t, status.Categories[models.CategoryOther].Allocated.Equal(d("5000")))
		assert.True(t, status.Totals.Committed.IsZero())

		require.NoError(t, env.subaward.Approve(ctx, adminUser, sub.ID))

		status, err = env.budget.Status(ctx, piUser, award.ID)
		require.NoError(t, err)

		// approved subaward: its amount is an obligation of the whole award
		assert.True(t, status.Totals.Committed.Equal(d("3000")))
		assert.True(t, status.Totals.Remaining.Equal(d("7000")))
	})

	t.Run("the displayed remaining is clamped at zero", func(t *testing.T) {
		env := newTestEnv("1000000")
		award := approvedAward(t, env, piUser, "10000", materialsBreakdown("2000"))
		txn, err := env.txn.Create(ctx, piUser, award.ID, &dtos.TransactionDTO{
			Category: "Materials", Description: "tips", Amount: "1500",
		})
		require.NoError(t, err)
		require.NoError(t, env.txn.Approve(ctx, adminUser, txn.ID))

		// shrink the allocation below the committed figure
		_, err = env.award.Update(ctx, piUser, award.ID, &dtos.AwardDTO{
			Title: "Study", Amount: "10000", Breakdown: materialsBreakdown("1000"),
		})
		require.NoError(t, err)

		status, err := env.budget.Status(ctx, piUser, award.ID)
		require.NoError(t, err)
		assert.True(t, status.Categories[models.CategoryMaterials].Remaining.IsZero())
	})

	t.Run("only the owner and approvers may read the budget", func(t *testing.T) {
		env := newTestEnv("1000000")
		award := approvedAward(t, env, piUser, "10000", models.Breakdown{})

		_, err := env.budget.Status(ctx, otherPI, award.ID)
		var forbidden *apperrors.ForbiddenError
		require.ErrorAs(t, err, &forbidden)

		_, err = env.budget.Status(ctx, financeUser, award.ID)
		require.NoError(t, err)
	})
}

func TestBudgetRecompute(t *testing.T) {
	ctx := context.Background()

	t.Run("a replay restores the incremental figures", func(t *testing.T) {
		env := newTestEnv("1000000")
		award := approvedAward(t, env, piUser, "10000", materialsBreakdown("2000"))

		committed, err := env.txn.Create(ctx, piUser, award.ID, &dtos.TransactionDTO{
			Category: "Materials", Description: "tips", Amount: "1500",
		})
		require.NoError(t, err)
		require.NoError(t, env.txn.Approve(ctx, adminUser, committed.ID))

		paid, err := env.txn.Create(ctx, piUser, award.ID, &dtos.TransactionDTO{
			Category: "Materials", Description: "rotor", Amount: "500",
		})
		require.NoError(t, err)
		require.NoError(t, env.txn.Approve(ctx, adminUser, paid.ID))
		require.NoError(t, env.txn.Pay(ctx, adminUser, paid.ID))

		// corrupt the row, then replay
		env.lines.get(award.ID, models.CategoryMaterials).Spent = d("999")

		require.NoError(t, env.budget.Recompute(ctx, adminUser, award.ID))

		line := env.lines.get(award.ID, models.CategoryMaterials)
		assert.True(t, line.Spent.Equal(d("500")))
		assert.True(t, line.Committed.Equal(d("1500")))
		assert.True(t, line.Allocated.Equal(d("2000")))
	})

	t.Run("only admins may recompute", func(t *testing.T) {
		env := newTestEnv("1000000")
		award := approvedAward(t, env, piUser, "10000", models.Breakdown{})

		var forbidden *apperrors.ForbiddenError
		require.ErrorAs(t, env.budget.Recompute(ctx, financeUser, award.ID), &forbidden)
		require.ErrorAs(t, env.budget.Recompute(ctx, piUser, award.ID), &forbidden)
	})

	t.Run("fails on an unknown award", func(t *testing.T) {
		env := newTestEnv("1000000")

		var notFound *apperrors.NotFoundError
		require.ErrorAs(t, env.budget.Recompute(ctx, adminUser, "missing"), &notFound)
	})
}
