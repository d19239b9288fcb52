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

func TestAwardCreate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("1000000")

	t.Run("creates a draft and rounds the amount", func(t *testing.T) {
		award, err := env.award.Create(ctx, piUser, &dtos.AwardDTO{Title: "Study", Amount: "10000.005"})

		require.NoError(t, err)
		assert.Equal(t, models.AwardDraft, award.Status)
		assert.Equal(t, piUser.ID, award.CreatedBy)
		assert.True(t, award.Amount.Equal(d("10000.01")))
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		var badRequest *apperrors.BadRequestError

		_, err := env.award.Create(ctx, piUser, &dtos.AwardDTO{Title: "", Amount: "10"})
		require.ErrorAs(t, err, &badRequest)

		_, err = env.award.Create(ctx, piUser, &dtos.AwardDTO{Title: "Study", Amount: "0"})
		require.ErrorAs(t, err, &badRequest)

		_, err = env.award.Create(ctx, piUser, &dtos.AwardDTO{Title: "Study", Amount: "not money"})
		require.ErrorAs(t, err, &badRequest)
	})
}

func TestAwardSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("moves a draft into the approval queue", func(t *testing.T) {
		env := newTestEnv("1000000")
		award, err := env.award.Create(ctx, piUser, &dtos.AwardDTO{Title: "Study", Amount: "10000"})
		require.NoError(t, err)

		require.NoError(t, env.award.Submit(ctx, piUser, award.ID))
		assert.Equal(t, models.AwardPending, env.awards.awards[award.ID].Status)
	})

	t.Run("fails on a second submit", func(t *testing.T) {
		env := newTestEnv("1000000")
		award, err := env.award.Create(ctx, piUser, &dtos.AwardDTO{Title: "Study", Amount: "10000"})
		require.NoError(t, err)
		require.NoError(t, env.award.Submit(ctx, piUser, award.ID))

		var conflict *apperrors.StateConflictError
		require.ErrorAs(t, env.award.Submit(ctx, piUser, award.ID), &conflict)
	})

	t.Run("only the owner may submit", func(t *testing.T) {
		env := newTestEnv("1000000")
		award, err := env.award.Create(ctx, piUser, &dtos.AwardDTO{Title: "Study", Amount: "10000"})
		require.NoError(t, err)

		var forbidden *apperrors.ForbiddenError
		require.ErrorAs(t, env.award.Submit(ctx, otherPI, award.ID), &forbidden)
	})
}

func TestAwardApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("approves within the pool and seeds the budget lines", func(t *testing.T) {
		env := newTestEnv("1000000")
		award := approvedAward(t, env, piUser, "10000", materialsBreakdown("2000"))

		assert.Equal(t, models.AwardApproved, award.Status)

		lines, err := env.lines.ListByAward(ctx, award.ID)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.True(t, env.lines.get(award.ID, models.CategoryMaterials).Allocated.Equal(d("2000")))
		assert.True(t, env.lines.get(award.ID, models.CategoryOther).Allocated.Equal(d("8000")))
	})

	t.Run("rejects an award that would exceed the pool cap", func(t *testing.T) {
		env := newTestEnv("15000")
		approvedAward(t, env, piUser, "10000", models.Breakdown{})

		second, err := env.award.Create(ctx, piUser, &dtos.AwardDTO{Title: "Second", Amount: "6000"})
		require.NoError(t, err)
		require.NoError(t, env.award.Submit(ctx, piUser, second.ID))

		err = env.award.Approve(ctx, adminUser, second.ID)
		var poolErr *apperrors.PoolExceededError
		require.ErrorAs(t, err, &poolErr)
		assert.True(t, poolErr.Remaining.Equal(d("5000")))
		assert.True(t, poolErr.Required.Equal(d("6000")))

		assert.Equal(t, models.AwardPending, env.awards.awards[second.ID].Status)
	})

	t.Run("a declined award frees its pool share", func(t *testing.T) {
		env := newTestEnv("15000")
		first := approvedAward(t, env, piUser, "10000", models.Breakdown{})

		// no UI path declines an approved award; flip it directly
		env.awards.awards[first.ID].Status = models.AwardDeclined

		second, err := env.award.Create(ctx, piUser, &dtos.AwardDTO{Title: "Second", Amount: "6000"})
		require.NoError(t, err)
		require.NoError(t, env.award.Submit(ctx, piUser, second.ID))
		require.NoError(t, env.award.Approve(ctx, adminUser, second.ID))
	})

	t.Run("only admins may approve", func(t *testing.T) {
		env := newTestEnv("1000000")
		award, err := env.award.Create(ctx, piUser, &dtos.AwardDTO{Title: "Study", Amount: "10000"})
		require.NoError(t, err)
		require.NoError(t, env.award.Submit(ctx, piUser, award.ID))

		var forbidden *apperrors.ForbiddenError
		require.ErrorAs(t, env.award.Approve(ctx, financeUser, award.ID), &forbidden)
		require.ErrorAs(t, env.award.Approve(ctx, piUser, award.ID), &forbidden)
	})

	t.Run("fails on a draft award", func(t *testing.T) {
		env := newTestEnv("1000000")
		award, err := env.award.Create(ctx, piUser, &dtos.AwardDTO{Title: "Study", Amount: "10000"})
		require.NoError(t, err)

		var conflict *apperrors.StateConflictError
		require.ErrorAs(t, env.award.Approve(ctx, adminUser, award.ID), &conflict)
	})
}

func TestAwardDecline(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("1000000")

	award, err := env.award.Create(ctx, piUser, &dtos.AwardDTO{Title: "Study", Amount: "10000"})
	require.NoError(t, err)
	require.NoError(t, env.award.Submit(ctx, piUser, award.ID))

	require.NoError(t, env.award.Decline(ctx, adminUser, award.ID))
	assert.Equal(t, models.AwardDeclined, env.awards.awards[award.ID].Status)

	var conflict *apperrors.StateConflictError
	require.ErrorAs(t, env.award.Decline(ctx, adminUser, award.ID), &conflict)
}

func TestAwardUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("an edit of an approved award re-derives the allocations", func(t *testing.T) {
		env := newTestEnv("1000000")
		award := approvedAward(t, env, piUser, "10000", materialsBreakdown("2000"))

		_, err := env.award.Update(ctx, piUser, award.ID, &dtos.AwardDTO{
			Title:     "Study, amended",
			Amount:    "10000",
			Breakdown: materialsBreakdown("3000"),
		})
		require.NoError(t, err)

		assert.True(t, env.lines.get(award.ID, models.CategoryMaterials).Allocated.Equal(d("3000")))
		assert.True(t, env.lines.get(award.ID, models.CategoryOther).Allocated.Equal(d("7000")))
	})

	t.Run("an edit never touches spent or committed", func(t *testing.T) {
		env := newTestEnv("1000000")
		award := approvedAward(t, env, piUser, "10000", materialsBreakdown("2000"))
		txn, err := env.txn.Create(ctx, piUser, award.ID, &dtos.TransactionDTO{
			Category: "Materials", Description: "tips", Amount: "1500",
		})
		require.NoError(t, err)
		require.NoError(t, env.txn.Approve(ctx, adminUser, txn.ID))

		_, err = env.award.Update(ctx, piUser, award.ID, &dtos.AwardDTO{
			Title:     "Study, amended",
			Amount:    "10000",
			Breakdown: materialsBreakdown("1000"),
		})
		require.NoError(t, err)

		line := env.lines.get(award.ID, models.CategoryMaterials)
		assert.True(t, line.Allocated.Equal(d("1000")))
		assert.True(t, line.Committed.Equal(d("1500")))
		// over-committed line: remaining goes negative and blocks new requests
		assert.True(t, line.Remaining().Equal(d("-500")))
	})

	t.Run("only the owner may edit", func(t *testing.T) {
		env := newTestEnv("1000000")
		award, err := env.award.Create(ctx, piUser, &dtos.AwardDTO{Title: "Study", Amount: "10000"})
		require.NoError(t, err)

		_, err = env.award.Update(ctx, otherPI, award.ID, &dtos.AwardDTO{Title: "Hijack", Amount: "1"})
		var forbidden *apperrors.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
	})
}

func TestAwardDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("1000000")

	draft, err := env.award.Create(ctx, piUser, &dtos.AwardDTO{Title: "Draft", Amount: "100"})
	require.NoError(t, err)
	require.NoError(t, env.award.Delete(ctx, piUser, draft.ID))
	assert.NotContains(t, env.awards.awards, draft.ID)

	approved := approvedAward(t, env, piUser, "10000", models.Breakdown{})
	var conflict *apperrors.StateConflictError
	require.ErrorAs(t, env.award.Delete(ctx, piUser, approved.ID), &conflict)
}

func TestAwardListVisibility(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("1000000")

	_, err := env.award.Create(ctx, piUser, &dtos.AwardDTO{Title: "Mine", Amount: "100"})
	require.NoError(t, err)
	_, err = env.award.Create(ctx, otherPI, &dtos.AwardDTO{Title: "Theirs", Amount: "100"})
	require.NoError(t, err)

	mine, err := env.award.List(ctx, piUser)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := env.award.List(ctx, financeUser)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
