package handlers

import (
	"context"

	"github.com/grandguard/budget-service/internal/domain/models"
)

// transitionOp is the shape of every state-transition use case: an actor
// and the target's id.
type transitionOp func(ctx context.Context, actor *models.User, id string) error
