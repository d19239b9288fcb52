package repositories

import (
	"context"

	"github.com/grandguard/budget-service/internal/domain/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}
