package interactor

import (
	"context"

	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/grandguard/budget-service/internal/domain/repositories"
)

type UserInteractor struct {
	userRepository repositories.UserRepository
}

func NewUserInteractor(repository repositories.UserRepository) *UserInteractor {
	return &UserInteractor{userRepository: repository}
}

func (u *UserInteractor) GetByID(ctx context.Context, id string) (*models.User, error) {
	return u.userRepository.GetByID(ctx, id)
}
