package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/grandguard/budget-service/internal/errors"
	http2 "github.com/grandguard/budget-service/internal/infrastructure/api/http"
	"github.com/grandguard/budget-service/internal/usecases/interactor"
	"github.com/grandguard/budget-service/pkg/log"
)

type contextKey string

const userContextKey contextKey = "user"

// UserValidationMiddleware resolves the X-User-ID header to a user and
// stores it on the request context. Requests without a known user never
// reach a handler.
func UserValidationMiddleware(userInt *interactor.UserInteractor) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := log.GetLogger()
			userID := r.Header.Get(http2.UserIDHeader)
			if userID == "" {
				logger.Error().Msg(errors.ErrUserIDRequired)
				errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrUserIDRequired))
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			user, err := userInt.GetByID(ctx, userID)
			if err != nil || user == nil {
				logger.Error().Msg(errors.ErrInvalidUserID)
				errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrInvalidUserID))
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
		})
	}
}

// UserFromContext returns the user stored by UserValidationMiddleware.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}
