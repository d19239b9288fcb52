package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/grandguard/budget-service/internal/errors"
	http2 "github.com/grandguard/budget-service/internal/infrastructure/api/http"
	"github.com/grandguard/budget-service/internal/infrastructure/api/middlewares"
	"github.com/grandguard/budget-service/internal/usecases/interactor"
	"github.com/grandguard/budget-service/pkg/log"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type BudgetHandler struct {
	interactor *interactor.BudgetInteractor
	logger     *zerolog.Logger
}

func NewBudgetHandler(interactor *interactor.BudgetInteractor) *BudgetHandler {
	logger := log.GetLogger()
	return &BudgetHandler{interactor: interactor, logger: &logger}
}

func (h *BudgetHandler) Status(w http.ResponseWriter, r *http.Request) {
	actor := middlewares.UserFromContext(r.Context())
	status, err := h.interactor.Status(r.Context(), actor, chi.URLParam(r, http2.AwardIDParam))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get budget status")
		errors.HandleHTTPError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(status)
}

func (h *BudgetHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	actor := middlewares.UserFromContext(r.Context())
	if err := h.interactor.Recompute(r.Context(), actor, chi.URLParam(r, http2.AwardIDParam)); err != nil {
		errors.HandleHTTPError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
