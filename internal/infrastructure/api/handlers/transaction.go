package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/grandguard/budget-service/internal/errors"
	http2 "github.com/grandguard/budget-service/internal/infrastructure/api/http"
	"github.com/grandguard/budget-service/internal/infrastructure/api/middlewares"
	"github.com/grandguard/budget-service/internal/usecases/dtos"
	"github.com/grandguard/budget-service/internal/usecases/interactor"
	"github.com/grandguard/budget-service/pkg/log"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type TransactionHandler struct {
	interactor *interactor.TransactionInteractor
	logger     *zerolog.Logger
}

func NewTransactionHandler(interactor *interactor.TransactionInteractor) *TransactionHandler {
	logger := log.GetLogger()
	return &TransactionHandler{interactor: interactor, logger: &logger}
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto dtos.TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrInvalidRequestBody))
		return
	}

	actor := middlewares.UserFromContext(r.Context())
	awardID := chi.URLParam(r, http2.AwardIDParam)
	txn, err := h.interactor.Create(r.Context(), actor, awardID, &dto)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create transaction")
		errors.HandleHTTPError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(txn)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middlewares.UserFromContext(r.Context())
	txns, err := h.interactor.List(r.Context(), actor, chi.URLParam(r, http2.AwardIDParam))
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(txns)
}

func (h *TransactionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.interactor.Approve)
}

func (h *TransactionHandler) Pay(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.interactor.Pay)
}

func (h *TransactionHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.interactor.Decline)
}

func (h *TransactionHandler) transition(w http.ResponseWriter, r *http.Request, op transitionOp) {
	actor := middlewares.UserFromContext(r.Context())
	if err := op(r.Context(), actor, chi.URLParam(r, http2.TransactionIDParam)); err != nil {
		errors.HandleHTTPError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
