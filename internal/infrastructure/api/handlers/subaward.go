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

type SubawardHandler struct {
	interactor *interactor.SubawardInteractor
	logger     *zerolog.Logger
}

func NewSubawardHandler(interactor *interactor.SubawardInteractor) *SubawardHandler {
	logger := log.GetLogger()
	return &SubawardHandler{interactor: interactor, logger: &logger}
}

func (h *SubawardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto dtos.SubawardDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrInvalidRequestBody))
		return
	}

	actor := middlewares.UserFromContext(r.Context())
	awardID := chi.URLParam(r, http2.AwardIDParam)
	sub, err := h.interactor.Create(r.Context(), actor, awardID, &dto)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create subaward")
		errors.HandleHTTPError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sub)
}

func (h *SubawardHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middlewares.UserFromContext(r.Context())
	subs, err := h.interactor.List(r.Context(), actor, chi.URLParam(r, http2.AwardIDParam))
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(subs)
}

func (h *SubawardHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.interactor.Approve)
}

func (h *SubawardHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.interactor.Decline)
}

func (h *SubawardHandler) transition(w http.ResponseWriter, r *http.Request, op transitionOp) {
	actor := middlewares.UserFromContext(r.Context())
	if err := op(r.Context(), actor, chi.URLParam(r, http2.SubawardIDParam)); err != nil {
		errors.HandleHTTPError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
