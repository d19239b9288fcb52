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

type AwardHandler struct {
	interactor *interactor.AwardInteractor
	logger     *zerolog.Logger
}

func NewAwardHandler(interactor *interactor.AwardInteractor) *AwardHandler {
	logger := log.GetLogger()
	return &AwardHandler{interactor: interactor, logger: &logger}
}

func (h *AwardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto dtos.AwardDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrInvalidRequestBody))
		return
	}

	actor := middlewares.UserFromContext(r.Context())
	award, err := h.interactor.Create(r.Context(), actor, &dto)
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(award)
}

func (h *AwardHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := middlewares.UserFromContext(r.Context())
	award, err := h.interactor.Get(r.Context(), actor, chi.URLParam(r, http2.AwardIDParam))
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(award)
}

func (h *AwardHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middlewares.UserFromContext(r.Context())
	awards, err := h.interactor.List(r.Context(), actor)
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(awards)
}

func (h *AwardHandler) Update(w http.ResponseWriter, r *http.Request) {
	var dto dtos.AwardDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrInvalidRequestBody))
		return
	}

	actor := middlewares.UserFromContext(r.Context())
	award, err := h.interactor.Update(r.Context(), actor, chi.URLParam(r, http2.AwardIDParam), &dto)
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(award)
}

func (h *AwardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middlewares.UserFromContext(r.Context())
	if err := h.interactor.Delete(r.Context(), actor, chi.URLParam(r, http2.AwardIDParam)); err != nil {
		errors.HandleHTTPError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AwardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.interactor.Submit)
}

func (h *AwardHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.interactor.Approve)
}

func (h *AwardHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.interactor.Decline)
}

// lifecycle runs a status-transition operation identified only by the award
// id in the URL.
func (h *AwardHandler) lifecycle(w http.ResponseWriter, r *http.Request, op transitionOp) {
	actor := middlewares.UserFromContext(r.Context())
	if err := op(r.Context(), actor, chi.URLParam(r, http2.AwardIDParam)); err != nil {
		errors.HandleHTTPError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
