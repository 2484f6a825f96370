package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"freecode/internal/api/middleware"
	"freecode/internal/app/service"
	"freecode/internal/common"
	"freecode/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ExecutionHandler struct {
	execService *service.ExecutionJobService
}

func NewExecutionHandler(es *service.ExecutionJobService) *ExecutionHandler {
	return &ExecutionHandler{execService: es}
}

// RegisterRoutes expects an authenticated router.
func (h *ExecutionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/run", h.run)
	r.Post("/submit", h.submit)
	r.Get("/history", h.history)
}

type executeFunc func(ctx context.Context, userID string, req service.ExecuteCodeRequest) (*model.ExecutionJob, error)

func execute(w http.ResponseWriter, r *http.Request, fn executeFunc) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, common.ErrUnauthorized)
		return
	}

	var req service.ExecuteCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, common.ErrValidation)
		return
	}

	job, err := fn(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, job)
}

func (h *ExecutionHandler) run(w http.ResponseWriter, r *http.Request) {
	execute(w, r, h.execService.RunCode)
}

func (h *ExecutionHandler) submit(w http.ResponseWriter, r *http.Request) {
	execute(w, r, h.execService.SubmitCode)
}

func (h *ExecutionHandler) history(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, common.ErrUnauthorized)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	jobs, err := h.execService.ListHistory(r.Context(), userID, limit)
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, jobs)
}
