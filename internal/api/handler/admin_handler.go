package handler

import (
	"net/http"

	"freecode/internal/app/service"
	"freecode/internal/common"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	authService *service.AuthService
}

func NewAdminHandler(authService *service.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users/{email}", h.getUser)
}

func (h *AdminHandler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.GetUserByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}
