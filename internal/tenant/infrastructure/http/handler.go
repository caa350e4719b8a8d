package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmehra2102/storefront/internal/tenant/application"
	"github.com/dmehra2102/storefront/pkg/httperr"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

type createTenantReq struct {
	Name string `json:"name"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.list)
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTenantReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest(w, "invalid body")
		return
	}
	t, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}
	httperr.JSON(w, http.StatusCreated, t)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.service.List(r.Context())
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}
	httperr.JSON(w, http.StatusOK, tenants)
}
