package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/storefront/internal/cart/application"
	"github.com/dmehra2102/storefront/pkg/httperr"
	"github.com/dmehra2102/storefront/pkg/tenancy"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("cart-http"),
	}
}

type addItemReq struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// Routes expects tenancy.Middleware and tenancy.RequireUser to run first.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.getCart)
	r.Post("/items", h.addItem)
	return r
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddToCart")
	defer span.End()

	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest(w, "invalid body")
		return
	}
	id := tenancy.FromContext(ctx)
	span.SetAttributes(
		attribute.String("tenant.id", id.TenantID),
		attribute.String("cart.sku", req.SKU),
		attribute.Int("cart.quantity", req.Quantity),
	)

	c, err := h.service.AddToCart(ctx, id.TenantID, id.UserID, req.SKU, req.Quantity)
	if err != nil {
		span.RecordError(err)
		httperr.Write(w, r.WithContext(ctx), h.log, err)
		return
	}
	httperr.JSON(w, http.StatusOK, c)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	id := tenancy.FromContext(r.Context())
	c, err := h.service.GetCart(r.Context(), id.TenantID, id.UserID)
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}
	httperr.JSON(w, http.StatusOK, c)
}
