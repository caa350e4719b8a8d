package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/storefront/internal/order/application"
	"github.com/dmehra2102/storefront/internal/order/domain"
	"github.com/dmehra2102/storefront/pkg/httperr"
	"github.com/dmehra2102/storefront/pkg/tenancy"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// Placer runs the placement flow. created is false when the key had
// already produced an order.
type Placer interface {
	Place(ctx context.Context, tenantID, userID, idempotencyKey string) (o domain.Order, created bool, err error)
}

type Handler struct {
	log     *slog.Logger
	service *application.Service
	placer  Placer
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service, placer Placer) *Handler {
	return &Handler{
		log:     log,
		service: service,
		placer:  placer,
		tracer:  otel.Tracer("order-http"),
	}
}

// Routes expects tenancy.Middleware and tenancy.RequireUser to run first.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.placeOrder)
	r.Get("/{id}", h.getOrder)
	return r
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlaceOrder")
	defer span.End()

	key := r.Header.Get(IdempotencyKeyHeader)
	if key == "" {
		httperr.Write(w, r, h.log, domain.ErrIdempotencyKeyRequired)
		return
	}
	id := tenancy.FromContext(ctx)
	span.SetAttributes(attribute.String("tenant.id", id.TenantID))

	o, created, err := h.placer.Place(ctx, id.TenantID, id.UserID, key)
	if err != nil {
		span.RecordError(err)
		httperr.Write(w, r.WithContext(ctx), h.log, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httperr.JSON(w, status, o)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := tenancy.FromContext(r.Context())
	o, err := h.service.GetOrder(r.Context(), id.TenantID, chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}
	httperr.JSON(w, http.StatusOK, o)
}
