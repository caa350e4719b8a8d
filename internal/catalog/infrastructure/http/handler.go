package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/storefront/internal/catalog/application"
	"github.com/dmehra2102/storefront/internal/catalog/domain"
	"github.com/dmehra2102/storefront/pkg/httperr"
	"github.com/dmehra2102/storefront/pkg/tenancy"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

type createProductReq struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"basePrice"`
	Inventory int             `json:"inventory"`
}

// Routes expects tenancy.Middleware to run first.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.list)
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest(w, "invalid body")
		return
	}
	id := tenancy.FromContext(r.Context())
	p, err := h.service.Create(r.Context(), id.TenantID, application.CreateProduct{
		SKU:       req.SKU,
		Name:      req.Name,
		BasePrice: req.BasePrice,
		Inventory: req.Inventory,
	})
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}
	httperr.JSON(w, http.StatusCreated, p)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}
	page, err := h.service.List(r.Context(), tenancy.FromContext(r.Context()).TenantID, f)
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}
	httperr.JSON(w, http.StatusOK, page)
}

func parseFilter(q url.Values) (domain.Filter, error) {
	f := domain.Filter{
		SKU:    q.Get("sku"),
		Name:   q.Get("name"),
		SortBy: domain.SortField(q.Get("sortBy")),
	}
	switch strings.ToLower(q.Get("direction")) {
	case "", "asc":
	case "desc":
		f.Desc = true
	default:
		return f, domain.ErrInvalidProductRequest.Withf("direction must be asc or desc")
	}

	var err error
	if f.MinPrice, err = decimalParam(q, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = decimalParam(q, "maxPrice"); err != nil {
		return f, err
	}
	if v := q.Get("inStock"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, domain.ErrInvalidProductRequest.Withf("inStock must be a boolean")
		}
		f.InStock = &b
	}
	if f.Limit, err = intParam(q, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = intParam(q, "offset"); err != nil {
		return f, err
	}
	if q.Has("limit") && f.Limit == 0 {
		return f, domain.ErrInvalidProductRequest.Withf("limit must be positive")
	}
	return f, nil
}

func decimalParam(q url.Values, key string) (*decimal.Decimal, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, domain.ErrInvalidProductRequest.Withf("%s must be a number", key)
	}
	return &d, nil
}

func intParam(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.ErrInvalidProductRequest.Withf("%s must be an integer", key)
	}
	return n, nil
}
