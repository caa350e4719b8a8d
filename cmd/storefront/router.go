package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	cartapp "github.com/dmehra2102/storefront/internal/cart/application"
	carthttp "github.com/dmehra2102/storefront/internal/cart/infrastructure/http"
	catalogapp "github.com/dmehra2102/storefront/internal/catalog/application"
	cataloghttp "github.com/dmehra2102/storefront/internal/catalog/infrastructure/http"
	"github.com/dmehra2102/storefront/internal/config"
	invapp "github.com/dmehra2102/storefront/internal/inventory/application"
	orchestrator "github.com/dmehra2102/storefront/internal/orchestrator/application"
	orderapp "github.com/dmehra2102/storefront/internal/order/application"
	orderhttp "github.com/dmehra2102/storefront/internal/order/infrastructure/http"
	"github.com/dmehra2102/storefront/internal/pricing"
	tenantapp "github.com/dmehra2102/storefront/internal/tenant/application"
	tenanthttp "github.com/dmehra2102/storefront/internal/tenant/infrastructure/http"
	"github.com/dmehra2102/storefront/pkg/httperr"
	"github.com/dmehra2102/storefront/pkg/tenancy"
)

// newRouter assembles the services over s and exposes them over HTTP. guard
// may be nil.
func newRouter(log *slog.Logger, cfg config.Config, s *stores, guard orchestrator.InFlightGuard) http.Handler {
	engine := pricing.NewEngine(cfg.Pricing.ItemRules(), cfg.Pricing.CartRules())
	logPricing(log, engine)

	tenants := tenantapp.NewService(log, s.tenants)
	catalog := catalogapp.NewService(log, s.products)
	carts := cartapp.NewService(log, s.carts, catalog, engine, cartapp.WithSaveAttempts(cfg.CartSaveAttempts))
	orders := orderapp.NewService(log, s.orders)
	stock := invapp.NewService(log, s.stock)

	opts := []orchestrator.Option{orchestrator.WithCompensation(cfg.CompensateOnAbort)}
	if guard != nil {
		opts = append(opts, orchestrator.WithGuard(guard))
	}
	coordinator := orchestrator.NewCoordinator(log, orders, carts, stock, opts...)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httperr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Mount("/admin/tenants", tenanthttp.NewHandler(log, tenants).Routes())

	r.Group(func(r chi.Router) {
		r.Use(tenancy.Middleware)
		r.Mount("/products", cataloghttp.NewHandler(log, catalog).Routes())

		r.Group(func(r chi.Router) {
			r.Use(tenancy.RequireUser)
			r.Mount("/cart", carthttp.NewHandler(log, carts).Routes())
			r.Mount("/orders", orderhttp.NewHandler(log, orders, coordinator).Routes())
		})
	})
	return r
}

func logPricing(log *slog.Logger, engine *pricing.Engine) {
	var items, carts []string
	for _, r := range engine.ItemRules() {
		items = append(items, r.String())
	}
	for _, r := range engine.CartRules() {
		carts = append(carts, r.Name)
	}
	log.Info("pricing rules loaded", "item_rules", items, "cart_rules", carts)
}

func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			id := tenancy.Identity{
				TenantID: r.Header.Get(tenancy.TenantHeader),
				UserID:   r.Header.Get(tenancy.UserHeader),
			}
			attrs := append([]any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			}, tenancy.LogAttrs(id)...)
			log.DebugContext(r.Context(), "http request", attrs...)
		})
	}
}
