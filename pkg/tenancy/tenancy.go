// Package tenancy carries the caller's tenant and user identifiers through a
// request. Resolution and authentication happen upstream; this package only
// moves the resolved values from headers into explicit parameters.
package tenancy

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmehra2102/storefront/pkg/apperr"
	"github.com/dmehra2102/storefront/pkg/httperr"
)

const (
	TenantHeader = "X-Tenant-ID"
	UserHeader   = "X-User-ID"
)

// ErrTenantContextMissing means a core operation was invoked without a
// tenant. It is a wiring fault, never a user input problem.
var ErrTenantContextMissing = apperr.New("TENANT_CONTEXT_MISSING", http.StatusInternalServerError, "tenant context missing")

type Identity struct {
	TenantID string
	UserID   string
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}

// Require checks the identifiers every cart and order operation needs.
func Require(tenantID, userID string) error {
	if tenantID == "" {
		return ErrTenantContextMissing
	}
	if userID == "" {
		return ErrTenantContextMissing.Withf("user id missing for tenant %s", tenantID)
	}
	return nil
}

// Middleware rejects requests without a tenant header and stores the
// identity on the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.Header.Get(TenantHeader)
		if tenantID == "" {
			httperr.WriteCode(w, http.StatusBadRequest, "TENANT_REQUIRED", "missing "+TenantHeader+" header")
			return
		}
		id := Identity{TenantID: tenantID, UserID: r.Header.Get(UserHeader)}
		ctx := WithIdentity(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser must be mounted after Middleware on routes that act on behalf
// of a user.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()).UserID == "" {
			httperr.WriteCode(w, http.StatusUnauthorized, "USER_REQUIRED", "missing "+UserHeader+" header")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LogAttrs returns the identity as slog attributes.
func LogAttrs(id Identity) []any {
	return []any{slog.String("tenant_id", id.TenantID), slog.String("user_id", id.UserID)}
}
