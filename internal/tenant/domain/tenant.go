package domain

import (
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/dmehra2102/storefront/pkg/apperr"
)

var (
	ErrTenantAlreadyExists = apperr.New("TENANT_ALREADY_EXISTS", http.StatusConflict, "tenant already exists")
	ErrInvalidTenant       = apperr.New("INVALID_TENANT_REQUEST", http.StatusBadRequest, "tenant name is required")
)

type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

func New(id, name string, now time.Time) (Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tenant{}, ErrInvalidTenant
	}
	return Tenant{
		ID:        id,
		Name:      name,
		Slug:      Slugify(name),
		Active:    true,
		CreatedAt: now.UTC(),
	}, nil
}

// Slugify lower-cases the trimmed name and collapses each whitespace run
// into a single underscore.
func Slugify(name string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
