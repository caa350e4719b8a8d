package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "acme", Slugify("Acme"))
	assert.Equal(t, "acme_corp", Slugify("  Acme   Corp "))
	assert.Equal(t, "a_b_c", Slugify("A\tB\n C"))
}

func TestNew(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tn, err := New("t-1", " Big Shop ", now)
	require.NoError(t, err)
	assert.Equal(t, "Big Shop", tn.Name)
	assert.Equal(t, "big_shop", tn.Slug)
	assert.True(t, tn.Active)
	assert.Equal(t, now, tn.CreatedAt)

	_, err = New("t-2", "   ", now)
	assert.True(t, errors.Is(err, ErrInvalidTenant))
}
