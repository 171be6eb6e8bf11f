package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/winmix-match-service/internal/model"
)

func TestWithID(t *testing.T) {
	t.Run("empty gets a random uuid", func(t *testing.T) {
		got := withID(model.RawRow{})
		assert.NoError(t, uuid.Validate(got.ID))
	})

	t.Run("uuid is kept", func(t *testing.T) {
		id := uuid.NewString()
		assert.Equal(t, id, withID(model.RawRow{ID: id}).ID)
	})

	t.Run("foreign id maps deterministically", func(t *testing.T) {
		a := withID(model.RawRow{ID: "42"})
		b := withID(model.RawRow{ID: "42"})
		c := withID(model.RawRow{ID: "43"})
		assert.NoError(t, uuid.Validate(a.ID))
		assert.Equal(t, a.ID, b.ID)
		assert.NotEqual(t, a.ID, c.ID)
	})
}

func TestEnsurePool(t *testing.T) {
	assert.Error(t, ensurePool(nil))
	_, err := NewMatchRepository(nil).ListRaw(t.Context())
	assert.Error(t, err)
}
