package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	inErrors "github.com/fauzankm/storefront/internal/errors"
)

func TestMemoryStore(t *testing.T) {
	t.Run("given stored key should return its value", func(t *testing.T) {
		store := NewMemoryStore()
		assert.NoError(t, store.Set(context.Background(), "key", []byte("value"), 0))

		actual, err := store.Get(context.Background(), "key")

		assert.NoError(t, err)
		assert.EqualValues(t, []byte("value"), actual)
	})
	t.Run("given missing key should return key not found", func(t *testing.T) {
		store := NewMemoryStore()

		_, err := store.Get(context.Background(), "missing")

		assert.ErrorIs(t, err, inErrors.ErrKeyNotFound)
	})
	t.Run("given deleted key should return key not found", func(t *testing.T) {
		store := NewMemoryStore()
		assert.NoError(t, store.Set(context.Background(), "key", []byte("value"), 0))

		assert.NoError(t, store.Del(context.Background(), "key"))

		_, err := store.Get(context.Background(), "key")
		assert.ErrorIs(t, err, inErrors.ErrKeyNotFound)
		assert.Equal(t, 0, store.Len())
	})
	t.Run("given expired key should return key not found", func(t *testing.T) {
		store := NewMemoryStore()
		now := time.Now()
		store.nowFunc = func() time.Time { return now }
		assert.NoError(t, store.Set(context.Background(), "key", []byte("value"), time.Minute))

		store.nowFunc = func() time.Time { return now.Add(2 * time.Minute) }

		_, err := store.Get(context.Background(), "key")
		assert.ErrorIs(t, err, inErrors.ErrKeyNotFound)
	})
	t.Run("given zero ttl should never expire", func(t *testing.T) {
		store := NewMemoryStore()
		now := time.Now()
		store.nowFunc = func() time.Time { return now }
		assert.NoError(t, store.Set(context.Background(), "key", []byte("value"), 0))

		store.nowFunc = func() time.Time { return now.Add(240 * time.Hour) }

		_, err := store.Get(context.Background(), "key")
		assert.NoError(t, err)
	})
	t.Run("given mutated caller slice should keep the stored copy intact", func(t *testing.T) {
		store := NewMemoryStore()
		value := []byte("value")
		assert.NoError(t, store.Set(context.Background(), "key", value, 0))

		value[0] = 'x'

		actual, err := store.Get(context.Background(), "key")
		assert.NoError(t, err)
		assert.EqualValues(t, []byte("value"), actual)
	})
}
