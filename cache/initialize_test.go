package cache

import (
	"testing"
	"time"

	"ecommerce-sessions/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := InitializeCache(config.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(store.Close)
	return store, mr
}

func TestRedisStore_RoundTripsBytes(t *testing.T) {
	store, _ := newTestStore(t)

	tests := []struct {
		name  string
		value string
	}{
		{"json object", `{"id":7,"email":"ana@example.com","password":"$2a$12$abc"}`},
		{"json number", `42`},
		{"plain text", `not json at all`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store.Set("user:7", []byte(tt.value), time.Minute)

			got, ok := store.Get("user:7")
			require.True(t, ok)
			assert.Equal(t, tt.value, string(got))
		})
	}
}

func TestRedisStore_MissingAndDeleted(t *testing.T) {
	store, _ := newTestStore(t)

	_, ok := store.Get("user:1")
	assert.False(t, ok)

	store.Set("user:1", []byte(`{"id":1}`), time.Minute)
	store.Delete("user:1")
	_, ok = store.Get("user:1")
	assert.False(t, ok)
}

func TestRedisStore_Expires(t *testing.T) {
	store, mr := newTestStore(t)

	store.Set("user:1", []byte(`{"id":1}`), time.Minute)
	mr.FastForward(2 * time.Minute)

	_, ok := store.Get("user:1")
	assert.False(t, ok)
}
