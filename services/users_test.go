package services

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"ecommerce-sessions/auth"
	"ecommerce-sessions/cache"
	"ecommerce-sessions/config"
	"ecommerce-sessions/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memStore) Set(key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *memStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every connection gets its own :memory: database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../database/migrations/20250601120000_create_users.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)
	return db
}

func newTestService(t *testing.T) (*UserService, *sqlx.DB, *memStore) {
	t.Helper()
	db := newTestDB(t)
	store := newMemStore()
	return NewUserService(db, store), db, store
}

func createTestUser(t *testing.T, svc *UserService) *models.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), models.User{
		FirstName: "Ana",
		LastName:  "Diaz",
		Email:     "ana@example.com",
		Age:       31,
		Password:  "Passw0rd!",
	})
	require.NoError(t, err)
	return user
}

func TestUserService_CreateAndGetByEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created := createTestUser(t, svc)
	assert.NotZero(t, created.ID)
	assert.Equal(t, models.RoleUser, created.Role)
	assert.NotEqual(t, "Passw0rd!", created.Password)

	got, err := svc.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Ana", got.FirstName)
	assert.Equal(t, 31, got.Age)
	assert.True(t, auth.IsValidPassword("Passw0rd!", got))

	missing, err := svc.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserService_CreateDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	createTestUser(t, svc)

	_, err := svc.CreateUser(context.Background(), models.User{Email: "ana@example.com", Password: "x"})
	require.Error(t, err)
}

func TestUserService_GetUserByIDUsesCache(t *testing.T) {
	svc, db, store := newTestService(t)
	ctx := context.Background()
	created := createTestUser(t, svc)

	first, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, first)
	_, cached := store.Get(userKey(created.ID))
	assert.True(t, cached)

	// a change behind the service's back is invisible until the entry is dropped
	_, err = db.Exec("UPDATE users SET first_name = 'Changed' WHERE id = ?", created.ID)
	require.NoError(t, err)

	second, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", second.FirstName)
	assert.Equal(t, first.Password, second.Password, "cache keeps the password hash")

	missing, err := svc.GetUserByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserService_GetUserByIDHitsRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	store := cache.InitializeCache(config.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(store.Close)

	db := newTestDB(t)
	svc := NewUserService(db, store)
	ctx := context.Background()
	created := createTestUser(t, svc)

	first, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(userKey(created.ID)))

	_, err = db.Exec("UPDATE users SET first_name = 'Changed' WHERE id = ?", created.ID)
	require.NoError(t, err)

	second, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", second.FirstName)
	assert.Equal(t, first.Password, second.Password)
	assert.True(t, mr.Exists(userKey(created.ID)), "a decodable entry must not be dropped")
}

func TestUserService_UpdateUser(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()
	created := createTestUser(t, svc)

	_, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateUser(ctx, created.ID, created.WithRole(models.RolePremium)))

	_, cached := store.Get(userKey(created.ID))
	assert.False(t, cached, "update must invalidate the cache entry")

	got, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RolePremium, got.Role)
	assert.True(t, auth.IsValidPassword("Passw0rd!", got), "UpdateUser leaves the password alone")
}

func TestUserService_UpdateUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.UpdateUser(context.Background(), 404, models.User{Email: "x@example.com", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = svc.UpdateUserPassword(context.Background(), 404, models.User{Password: "Passw0rd!"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateUserPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	created := createTestUser(t, svc)

	require.NoError(t, svc.UpdateUserPassword(ctx, created.ID, created.WithPassword("N3wPass!word")))

	got, err := svc.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, auth.IsValidPassword("N3wPass!word", got))
	assert.False(t, auth.IsValidPassword("Passw0rd!", got))
	assert.NotEqual(t, "N3wPass!word", got.Password)
}
