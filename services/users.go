// Package services holds the user storage service backing the session endpoints.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"ecommerce-sessions/auth"
	"ecommerce-sessions/cache"
	"ecommerce-sessions/models"

	"github.com/jmoiron/sqlx"
	"github.com/samber/oops"
)

const (
	userKeyPrefix = "user:"
	userCacheTTL  = 10 * time.Minute
)

// ErrUserNotFound is returned by updates that match no row
var ErrUserNotFound = errors.New("user not found")

const userColumns = "id, first_name, last_name, email, age, password, role, created_at, updated_at"

// cachedUser keeps the password hash, which models.User hides from JSON
type cachedUser struct {
	models.User
	Password string `json:"password"`
}

// UserService reads and writes users in sqlite, caching lookups by id
type UserService struct {
	db    *sqlx.DB
	cache cache.Store
}

// NewUserService creates the user service
func NewUserService(db *sqlx.DB, store cache.Store) *UserService {
	return &UserService{
		db:    db,
		cache: store,
	}
}

// GetUserByEmail returns the user with that email, or nil when there is none
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("USER_LOOKUP_FAILED").With("email", email).Wrap(err)
	}
	return &user, nil
}

// GetUserByID returns the user with that id, or nil when there is none
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	key := userKey(id)
	if raw, ok := s.cache.Get(key); ok {
		var cached cachedUser
		if err := json.Unmarshal(raw, &cached); err == nil {
			user := cached.User
			user.Password = cached.Password
			return &user, nil
		}
		s.cache.Delete(key)
	}

	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("USER_LOOKUP_FAILED").With("user_id", id).Wrap(err)
	}

	if raw, err := json.Marshal(cachedUser{User: user, Password: user.Password}); err == nil {
		s.cache.Set(key, raw, userCacheTTL)
	}
	return &user, nil
}

// CreateUser hashes the plaintext password and inserts the user
func (s *UserService) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	hash, err := auth.HashPassword(user.Password)
	if err != nil {
		return nil, oops.Code("USER_CREATE_FAILED").With("email", user.Email).Wrap(err)
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	now := time.Now().UTC()
	user.Password = hash
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := s.db.NamedExecContext(ctx,
		`INSERT INTO users (first_name, last_name, email, age, password, role, created_at, updated_at)
		 VALUES (:first_name, :last_name, :email, :age, :password, :role, :created_at, :updated_at)`, user)
	if err != nil {
		return nil, oops.Code("USER_CREATE_FAILED").With("email", user.Email).Wrap(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, oops.Code("USER_CREATE_FAILED").With("email", user.Email).Wrap(err)
	}
	user.ID = id
	return &user, nil
}

// UpdateUser writes the full record except the password
func (s *UserService) UpdateUser(ctx context.Context, id int64, user models.User) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, email = ?, age = ?, role = ?, updated_at = ? WHERE id = ?`,
		user.FirstName, user.LastName, user.Email, user.Age, user.Role, time.Now().UTC(), id)
	if err != nil {
		return oops.Code("USER_UPDATE_FAILED").With("user_id", id).Wrap(err)
	}
	return s.afterWrite(result, id)
}

// UpdateUserPassword hashes user.Password and stores it
func (s *UserService) UpdateUserPassword(ctx context.Context, id int64, user models.User) error {
	hash, err := auth.HashPassword(user.Password)
	if err != nil {
		return oops.Code("USER_UPDATE_FAILED").With("user_id", id).Wrap(err)
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET password = ?, updated_at = ? WHERE id = ?`, hash, time.Now().UTC(), id)
	if err != nil {
		return oops.Code("USER_UPDATE_FAILED").With("user_id", id).Wrap(err)
	}
	return s.afterWrite(result, id)
}

func (s *UserService) afterWrite(result sql.Result, id int64) error {
	s.cache.Delete(userKey(id))
	rows, err := result.RowsAffected()
	if err != nil {
		return oops.Code("USER_UPDATE_FAILED").With("user_id", id).Wrap(err)
	}
	if rows == 0 {
		return oops.Code("USER_NOT_FOUND").With("user_id", id).Wrap(ErrUserNotFound)
	}
	return nil
}

func userKey(id int64) string {
	return userKeyPrefix + strconv.FormatInt(id, 10)
}
