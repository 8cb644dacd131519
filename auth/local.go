package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"ecommerce-sessions/models"

	"github.com/samber/oops"
)

// Strategy authenticates the request and returns the resolved user
type Strategy interface {
	Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.User, error)
}

// UserStore is the slice of the user service the strategies need
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
}

// RegisterStrategy creates a local account from the request body
type RegisterStrategy struct {
	users UserStore
}

// NewRegisterStrategy creates the registration strategy
func NewRegisterStrategy(users UserStore) *RegisterStrategy {
	return &RegisterStrategy{users: users}
}

// Authenticate validates the registration body and creates the user with the standard role
func (s *RegisterStrategy) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.User, error) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, ErrInvalidBody
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if !IsValidEmail(req.Email) {
		return nil, ErrInvalidEmail
	}
	if IsPasswordTooLong(req.Password) {
		return nil, ErrPasswordTooLong
	}

	existing, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, oops.Code("REGISTER_FAILED").With("email", req.Email).Wrap(err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user, err := s.users.CreateUser(ctx, models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Age:       req.Age,
		Password:  req.Password,
		Role:      models.RoleUser,
	})
	if err != nil {
		return nil, oops.Code("REGISTER_FAILED").With("email", req.Email).Wrap(err)
	}
	return user, nil
}

// LoginStrategy checks email and password against the stored hash
type LoginStrategy struct {
	users UserStore
}

// NewLoginStrategy creates the local login strategy
func NewLoginStrategy(users UserStore) *LoginStrategy {
	return &LoginStrategy{users: users}
}

// Authenticate returns the user whose credentials match the request body
func (s *LoginStrategy) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.User, error) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, ErrInvalidBody
	}
	if req.Email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, oops.Code("LOGIN_FAILED").With("email", req.Email).Wrap(err)
	}
	if user == nil || !IsValidPassword(req.Password, user) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
