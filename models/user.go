package models

import "time"

// Role is the permission level of a store user
type Role string

const (
	RoleUser    Role = "user"
	RolePremium Role = "premium"
)

// Toggle flips between the two roles. Anything that is not RoleUser becomes RoleUser.
func (r Role) Toggle() Role {
	if r == RoleUser {
		return RolePremium
	}
	return RoleUser
}

// User represents a store user
// Password is stored hashed (bcrypt); never returned in JSON responses
type User struct {
	ID        int64     `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Age       int       `json:"age" db:"age"`
	Password  string    `json:"-" db:"password"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// WithRole returns a copy of the user with the given role
func (u User) WithRole(role Role) User {
	u.Role = role
	return u
}

// WithPassword returns a copy of the user carrying a new (plaintext) password.
// The user service hashes it on UpdateUserPassword.
func (u User) WithPassword(password string) User {
	u.Password = password
	return u
}

// WithoutPassword projects the user into the claims carried by the session token
func (u User) WithoutPassword() SessionUser {
	return SessionUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Age:       u.Age,
		Role:      u.Role,
	}
}

// SessionUser is the authenticated user attached to a request
type SessionUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
	Role      Role   `json:"role"`
}

// RegisterRequest represents the POST /api/sessions/register body
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
	Password  string `json:"password"`
}

// LoginRequest for /api/sessions/login (cookie session)
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RestorePasswordRequest asks for a reset link to be mailed
type RestorePasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest completes a reset with the mailed token
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}
