package auth

import "errors"

// Strategy failures. Callers map these to 400/401 responses; anything else is a server error.
var (
	ErrInvalidBody        = errors.New("invalid request body")
	ErrMissingFields      = errors.New("first_name, last_name, email and password are required")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidEmail       = errors.New("the email entered is not valid")
	ErrPasswordTooLong    = errors.New("the password cannot be longer than 72 bytes")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidState       = errors.New("oauth state mismatch")
	ErrMissingCode        = errors.New("authorization code is required")
	ErrNoVerifiedEmail    = errors.New("github account has no verified email")
)

// IsUnauthorized reports failures that should answer 401
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInvalidState)
}

// IsUserError reports failures caused by the request itself (400)
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrInvalidBody, ErrMissingFields, ErrMissingCredentials, ErrInvalidEmail,
		ErrPasswordTooLong, ErrEmailTaken, ErrMissingCode, ErrNoVerifiedEmail,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
