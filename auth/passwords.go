package auth

import (
	"regexp"

	"ecommerce-sessions/models"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// RE2 has no lookahead, so the complexity rule is the allowed charset plus one check per class
	passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,}$`)
	passwordClasses = []*regexp.Regexp{
		regexp.MustCompile(`[a-z]`),
		regexp.MustCompile(`[A-Z]`),
		regexp.MustCompile(`\d`),
		regexp.MustCompile(`[@$!%*?&]`),
	}
)

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	if IsPasswordTooLong(password) {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IsValidPassword reports whether candidate matches the user's stored hash
func IsValidPassword(candidate string, user *models.User) bool {
	if user == nil || user.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(candidate)) == nil
}

// IsPasswordTooLong reports passwords bcrypt would refuse to hash
func IsPasswordTooLong(password string) bool {
	return len(password) > MaxPasswordBytes
}

// IsValidEmail checks the simple something@something.something shape
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsStrongPassword requires 8+ chars from [A-Za-z0-9@$!%*?&] with at least one
// lowercase, uppercase, digit and special character.
func IsStrongPassword(password string) bool {
	if !passwordCharset.MatchString(password) {
		return false
	}
	for _, class := range passwordClasses {
		if !class.MatchString(password) {
			return false
		}
	}
	return true
}
