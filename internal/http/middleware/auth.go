package middleware

import (
	"crypto/subtle"
	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/model"
)

// is returned when username/password don’t match.
var ErrInvalidCredentials = errors.New("invalid username or password")

// uses bcrypt to hash a plaintext password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// compares a bcrypt hash with the plaintext.
func CheckPassword(hash, plain string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	return err == nil
}

// CheckAdmin validates a login against the configured admin account.
func CheckAdmin(wantUser, hash, user, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(wantUser), []byte(user)) == 1
	if !CheckPassword(hash, password) || !userOK {
		return ErrInvalidCredentials
	}
	return nil
}

// retrieves *model.Admin from Gin context (after JWTMiddleware has run).
func GetCurrentAdmin(c *gin.Context) (*model.Admin, bool) {
	a, exists := c.Get("currentAdmin")
	if !exists {
		return nil, false
	}
	admin, ok := a.(*model.Admin)
	return admin, ok
}
