package middleware

import (
	"crypto/subtle"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/roysitumorang/raket/helper"
)

// BasicAuth guards operational endpoints with BASIC_AUTH_USERNAME and the
// bcrypt hash in BASIC_AUTH_PASSWORD_HASH.
func BasicAuth() func(c *fiber.Ctx) error {
	username := os.Getenv("BASIC_AUTH_USERNAME")
	passwordHash := []byte(os.Getenv("BASIC_AUTH_PASSWORD_HASH"))
	return basicauth.New(basicauth.Config{
		Authorizer: func(user, password string) bool {
			if username == "" || len(passwordHash) == 0 {
				return false
			}
			return subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1 &&
				helper.MatchedHashAndPassword(passwordHash, []byte(password))
		},
		Unauthorized: func(c *fiber.Ctx) error {
			return helper.NewResponse(fiber.StatusUnauthorized).SetMessage("Unauthorized").WriteResponse(c)
		},
	})
}
