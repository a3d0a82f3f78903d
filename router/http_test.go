package router

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSecret(t *testing.T) {
	for key, expected := range map[string]bool{
		"DB_WRITE_PASSWORD":        true,
		"BASIC_AUTH_PASSWORD_HASH": true,
		"RSA_PRIVATE_KEY":          true,
		"SENTRY_DSN":               true,
		"TIME_ZONE":                false,
		"PORT":                     false,
	} {
		assert.Equal(t, expected, isSecret(key), key)
	}
}

func TestNewApp(t *testing.T) {
	app := (&Service{}).NewApp(context.Background())
	for _, tc := range []struct {
		method,
		target string
		statusCode int
	}{
		{fiber.MethodGet, "/ping", fiber.StatusOK},
		{fiber.MethodGet, "/nowhere", fiber.StatusNotFound},
		{fiber.MethodGet, "/metrics", fiber.StatusUnauthorized},
		{fiber.MethodGet, "/v1/jwt", fiber.StatusUnauthorized},
		{fiber.MethodPost, "/v1/transactions", fiber.StatusUnauthorized},
		{fiber.MethodPost, "/v1/transaction", fiber.StatusUnauthorized},
	} {
		resp, err := app.Test(httptest.NewRequest(tc.method, tc.target, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.statusCode, resp.StatusCode, tc.method+" "+tc.target)
	}
}
