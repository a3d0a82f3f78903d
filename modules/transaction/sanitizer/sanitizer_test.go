package sanitizer

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/roysitumorang/raket/helper"
	transactionModel "github.com/roysitumorang/raket/modules/transaction/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFilter(t *testing.T, target string) (*transactionModel.Filter, bool, error) {
	t.Helper()
	var (
		filter    *transactionModel.Filter
		countOnly bool
		err       error
	)
	app := fiber.New()
	app.Get("/v1/transactions", func(c *fiber.Ctx) error {
		filter, countOnly, err = FindTransactions(context.Background(), c)
		return c.SendStatus(fiber.StatusNoContent)
	})
	_, errTest := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil))
	require.NoError(t, errTest)
	return filter, countOnly, err
}

func TestFindTransactions(t *testing.T) {
	filter, countOnly, err := parseFilter(t, "/v1/transactions?status=paid&buyer=a%7Cb&active=false&limit=10&page=2&field=status&sort=asc&transaction_date_range=2024-01-01&transaction_date_range=2024-02-01&count_only=true")
	require.NoError(t, err)
	assert.True(t, countOnly)
	assert.Equal(t, "paid", filter.Status)
	assert.Equal(t, "a|b", filter.Buyer)
	assert.Equal(t, "false", filter.Active)
	assert.Equal(t, int64(10), filter.Limit)
	assert.Equal(t, int64(2), filter.Page)
	assert.Equal(t, "status", filter.Field)
	assert.Equal(t, "asc", filter.Sort)
	assert.Equal(t, []string{"2024-01-01", "2024-02-01"}, filter.TransactionDateRange)
	assert.Nil(t, filter.CreatedAtRange)
	assert.Equal(t, "http://example.com/v1/transactions", filter.PaginationURL)
	assert.False(t, filter.UrlValues.Has("count_only"))
}

func TestFindTransactionsDefaults(t *testing.T) {
	filter, countOnly, err := parseFilter(t, "/v1/transactions?page=abc&created_at_range=,2024-01-01")
	require.NoError(t, err)
	assert.False(t, countOnly)
	assert.Nil(t, filter.Active)
	assert.Zero(t, filter.Limit)
	assert.Zero(t, filter.Page)
	assert.Equal(t, []string{"", "2024-01-01"}, filter.CreatedAtRange)
}

func TestFindTransactionsInvalidLimit(t *testing.T) {
	_, _, err := parseFilter(t, "/v1/transactions?limit=ten")
	assert.ErrorIs(t, err, transactionModel.ErrInvalidLimit)
}

func TestFindAutocomplete(t *testing.T) {
	testCases := []struct {
		name   string
		target string
		query  string
		limit  int64
		err    error
	}{
		{"query and limit", "/autocomplete?query=2024&limit=5", "2024", 5, nil},
		{"no limit", "/autocomplete?query=%202024%20", "2024", 0, nil},
		{"negative limit", "/autocomplete?limit=-1", "", 0, transactionModel.ErrInvalidLimit},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var (
				query string
				limit int64
				err   error
			)
			app := fiber.New()
			app.Get("/autocomplete", func(c *fiber.Ctx) error {
				query, limit, err = FindAutocomplete(context.Background(), c)
				return c.SendStatus(fiber.StatusNoContent)
			})
			_, errTest := app.Test(httptest.NewRequest(fiber.MethodGet, tc.target, nil))
			require.NoError(t, errTest)
			assert.Equal(t, tc.err, err)
			assert.Equal(t, tc.query, query)
			assert.Equal(t, tc.limit, limit)
		})
	}
}

func postBody(t *testing.T, handler fiber.Handler, body string) {
	t.Helper()
	app := fiber.New()
	app.Post("/", handler)
	request := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(body))
	request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	_, err := app.Test(request)
	require.NoError(t, err)
}

func TestValidateTransaction(t *testing.T) {
	var (
		request    *transactionModel.TransactionRequest
		statusCode int
		err        error
	)
	handler := func(c *fiber.Ctx) error {
		request, statusCode, err = ValidateTransaction(context.Background(), c)
		return c.SendStatus(fiber.StatusNoContent)
	}

	postBody(t, handler, `{"status":"paid","buyer":"0190F3A2-7C1E-7B3D-9A6B-2B1C3D4E5F60","racket":"","transaction_date":"2024-03-01T10:00:00Z"}`)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, statusCode)
	require.NotNil(t, request.Buyer)
	assert.Equal(t, "0190f3a2-7c1e-7b3d-9a6b-2b1c3d4e5f60", *request.Buyer)
	assert.Nil(t, request.Racket)
	require.NotNil(t, request.TransactionDate)

	postBody(t, handler, `{"status":"`+strings.Repeat("x", 256)+`"}`)
	assert.Equal(t, fiber.StatusBadRequest, statusCode)
	assert.EqualError(t, err, "status: should be at most 255 characters")

	postBody(t, handler, `{"racket":"nope"}`)
	assert.Equal(t, fiber.StatusBadRequest, statusCode)
	assert.ErrorIs(t, err, helper.ErrInvalidIdentifier)

	postBody(t, handler, `{"status":`)
	assert.Equal(t, fiber.StatusBadRequest, statusCode)
	assert.Error(t, err)
}

func TestValidateTransactions(t *testing.T) {
	var (
		requests   []*transactionModel.TransactionRequest
		statusCode int
		err        error
	)
	handler := func(c *fiber.Ctx) error {
		requests, statusCode, err = ValidateTransactions(context.Background(), c)
		return c.SendStatus(fiber.StatusNoContent)
	}

	postBody(t, handler, `[{"import_hash":"h0"},{"import_hash":"h1","status":"paid"}]`)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "h1", *requests[1].ImportHash)

	postBody(t, handler, `[]`)
	assert.Equal(t, fiber.StatusBadRequest, statusCode)
	assert.ErrorIs(t, err, ErrEmptyBulk)

	postBody(t, handler, `[{},{"import_hash":"`+strings.Repeat("x", 256)+`"}]`)
	assert.Equal(t, fiber.StatusBadRequest, statusCode)
	assert.EqualError(t, err, "[1].import_hash: should be at most 255 characters")

	postBody(t, handler, "["+strings.Repeat("{},", MaxBulkItems)+"{}]")
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, statusCode)
	assert.ErrorIs(t, err, ErrTooManyItems)
}
