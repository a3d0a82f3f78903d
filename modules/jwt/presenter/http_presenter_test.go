package presenter

import (
	"context"
	"crypto/rsa"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/roysitumorang/raket/models"
	jwtModel "github.com/roysitumorang/raket/modules/jwt/model"
	userModel "github.com/roysitumorang/raket/modules/user/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userID = "0190f3a2-7c1e-7b3d-9a6b-2b1c3d4e5f00"
	jwtID  = "0190f3a2-7c1e-7b3d-9a6b-2b1c3d4e5f11"
)

type fakeJwtUseCase struct {
	filter       *jwtModel.Filter
	deleteFilter *jwtModel.DeleteFilter
	rowsAffected int64
}

func (q *fakeJwtUseCase) CreateJWT(context.Context, pgx.Tx, *jwtModel.JsonWebToken) error {
	return nil
}

func (q *fakeJwtUseCase) IssueJWT(context.Context, pgx.Tx, string, time.Duration, *rsa.PrivateKey) (string, *jwtModel.JsonWebToken, error) {
	return "", nil, nil
}

func (q *fakeJwtUseCase) DeleteJWTs(_ context.Context, _ pgx.Tx, filter *jwtModel.DeleteFilter) (int64, error) {
	q.deleteFilter = filter
	return q.rowsAffected, nil
}

func (q *fakeJwtUseCase) DeleteExpiredJWTs(context.Context) (int64, error) {
	return 0, nil
}

func (q *fakeJwtUseCase) FindJWTs(_ context.Context, filter *jwtModel.Filter) ([]*jwtModel.JsonWebToken, *models.Pagination, error) {
	q.filter = filter
	return nil, &models.Pagination{}, nil
}

func withUser(c *fiber.Ctx) error {
	c.Locals(models.CurrentUser, &userModel.User{ID: userID})
	return c.Next()
}

func TestFindJWTs(t *testing.T) {
	useCase := &fakeJwtUseCase{}
	handler := New(useCase, nil)
	app := fiber.New()
	app.Get("/v1/jwt", withUser, handler.FindJWTs)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/jwt?limit=5&page=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{userID}, useCase.filter.UserIDs)
	assert.Equal(t, int64(5), useCase.filter.Limit)
	assert.Equal(t, int64(1), useCase.filter.Page)

	var response struct {
		Data struct {
			Rows []json.RawMessage `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	assert.NotNil(t, response.Data.Rows)
	assert.Empty(t, response.Data.Rows)
}

func TestDeleteJWT(t *testing.T) {
	useCase := &fakeJwtUseCase{}
	handler := New(useCase, nil)
	app := fiber.New()
	app.Delete("/v1/jwt/:id", withUser, handler.DeleteJWT)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodDelete, "/v1/jwt/"+jwtID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, userID, useCase.deleteFilter.UserID)
	assert.Equal(t, []string{jwtID}, useCase.deleteFilter.JwtIDs)

	useCase.rowsAffected = 1
	resp, err = app.Test(httptest.NewRequest(fiber.MethodDelete, "/v1/jwt/"+jwtID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodDelete, "/v1/jwt/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRoutesRequireToken(t *testing.T) {
	app := fiber.New()
	New(&fakeJwtUseCase{}, nil).Mount(app.Group("/v1/jwt"))
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/jwt", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
