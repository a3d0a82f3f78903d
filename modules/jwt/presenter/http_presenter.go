package presenter

import (
	"github.com/gofiber/fiber/v2"
	"github.com/roysitumorang/raket/helper"
	"github.com/roysitumorang/raket/middleware"
	"github.com/roysitumorang/raket/models"
	jwtModel "github.com/roysitumorang/raket/modules/jwt/model"
	"github.com/roysitumorang/raket/modules/jwt/sanitizer"
	jwtUseCase "github.com/roysitumorang/raket/modules/jwt/usecase"
	userModel "github.com/roysitumorang/raket/modules/user/model"
	userUseCase "github.com/roysitumorang/raket/modules/user/usecase"
	"go.uber.org/zap"
)

type (
	jwtHTTPHandler struct {
		jwtUseCase  jwtUseCase.JwtUseCase
		userUseCase userUseCase.UserUseCase
	}
)

func New(
	jwtUseCase jwtUseCase.JwtUseCase,
	userUseCase userUseCase.UserUseCase,
) *jwtHTTPHandler {
	return &jwtHTTPHandler{
		jwtUseCase:  jwtUseCase,
		userUseCase: userUseCase,
	}
}

func (q *jwtHTTPHandler) Mount(r fiber.Router) {
	keyAuth := middleware.KeyAuth(q.jwtUseCase, q.userUseCase)
	r.Get("", keyAuth, q.FindJWTs).
		Delete("/:id", keyAuth, q.DeleteJWT)
}

// FindJWTs godoc
// @Summary List the current user's tokens
// @Tags jwt
// @Produce json
// @Security BearerAuth
// @Param limit query int false "limit"
// @Param page query int false "zero-based page"
// @Success 200 {object} helper.Response
// @Router /v1/jwt [get]
func (q *jwtHTTPHandler) FindJWTs(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctxt := "JwtPresenter-FindJWTs"
	currentUser, _ := c.Locals(models.CurrentUser).(*userModel.User)
	if currentUser == nil {
		return helper.NewResponse(fiber.StatusUnauthorized).WriteResponse(c)
	}
	filter, err := sanitizer.FindJWTs(ctx, c, currentUser.ID)
	if err != nil {
		return helper.NewResponse(fiber.StatusBadRequest).SetMessage(err.Error()).WriteResponse(c)
	}
	rows, pagination, err := q.jwtUseCase.FindJWTs(ctx, filter)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrFindJWTs")
		return helper.NewErrorResponse(err, fiber.StatusBadRequest).WriteResponse(c)
	}
	if rows == nil {
		rows = []*jwtModel.JsonWebToken{}
	}
	return helper.NewResponse(fiber.StatusOK).SetData(map[string]any{
		"pagination": pagination,
		"rows":       rows,
	}).WriteResponse(c)
}

// DeleteJWT godoc
// @Summary Revoke one of the current user's tokens
// @Tags jwt
// @Produce json
// @Security BearerAuth
// @Param id path string true "token id"
// @Success 204
// @Failure 404 {object} helper.Response
// @Router /v1/jwt/{id} [delete]
func (q *jwtHTTPHandler) DeleteJWT(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctxt := "JwtPresenter-DeleteJWT"
	currentUser, _ := c.Locals(models.CurrentUser).(*userModel.User)
	if currentUser == nil {
		return helper.NewResponse(fiber.StatusUnauthorized).WriteResponse(c)
	}
	jwtID, err := helper.NormalizeUUID(c.Params("id"))
	if err != nil {
		return helper.NewResponse(fiber.StatusBadRequest).SetMessage(err.Error()).WriteResponse(c)
	}
	rowsAffected, err := q.jwtUseCase.DeleteJWTs(
		ctx,
		nil,
		&jwtModel.DeleteFilter{
			UserID: currentUser.ID,
			JwtIDs: []string{jwtID},
		},
	)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrDeleteJWTs")
		return helper.NewErrorResponse(err, fiber.StatusUnprocessableEntity).WriteResponse(c)
	}
	if rowsAffected == 0 {
		return helper.NewResponse(fiber.StatusNotFound).SetMessage(jwtModel.ErrJwtNotFound.Error()).WriteResponse(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
