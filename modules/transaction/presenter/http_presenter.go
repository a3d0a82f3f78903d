package presenter

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/roysitumorang/raket/config"
	"github.com/roysitumorang/raket/helper"
	"github.com/roysitumorang/raket/middleware"
	"github.com/roysitumorang/raket/models"
	jwtUseCase "github.com/roysitumorang/raket/modules/jwt/usecase"
	transactionModel "github.com/roysitumorang/raket/modules/transaction/model"
	"github.com/roysitumorang/raket/modules/transaction/sanitizer"
	transactionUseCase "github.com/roysitumorang/raket/modules/transaction/usecase"
	userUseCase "github.com/roysitumorang/raket/modules/user/usecase"
	"go.uber.org/zap"
)

type (
	Publisher interface {
		Publish(ctx context.Context, topic string, messages ...any) error
	}

	transactionHTTPHandler struct {
		jwtUseCase         jwtUseCase.JwtUseCase
		userUseCase        userUseCase.UserUseCase
		transactionUseCase transactionUseCase.TransactionUseCase
		publisher          Publisher
	}
)

func New(
	jwtUseCase jwtUseCase.JwtUseCase,
	userUseCase userUseCase.UserUseCase,
	transactionUseCase transactionUseCase.TransactionUseCase,
	publisher Publisher,
) *transactionHTTPHandler {
	return &transactionHTTPHandler{
		jwtUseCase:         jwtUseCase,
		userUseCase:        userUseCase,
		transactionUseCase: transactionUseCase,
		publisher:          publisher,
	}
}

func (q *transactionHTTPHandler) Mount(r fiber.Router) {
	keyAuth := middleware.KeyAuth(q.jwtUseCase, q.userUseCase)
	r.Get("", q.FindTransactions).
		Post("", keyAuth, q.CreateTransaction).
		Post("/bulk", keyAuth, q.ImportTransactions).
		Get("/autocomplete", q.FindAutocomplete).
		Get("/:id", q.FindTransactionByID).
		Put("/:id", keyAuth, q.UpdateTransaction).
		Delete("/:id", keyAuth, q.DeleteTransaction)
}

// publish runs after commit, a failure is logged and never fails the request.
func (q *transactionHTTPHandler) publish(ctx context.Context, action string, transactions ...*transactionModel.Transaction) {
	ctxt := "TransactionPresenter-publish"
	if q.publisher == nil || len(transactions) == 0 {
		return
	}
	messages := make([]any, len(transactions))
	for i, transaction := range transactions {
		messages[i] = models.Message{Action: action, ID: transaction.ID}
	}
	if err := q.publisher.Publish(ctx, config.TopicTransaction, messages...); err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrPublish")
	}
}

// FindTransactions godoc
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param status query string false "status"
// @Param buyer query string false "buyer ids separated by |"
// @Param racket query string false "racket ids separated by |"
// @Param count_only query bool false "count only"
// @Success 200 {object} helper.Response
// @Router /v1/transactions [get]
func (q *transactionHTTPHandler) FindTransactions(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctxt := "TransactionPresenter-FindTransactions"
	filter, countOnly, err := sanitizer.FindTransactions(ctx, c)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrFindTransactions")
		return helper.NewErrorResponse(err, fiber.StatusBadRequest).WriteResponse(c)
	}
	rows, count, pagination, err := q.transactionUseCase.FindAll(ctx, nil, filter, countOnly)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrFindAll")
		return helper.NewErrorResponse(err, fiber.StatusBadRequest).WriteResponse(c)
	}
	return helper.NewResponse(fiber.StatusOK).SetData(map[string]any{
		"count":      count,
		"pagination": pagination,
		"rows":       rows,
	}).WriteResponse(c)
}

// FindAutocomplete godoc
// @Summary Autocomplete transactions by id or transaction date
// @Tags transactions
// @Produce json
// @Param query query string false "keyword"
// @Param limit query int false "limit"
// @Success 200 {object} helper.Response
// @Router /v1/transactions/autocomplete [get]
func (q *transactionHTTPHandler) FindAutocomplete(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctxt := "TransactionPresenter-FindAutocomplete"
	keyword, limit, err := sanitizer.FindAutocomplete(ctx, c)
	if err != nil {
		return helper.NewErrorResponse(err, fiber.StatusBadRequest).WriteResponse(c)
	}
	rows, err := q.transactionUseCase.FindAllAutocomplete(ctx, keyword, limit)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrFindAllAutocomplete")
		return helper.NewErrorResponse(err, fiber.StatusBadRequest).WriteResponse(c)
	}
	return helper.NewResponse(fiber.StatusOK).SetData(rows).WriteResponse(c)
}

// FindTransactionByID godoc
// @Summary Find a transaction with its buyer and racket
// @Tags transactions
// @Produce json
// @Param id path string true "transaction id"
// @Success 200 {object} helper.Response
// @Failure 404 {object} helper.Response
// @Router /v1/transactions/{id} [get]
func (q *transactionHTTPHandler) FindTransactionByID(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctxt := "TransactionPresenter-FindTransactionByID"
	transaction, err := q.transactionUseCase.FindBy(ctx, nil, transactionModel.NewFilter(transactionModel.WithID(c.Params("id"))))
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrFindBy")
		return helper.NewErrorResponse(err, fiber.StatusBadRequest).WriteResponse(c)
	}
	if transaction == nil {
		return helper.NewResponse(fiber.StatusNotFound).SetMessage(transactionModel.ErrTransactionNotFound.Error()).WriteResponse(c)
	}
	return helper.NewResponse(fiber.StatusOK).SetData(transaction).WriteResponse(c)
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} helper.Response
// @Router /v1/transactions [post]
func (q *transactionHTTPHandler) CreateTransaction(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctxt := "TransactionPresenter-CreateTransaction"
	request, statusCode, err := sanitizer.ValidateTransaction(ctx, c)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrValidateTransaction")
		return helper.NewResponse(statusCode).SetMessage(err.Error()).WriteResponse(c)
	}
	response, err := q.transactionUseCase.Create(ctx, nil, request, middleware.CurrentIdentity(c))
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrCreate")
		return helper.NewErrorResponse(err, fiber.StatusUnprocessableEntity).WriteResponse(c)
	}
	q.publish(ctx, models.ActionCreate, response)
	return helper.NewResponse(fiber.StatusCreated).SetData(response).WriteResponse(c)
}

// ImportTransactions godoc
// @Summary Import transactions in one batch, buyer and racket are not linked
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} helper.Response
// @Router /v1/transactions/bulk [post]
func (q *transactionHTTPHandler) ImportTransactions(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctxt := "TransactionPresenter-ImportTransactions"
	requests, statusCode, err := sanitizer.ValidateTransactions(ctx, c)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrValidateTransactions")
		return helper.NewResponse(statusCode).SetMessage(err.Error()).WriteResponse(c)
	}
	response, err := q.transactionUseCase.BulkImport(ctx, nil, requests, middleware.CurrentIdentity(c))
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrBulkImport")
		return helper.NewErrorResponse(err, fiber.StatusUnprocessableEntity).WriteResponse(c)
	}
	q.publish(ctx, models.ActionCreate, response...)
	return helper.NewResponse(fiber.StatusCreated).SetData(response).WriteResponse(c)
}

// UpdateTransaction godoc
// @Summary Overwrite transaction date, status, buyer and racket
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "transaction id"
// @Success 200 {object} helper.Response
// @Failure 404 {object} helper.Response
// @Router /v1/transactions/{id} [put]
func (q *transactionHTTPHandler) UpdateTransaction(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctxt := "TransactionPresenter-UpdateTransaction"
	request, statusCode, err := sanitizer.ValidateTransaction(ctx, c)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrValidateTransaction")
		return helper.NewResponse(statusCode).SetMessage(err.Error()).WriteResponse(c)
	}
	response, err := q.transactionUseCase.Update(ctx, nil, c.Params("id"), request, middleware.CurrentIdentity(c))
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrUpdate")
		return helper.NewErrorResponse(err, fiber.StatusUnprocessableEntity).WriteResponse(c)
	}
	q.publish(ctx, models.ActionUpdate, response)
	return helper.NewResponse(fiber.StatusOK).SetData(response).WriteResponse(c)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "transaction id"
// @Success 200 {object} helper.Response
// @Failure 404 {object} helper.Response
// @Router /v1/transactions/{id} [delete]
func (q *transactionHTTPHandler) DeleteTransaction(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctxt := "TransactionPresenter-DeleteTransaction"
	response, err := q.transactionUseCase.Remove(ctx, nil, c.Params("id"), middleware.CurrentIdentity(c))
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrRemove")
		return helper.NewErrorResponse(err, fiber.StatusUnprocessableEntity).WriteResponse(c)
	}
	q.publish(ctx, models.ActionDelete, response)
	return helper.NewResponse(fiber.StatusOK).SetData(response).WriteResponse(c)
}
