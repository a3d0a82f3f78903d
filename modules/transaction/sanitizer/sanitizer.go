package sanitizer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/roysitumorang/raket/helper"
	transactionModel "github.com/roysitumorang/raket/modules/transaction/model"
	"go.uber.org/zap"
)

const (
	MaxBulkItems = 1000
)

var (
	ErrEmptyBulk    = errors.New("body: should contain at least one transaction")
	ErrTooManyItems = fmt.Errorf("body: should contain at most %d transactions", MaxBulkItems)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	response := validator.New()
	response.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return response
}

func validationMessage(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}
	fieldErr := validationErrors[0]
	switch fieldErr.Tag() {
	case "max":
		return fmt.Errorf("%s: should be at most %s characters", fieldErr.Field(), fieldErr.Param())
	default:
		return fmt.Errorf("%s: invalid value", fieldErr.Field())
	}
}

// rangeBounds accepts either two occurrences of key or a single "start,end" value.
func rangeBounds(urlValues url.Values, key string) ([]string, bool) {
	values, ok := urlValues[key]
	if !ok {
		return nil, false
	}
	if len(values) == 1 {
		start, end, _ := strings.Cut(values[0], ",")
		return []string{start, end}, true
	}
	return values, true
}

// FindTransactions reads the listing filter from the query string. A missing or
// non-numeric page means the first page.
func FindTransactions(ctx context.Context, c *fiber.Ctx) (*transactionModel.Filter, bool, error) {
	ctxt := "TransactionSanitizer-FindTransactions"
	originalURL, err := url.ParseRequestURI(c.OriginalURL())
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrParseRequestURI")
		return nil, false, err
	}
	var builder strings.Builder
	_, _ = builder.WriteString(c.BaseURL())
	_, _ = builder.WriteString(originalURL.Path)
	urlValues := originalURL.Query()
	urlValues.Del("count_only")
	var options []transactionModel.FilterOption
	options = append(options, transactionModel.WithPaginationURL(builder.String()))
	if id := strings.TrimSpace(c.Query("id")); id != "" {
		options = append(options, transactionModel.WithID(id))
	}
	if bounds, ok := rangeBounds(urlValues, "transaction_date_range"); ok {
		options = append(options, func(q *transactionModel.Filter) {
			q.TransactionDateRange = bounds
		})
	}
	if bounds, ok := rangeBounds(urlValues, "created_at_range"); ok {
		options = append(options, func(q *transactionModel.Filter) {
			q.CreatedAtRange = bounds
		})
	}
	if urlValues.Has("active") {
		options = append(options, transactionModel.WithActive(c.Query("active")))
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		options = append(options, transactionModel.WithStatus(status))
	}
	if buyer := strings.TrimSpace(c.Query("buyer")); buyer != "" {
		options = append(options, transactionModel.WithBuyer(buyer))
	}
	if racket := strings.TrimSpace(c.Query("racket")); racket != "" {
		options = append(options, transactionModel.WithRacket(racket))
	}
	if rawLimit := strings.TrimSpace(c.Query("limit")); rawLimit != "" {
		limit, err := strconv.ParseInt(rawLimit, 10, 64)
		if err != nil {
			return nil, false, transactionModel.ErrInvalidLimit
		}
		options = append(options, transactionModel.WithLimit(limit))
	}
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	options = append(
		options,
		transactionModel.WithPage(page),
		transactionModel.WithOrder(strings.TrimSpace(c.Query("field")), strings.TrimSpace(c.Query("sort"))),
		transactionModel.WithUrlValues(urlValues),
	)
	countOnly, _ := strconv.ParseBool(c.Query("count_only"))
	return transactionModel.NewFilter(options...), countOnly, nil
}

func FindAutocomplete(_ context.Context, c *fiber.Ctx) (string, int64, error) {
	var limit int64
	if rawLimit := strings.TrimSpace(c.Query("limit")); rawLimit != "" {
		var err error
		if limit, err = strconv.ParseInt(rawLimit, 10, 64); err != nil || limit < 0 {
			return "", 0, transactionModel.ErrInvalidLimit
		}
	}
	return strings.TrimSpace(c.Query("query")), limit, nil
}

func ValidateTransaction(ctx context.Context, c *fiber.Ctx) (*transactionModel.TransactionRequest, int, error) {
	ctxt := "TransactionSanitizer-ValidateTransaction"
	var response transactionModel.TransactionRequest
	err := c.BodyParser(&response)
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrBodyParser")
		return nil, fiberErr.Code, err
	}
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrBodyParser")
		return nil, fiber.StatusBadRequest, err
	}
	if err = validateRequest(&response); err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrValidate")
		return nil, fiber.StatusBadRequest, err
	}
	return &response, fiber.StatusOK, nil
}

// ValidateTransactions reads a JSON array of transactions for bulk import.
func ValidateTransactions(ctx context.Context, c *fiber.Ctx) ([]*transactionModel.TransactionRequest, int, error) {
	ctxt := "TransactionSanitizer-ValidateTransactions"
	var response []*transactionModel.TransactionRequest
	err := c.BodyParser(&response)
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrBodyParser")
		return nil, fiberErr.Code, err
	}
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrBodyParser")
		return nil, fiber.StatusBadRequest, err
	}
	switch n := len(response); {
	case n == 0:
		return nil, fiber.StatusBadRequest, ErrEmptyBulk
	case n > MaxBulkItems:
		return nil, fiber.StatusRequestEntityTooLarge, ErrTooManyItems
	}
	for i, request := range response {
		if request == nil {
			request = &transactionModel.TransactionRequest{}
			response[i] = request
		}
		if err = validateRequest(request); err != nil {
			helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrValidate")
			return nil, fiber.StatusBadRequest, fmt.Errorf("[%d].%w", i, err)
		}
	}
	return response, fiber.StatusOK, nil
}

func validateRequest(request *transactionModel.TransactionRequest) error {
	if err := validate.Struct(request); err != nil {
		return validationMessage(err)
	}
	return request.Normalize()
}
