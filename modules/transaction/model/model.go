package model

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	customErrors "github.com/roysitumorang/raket/errors"
	"github.com/roysitumorang/raket/helper"
	racketModel "github.com/roysitumorang/raket/modules/racket/model"
	userModel "github.com/roysitumorang/raket/modules/user/model"
)

const (
	TableName = "transactions"
)

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

type (
	Transaction struct {
		ID              string              `json:"id"`
		TransactionDate *time.Time          `json:"transaction_date"`
		Status          *string             `json:"status"`
		ImportHash      *string             `json:"import_hash"`
		Active          bool                `json:"active"`
		BuyerID         *string             `json:"buyer_id"`
		RacketID        *string             `json:"racket_id"`
		Buyer           *userModel.User     `json:"buyer,omitempty"`
		Racket          *racketModel.Racket `json:"racket,omitempty"`
		CreatedBy       *string             `json:"created_by"`
		UpdatedBy       *string             `json:"updated_by"`
		DeletedBy       *string             `json:"-"`
		CreatedAt       time.Time           `json:"created_at"`
		UpdatedAt       time.Time           `json:"updated_at"`
	}

	// TransactionRequest is the writable part of a transaction. Buyer and Racket
	// hold the linked record ids, nil clears the link.
	TransactionRequest struct {
		ID              *string    `json:"id"`
		TransactionDate *time.Time `json:"transaction_date"`
		Status          *string    `json:"status" validate:"omitempty,max=255"`
		ImportHash      *string    `json:"import_hash" validate:"omitempty,max=255"`
		Buyer           *string    `json:"buyer"`
		Racket          *string    `json:"racket"`
	}

	Autocomplete struct {
		ID    string     `json:"id"`
		Label *time.Time `json:"label"`
	}

	Filter struct {
		ID                   string
		TransactionDateRange []string
		// Active keeps the raw input, see ParseActive.
		Active         any
		Status         string
		Buyer          string
		Racket         string
		CreatedAtRange []string
		Field,
		Sort,
		PaginationURL string
		Limit,
		Page int64
		UrlValues url.Values
	}

	FilterOption func(q *Filter)
)

var (
	ErrTransactionNotFound  = customErrors.New(fiber.StatusNotFound, "transaction not found")
	ErrBuyerNotFound        = customErrors.New(fiber.StatusUnprocessableEntity, "buyer: not found")
	ErrRacketNotFound       = customErrors.New(fiber.StatusUnprocessableEntity, "racket: not found")
	ErrInvalidRangeBound    = customErrors.New(fiber.StatusBadRequest, "invalid range bound")
	ErrInvalidSortField     = customErrors.New(fiber.StatusBadRequest, "field: not sortable")
	ErrInvalidSortDirection = customErrors.New(fiber.StatusBadRequest, "sort: should be either asc or desc")
	ErrInvalidLimit         = customErrors.New(fiber.StatusBadRequest, "limit: should be a non-negative integer")
	ErrNegativeOffset       = customErrors.New(fiber.StatusBadRequest, "page: cannot be negative")
	ErrPageOutOfRange       = customErrors.New(fiber.StatusBadRequest, "page: offset out of range")
	ErrUniqueIDViolation    = customErrors.New(fiber.StatusConflict, "id: already exists")
)

// Normalize maps blank values to nil and canonicalizes identifiers.
func (q *TransactionRequest) Normalize() error {
	q.Status = nilIfBlank(q.Status)
	q.ImportHash = nilIfBlank(q.ImportHash)
	for _, id := range []**string{&q.ID, &q.Buyer, &q.Racket} {
		if *id = nilIfBlank(*id); *id == nil {
			continue
		}
		normalized, err := helper.NormalizeUUID(**id)
		if err != nil {
			return err
		}
		*id = &normalized
	}
	return nil
}

func nilIfBlank(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func NewFilter(options ...FilterOption) *Filter {
	filter := &Filter{UrlValues: url.Values{}}
	for _, option := range options {
		option(filter)
	}
	return filter
}

func WithID(id string) FilterOption {
	return func(q *Filter) {
		q.ID = id
	}
}

func WithTransactionDateRange(start, end string) FilterOption {
	return func(q *Filter) {
		q.TransactionDateRange = []string{start, end}
	}
}

func WithActive(active any) FilterOption {
	return func(q *Filter) {
		q.Active = active
	}
}

func WithStatus(status string) FilterOption {
	return func(q *Filter) {
		q.Status = status
	}
}

// WithBuyer takes buyer ids separated by "|".
func WithBuyer(buyer string) FilterOption {
	return func(q *Filter) {
		q.Buyer = buyer
	}
}

// WithRacket takes racket ids separated by "|".
func WithRacket(racket string) FilterOption {
	return func(q *Filter) {
		q.Racket = racket
	}
}

func WithCreatedAtRange(start, end string) FilterOption {
	return func(q *Filter) {
		q.CreatedAtRange = []string{start, end}
	}
}

func WithOrder(field, sort string) FilterOption {
	return func(q *Filter) {
		q.Field = field
		q.Sort = sort
	}
}

func WithPaginationURL(paginationURL string) FilterOption {
	return func(q *Filter) {
		q.PaginationURL = paginationURL
	}
}

func WithLimit(limit int64) FilterOption {
	return func(q *Filter) {
		q.Limit = limit
	}
}

func WithPage(page int64) FilterOption {
	return func(q *Filter) {
		q.Page = page
	}
}

func WithUrlValues(urlValues url.Values) FilterOption {
	return func(q *Filter) {
		q.UrlValues = urlValues
	}
}
