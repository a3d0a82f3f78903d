package model

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	customErrors "github.com/roysitumorang/raket/errors"
)

type (
	JsonWebToken struct {
		ID        string    `json:"id"`
		Token     string    `json:"-"`
		UserID    string    `json:"user_id"`
		CreatedAt time.Time `json:"created_at"`
		ExpiredAt time.Time `json:"expired_at"`
	}

	Filter struct {
		Tokens,
		UserIDs []string
		PaginationURL string
		Limit,
		Page int64
		UrlValues url.Values
	}

	FilterOption func(q *Filter)

	// DeleteFilter matches tokens expiring at or before MaxExpiredAt, or the
	// given ids of a user. At least one criterion is required.
	DeleteFilter struct {
		MaxExpiredAt *time.Time
		UserID       string
		JwtIDs       []string
	}
)

var (
	ErrJwtNotFound    = customErrors.New(fiber.StatusNotFound, "token not found")
	ErrEmptyCriterion = customErrors.New(fiber.StatusBadRequest, "delete filter: at least one criterion is required")
)

func NewFilter(options ...FilterOption) *Filter {
	filter := &Filter{UrlValues: url.Values{}}
	for _, option := range options {
		option(filter)
	}
	return filter
}

func WithTokens(tokens ...string) FilterOption {
	return func(q *Filter) {
		q.Tokens = tokens
	}
}

func WithUserIDs(userIDs ...string) FilterOption {
	return func(q *Filter) {
		q.UserIDs = userIDs
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
