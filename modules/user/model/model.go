package model

import (
	"time"

	"github.com/gofiber/fiber/v2"
	customErrors "github.com/roysitumorang/raket/errors"
)

const (
	TableName = "users"
)

type (
	User struct {
		ID        string    `json:"id"`
		FirstName string    `json:"first_name"`
		LastName  *string   `json:"last_name"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"-"`
		UpdatedAt time.Time `json:"-"`
	}
)

var (
	ErrUserNotFound = customErrors.New(fiber.StatusNotFound, "user not found")
)
