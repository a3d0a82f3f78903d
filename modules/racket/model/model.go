package model

import (
	"time"
)

const (
	TableName = "rackets"
)

type (
	Racket struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Brand     *string   `json:"brand"`
		CreatedAt time.Time `json:"-"`
		UpdatedAt time.Time `json:"-"`
	}
)
