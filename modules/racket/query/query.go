package query

import (
	"context"

	"github.com/jackc/pgx/v5"
	racketModel "github.com/roysitumorang/raket/modules/racket/model"
)

type (
	RacketQuery interface {
		FindRacketsByIDs(ctx context.Context, tx pgx.Tx, ids ...string) ([]*racketModel.Racket, error)
	}
)
