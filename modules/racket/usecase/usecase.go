package usecase

import (
	"context"

	"github.com/jackc/pgx/v5"
	racketModel "github.com/roysitumorang/raket/modules/racket/model"
)

type (
	RacketUseCase interface {
		FindRacketByID(ctx context.Context, tx pgx.Tx, id string) (*racketModel.Racket, error)
	}
)
