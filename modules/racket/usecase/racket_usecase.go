package usecase

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/roysitumorang/raket/helper"
	racketModel "github.com/roysitumorang/raket/modules/racket/model"
	racketQuery "github.com/roysitumorang/raket/modules/racket/query"
	"go.uber.org/zap"
)

type (
	racketUseCase struct {
		racketQuery racketQuery.RacketQuery
	}
)

func New(
	racketQuery racketQuery.RacketQuery,
) RacketUseCase {
	return &racketUseCase{
		racketQuery: racketQuery,
	}
}

func (q *racketUseCase) FindRacketByID(ctx context.Context, tx pgx.Tx, id string) (*racketModel.Racket, error) {
	ctxt := "RacketUseCase-FindRacketByID"
	rackets, err := q.racketQuery.FindRacketsByIDs(ctx, tx, id)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrFindRacketsByIDs")
		return nil, err
	}
	if len(rackets) == 0 {
		return nil, nil
	}
	return rackets[0], nil
}
