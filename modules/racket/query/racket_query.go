package query

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roysitumorang/raket/helper"
	racketModel "github.com/roysitumorang/raket/modules/racket/model"
	"go.uber.org/zap"
)

type (
	racketQuery struct {
		dbRead *pgxpool.Pool
	}
)

func New(dbRead *pgxpool.Pool) RacketQuery {
	return &racketQuery{dbRead: dbRead}
}

// FindRacketsByIDs reads through tx when given, so rows written earlier in
// the same transaction are visible.
func (q *racketQuery) FindRacketsByIDs(ctx context.Context, tx pgx.Tx, ids ...string) ([]*racketModel.Racket, error) {
	ctxt := "RacketQuery-FindRacketsByIDs"
	if len(ids) == 0 {
		return nil, nil
	}
	params := make([]any, len(ids))
	var builder strings.Builder
	_, _ = builder.WriteString(
		`SELECT id
			, name
			, brand
			, created_at
			, updated_at
		FROM rackets
		WHERE id IN (`,
	)
	for i, id := range ids {
		params[i] = id
		if i > 0 {
			_, _ = builder.WriteString(",")
		}
		_, _ = builder.WriteString("$")
		_, _ = builder.WriteString(strconv.Itoa(i + 1))
	}
	_, _ = builder.WriteString(") ORDER BY _id")
	var db helper.Querier = q.dbRead
	if tx != nil {
		db = tx
	}
	rows, err := db.Query(ctx, builder.String(), params...)
	if errors.Is(err, pgx.ErrNoRows) {
		err = nil
	}
	if err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrQuery")
		return nil, err
	}
	defer rows.Close()
	var response []*racketModel.Racket
	for rows.Next() {
		var racket racketModel.Racket
		if err = rows.Scan(
			&racket.ID,
			&racket.Name,
			&racket.Brand,
			&racket.CreatedAt,
			&racket.UpdatedAt,
		); err != nil {
			helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrScan")
			return nil, err
		}
		response = append(response, &racket)
	}
	return response, nil
}
