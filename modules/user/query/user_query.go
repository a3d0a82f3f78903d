package query

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roysitumorang/raket/helper"
	userModel "github.com/roysitumorang/raket/modules/user/model"
	"go.uber.org/zap"
)

type (
	userQuery struct {
		dbRead *pgxpool.Pool
	}
)

func New(dbRead *pgxpool.Pool) UserQuery {
	return &userQuery{dbRead: dbRead}
}

// FindUsersByIDs reads through tx when given, so rows written earlier in
// the same transaction are visible.
func (q *userQuery) FindUsersByIDs(ctx context.Context, tx pgx.Tx, ids ...string) ([]*userModel.User, error) {
	ctxt := "UserQuery-FindUsersByIDs"
	if len(ids) == 0 {
		return nil, nil
	}
	params := make([]any, len(ids))
	var builder strings.Builder
	_, _ = builder.WriteString(
		`SELECT id
			, first_name
			, last_name
			, email
			, created_at
			, updated_at
		FROM users
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
	var response []*userModel.User
	for rows.Next() {
		var user userModel.User
		if err = rows.Scan(
			&user.ID,
			&user.FirstName,
			&user.LastName,
			&user.Email,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrScan")
			return nil, err
		}
		response = append(response, &user)
	}
	if err = rows.Err(); err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrRows")
		return nil, err
	}
	return response, nil
}
