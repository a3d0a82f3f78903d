package query

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roysitumorang/raket/helper"
	jwtModel "github.com/roysitumorang/raket/modules/jwt/model"
	"go.uber.org/zap"
)

type (
	jwtQuery struct {
		dbRead,
		dbWrite *pgxpool.Pool
	}
)

func New(
	dbRead,
	dbWrite *pgxpool.Pool,
) JwtQuery {
	return &jwtQuery{
		dbRead:  dbRead,
		dbWrite: dbWrite,
	}
}

func (q *jwtQuery) CreateJWT(ctx context.Context, tx pgx.Tx, request *jwtModel.JsonWebToken) error {
	ctxt := "JwtQuery-CreateJWT"
	jwtID, _, _, err := helper.GenerateUniqueID()
	if err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrGenerateUniqueID")
		return err
	}
	if _, err = tx.Exec(
		ctx,
		`INSERT INTO json_web_tokens (
			_id
			, id
			, token
			, user_id
			, created_at
			, expired_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		jwtID,
		request.ID,
		request.Token,
		request.UserID,
		request.CreatedAt,
		request.ExpiredAt,
	); err != nil {
		helper.Rollback(ctx, tx, ctxt)
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrExec")
	}
	return err
}

// buildDeleteJWTs renders the DELETE statement for filter.
func buildDeleteJWTs(filter *jwtModel.DeleteFilter) (string, []any, error) {
	var (
		params     []any
		conditions []string
		builder    strings.Builder
	)
	if filter.MaxExpiredAt != nil {
		params = append(params, *filter.MaxExpiredAt)
		conditions = append(conditions, "expired_at <= $"+strconv.Itoa(len(params)))
	}
	if filter.UserID != "" {
		params = append(params, filter.UserID)
		conditions = append(conditions, "user_id = $"+strconv.Itoa(len(params)))
	}
	if len(filter.JwtIDs) > 0 {
		builder.Reset()
		_, _ = builder.WriteString("id IN (")
		for i, jwtID := range filter.JwtIDs {
			params = append(params, jwtID)
			if i > 0 {
				_, _ = builder.WriteString(",")
			}
			_, _ = builder.WriteString("$")
			_, _ = builder.WriteString(strconv.Itoa(len(params)))
		}
		_, _ = builder.WriteString(")")
		conditions = append(conditions, builder.String())
	}
	if len(conditions) == 0 {
		return "", nil, jwtModel.ErrEmptyCriterion
	}
	builder.Reset()
	_, _ = builder.WriteString("DELETE FROM json_web_tokens WHERE ")
	_, _ = builder.WriteString(strings.Join(conditions, " AND "))
	return builder.String(), params, nil
}

func (q *jwtQuery) DeleteJWTs(ctx context.Context, tx pgx.Tx, filter *jwtModel.DeleteFilter) (int64, error) {
	ctxt := "JwtQuery-DeleteJWTs"
	query, params, err := buildDeleteJWTs(filter)
	if err != nil {
		return 0, err
	}
	var db helper.Querier = q.dbWrite
	if tx != nil {
		db = tx
	}
	result, err := db.Exec(ctx, query, params...)
	if err != nil {
		if tx != nil {
			helper.Rollback(ctx, tx, ctxt)
		}
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrExec")
		return 0, err
	}
	return result.RowsAffected(), nil
}

func buildFindJWTs(filter *jwtModel.Filter) (string, []any) {
	var (
		params     []any
		conditions []string
		builder    strings.Builder
	)
	for _, criterion := range []struct {
		column string
		values []string
	}{
		{"token", filter.Tokens},
		{"user_id", filter.UserIDs},
	} {
		if len(criterion.values) == 0 {
			continue
		}
		builder.Reset()
		_, _ = builder.WriteString(criterion.column)
		_, _ = builder.WriteString(" IN (")
		for i, value := range criterion.values {
			params = append(params, value)
			if i > 0 {
				_, _ = builder.WriteString(",")
			}
			_, _ = builder.WriteString("$")
			_, _ = builder.WriteString(strconv.Itoa(len(params)))
		}
		_, _ = builder.WriteString(")")
		conditions = append(conditions, builder.String())
	}
	builder.Reset()
	_, _ = builder.WriteString(
		`SELECT COUNT(1)
		FROM json_web_tokens`,
	)
	if len(conditions) > 0 {
		_, _ = builder.WriteString(" WHERE ")
		_, _ = builder.WriteString(strings.Join(conditions, " AND "))
	}
	return builder.String(), params
}

func (q *jwtQuery) FindJWTs(ctx context.Context, filter *jwtModel.Filter) ([]*jwtModel.JsonWebToken, int64, error) {
	ctxt := "JwtQuery-FindJWTs"
	query, params := buildFindJWTs(filter)
	var total int64
	if err := q.dbRead.QueryRow(ctx, query, params...).Scan(&total); err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrScan")
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}
	var builder strings.Builder
	_, _ = builder.WriteString(strings.ReplaceAll(query, "COUNT(1)", "id, token, user_id, created_at, expired_at"))
	_, _ = builder.WriteString(" ORDER BY _id DESC")
	if filter.Limit > 0 {
		_, _ = builder.WriteString(" LIMIT ")
		_, _ = builder.WriteString(strconv.FormatInt(filter.Limit, 10))
		if offset := max(filter.Page, 0) * filter.Limit; offset > 0 {
			_, _ = builder.WriteString(" OFFSET ")
			_, _ = builder.WriteString(strconv.FormatInt(offset, 10))
		}
	}
	rows, err := q.dbRead.Query(ctx, builder.String(), params...)
	if errors.Is(err, pgx.ErrNoRows) {
		err = nil
	}
	if err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrQuery")
		return nil, 0, err
	}
	defer rows.Close()
	var response []*jwtModel.JsonWebToken
	for rows.Next() {
		var jwt jwtModel.JsonWebToken
		if err = rows.Scan(
			&jwt.ID,
			&jwt.Token,
			&jwt.UserID,
			&jwt.CreatedAt,
			&jwt.ExpiredAt,
		); err != nil {
			helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrScan")
			return nil, 0, err
		}
		response = append(response, &jwt)
	}
	if err = rows.Err(); err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrRows")
		return nil, 0, err
	}
	return response, total, nil
}
