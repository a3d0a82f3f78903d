package helper

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type (
	// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
	Querier interface {
		Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	}
)

var (
	dbWrite *pgxpool.Pool
)

func InitDbWrite(db *pgxpool.Pool) {
	dbWrite = db
}

func BeginTx(ctx context.Context) (pgx.Tx, error) {
	ctxt := "Helper-BeginTx"
	if dbWrite == nil {
		return nil, errors.New("db: write pool is not initialized")
	}
	tx, err := dbWrite.Begin(ctx)
	if err != nil {
		Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrBegin")
	}
	return tx, err
}

// Rollback is meant to be deferred right after BeginTx, it is a no-op once the tx is committed.
func Rollback(ctx context.Context, tx pgx.Tx, ctxt string) {
	errRollback := tx.Rollback(ctx)
	if errors.Is(errRollback, pgx.ErrTxClosed) {
		errRollback = nil
	}
	if errRollback != nil {
		Log(ctx, zap.ErrorLevel, errRollback.Error(), ctxt, "ErrRollback")
	}
}
