package migration

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roysitumorang/raket/helper"
	"go.uber.org/zap"
)

type (
	Migration struct {
		dbRead,
		dbWrite *pgxpool.Pool
	}
)

var (
	Migrations = map[int64]func(ctx context.Context, tx pgx.Tx) error{}
)

func New(
	dbRead,
	dbWrite *pgxpool.Pool,
) *Migration {
	return &Migration{
		dbRead:  dbRead,
		dbWrite: dbWrite,
	}
}

// pendingVersions lists registered versions missing from applied, oldest first.
func pendingVersions(registered map[int64]func(ctx context.Context, tx pgx.Tx) error, applied map[int64]struct{}) []int64 {
	var response []int64
	for _, version := range slices.Sorted(maps.Keys(registered)) {
		if _, ok := applied[version]; !ok {
			response = append(response, version)
		}
	}
	return response
}

func (m *Migration) appliedVersions(ctx context.Context) (map[int64]struct{}, error) {
	ctxt := "Migration-appliedVersions"
	rows, err := m.dbRead.Query(ctx, `SELECT "version" FROM "migrations" ORDER BY "version"`)
	if err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrQuery")
		return nil, err
	}
	defer rows.Close()
	response := map[int64]struct{}{}
	for rows.Next() {
		var version int64
		if err = rows.Scan(&version); err != nil {
			helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrScan")
			return nil, err
		}
		response[version] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrRows")
		return nil, err
	}
	return response, nil
}

// Migrate applies every pending migration in a single transaction.
func (m *Migration) Migrate(ctx context.Context) error {
	ctxt := "Migration-Migrate"
	if _, err := m.dbWrite.Exec(
		ctx,
		`CREATE TABLE IF NOT EXISTS migrations (
			"version" bigint NOT NULL PRIMARY KEY
		)`,
	); err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrExec")
		return err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}
	versions := pendingVersions(Migrations, applied)
	if len(versions) == 0 {
		return nil
	}
	tx, err := m.dbWrite.Begin(ctx)
	if err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrBegin")
		return err
	}
	defer helper.Rollback(ctx, tx, ctxt)
	for _, version := range versions {
		if err = Migrations[version](ctx, tx); err != nil {
			helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrFunction")
			return err
		}
		if _, err = tx.Exec(ctx, `INSERT INTO "migrations" ("version") VALUES ($1)`, version); err != nil {
			helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrExec")
			return err
		}
		helper.Log(ctx, zap.InfoLevel, fmt.Sprintf("migration %d applied", version), ctxt, "")
	}
	if err = tx.Commit(ctx); err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrCommit")
		return err
	}
	return nil
}

func migrationFileContent(version int64) string {
	return fmt.Sprintf(
		`package migration

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/roysitumorang/raket/helper"
	"go.uber.org/zap"
)

func init() {
	Migrations[%d] = func(ctx context.Context, tx pgx.Tx) (err error) {
		ctxt := "Migration-%d"
		if _, err = tx.Exec(ctx, `+"`SELECT 1`"+`); err != nil {
			helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrExec")
		}
		return
	}
}
`,
		version,
		version,
	)
}

func (m *Migration) CreateMigrationFile(ctx context.Context) error {
	ctxt := "Migration-CreateMigrationFile"
	now := time.Now().UTC().UnixNano()
	filepath := fmt.Sprintf("./migration/%d.go", now)
	if err := os.WriteFile(
		filepath,
		helper.String2ByteSlice(migrationFileContent(now)),
		0600,
	); err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrWriteFile")
		return err
	}
	helper.Log(ctx, zap.InfoLevel, fmt.Sprintf("migration file %s created", filepath), ctxt, "")
	return nil
}
