package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dbRead  = "read"
	dbWrite = "write"

	applicationName = "raket"
)

func GetDbWriteOnly(ctx context.Context) (*pgxpool.Pool, error) {
	return newPool(ctx, dbWrite)
}

func GetDbReadOnly(ctx context.Context) (*pgxpool.Pool, error) {
	return newPool(ctx, dbRead)
}

func newPool(ctx context.Context, role string) (*pgxpool.Pool, error) {
	config, err := poolConfig(role, os.Getenv)
	if err != nil {
		return nil, err
	}
	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db %s: %w", role, err)
	}
	return db, nil
}

// poolConfig reads DB_<ROLE>_HOST, _USERNAME, _PASSWORD, _NAME and the free
// form _PARAM, plus the shared DB_MAX_CONNECTIONS. Sessions are tagged
// raket-<role> unless _PARAM names an application_name itself.
func poolConfig(role string, getenv func(string) string) (*pgxpool.Config, error) {
	prefix := "DB_" + strings.ToUpper(role) + "_"
	envMaxConns := getenv("DB_MAX_CONNECTIONS")
	if envMaxConns == "" {
		return nil, errors.New("db: env DB_MAX_CONNECTIONS is required")
	}
	maxConns, err := strconv.ParseInt(envMaxConns, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("db: env DB_MAX_CONNECTIONS: %w", err)
	}
	if maxConns < 1 {
		return nil, errors.New("db: env DB_MAX_CONNECTIONS requires a positive integer")
	}
	var builder strings.Builder
	for _, pair := range [][2]string{
		{"host", getenv(prefix + "HOST")},
		{"user", getenv(prefix + "USERNAME")},
		{"password", getenv(prefix + "PASSWORD")},
		{"dbname", getenv(prefix + "NAME")},
	} {
		if pair[1] == "" {
			continue
		}
		_, _ = builder.WriteString(pair[0])
		_, _ = builder.WriteString("=")
		_, _ = builder.WriteString(quoteValue(pair[1]))
		_, _ = builder.WriteString(" ")
	}
	_, _ = builder.WriteString(getenv(prefix + "PARAM"))
	config, err := pgxpool.ParseConfig(strings.TrimSpace(builder.String()))
	if err != nil {
		return nil, fmt.Errorf("db %s: %w", role, err)
	}
	config.MaxConns = int32(maxConns)
	if _, ok := config.ConnConfig.RuntimeParams["application_name"]; !ok {
		config.ConnConfig.RuntimeParams["application_name"] = applicationName + "-" + role
	}
	return config, nil
}

// quoteValue renders value as a libpq keyword/value literal.
func quoteValue(value string) string {
	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return value
	}
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value) + "'"
}
