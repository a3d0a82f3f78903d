package migration

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/roysitumorang/raket/helper"
	"go.uber.org/zap"
)

func init() {
	Migrations[1760745600000000000] = func(ctx context.Context, tx pgx.Tx) (err error) {
		ctxt := "Migration-1760745600000000000"
		for _, statement := range []string{
			`CREATE TABLE users (
				_id bigint NOT NULL PRIMARY KEY
				, id character varying NOT NULL CONSTRAINT users_id_key UNIQUE
				, first_name character varying NOT NULL
				, last_name character varying
				, email character varying NOT NULL CONSTRAINT users_email_key UNIQUE
				, created_at timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP
				, updated_at timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE rackets (
				_id bigint NOT NULL PRIMARY KEY
				, id character varying NOT NULL CONSTRAINT rackets_id_key UNIQUE
				, name character varying NOT NULL
				, brand character varying
				, created_at timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP
				, updated_at timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE transactions (
				_id bigint NOT NULL PRIMARY KEY
				, id character varying NOT NULL CONSTRAINT transactions_id_key UNIQUE
				, transaction_date timestamp with time zone
				, status character varying
				, import_hash character varying
				, active boolean NOT NULL DEFAULT false
				, buyer_id character varying CONSTRAINT transactions_buyer_id_fkey REFERENCES users (id) ON UPDATE CASCADE ON DELETE SET NULL
				, racket_id character varying CONSTRAINT transactions_racket_id_fkey REFERENCES rackets (id) ON UPDATE CASCADE ON DELETE SET NULL
				, created_by character varying
				, updated_by character varying
				, deleted_by character varying
				, created_at timestamp with time zone NOT NULL
				, updated_at timestamp with time zone NOT NULL
			)`,
			`CREATE INDEX ON transactions (transaction_date)`,
			`CREATE INDEX ON transactions (status)`,
			`CREATE INDEX ON transactions (active)`,
			`CREATE INDEX ON transactions (buyer_id)`,
			`CREATE INDEX ON transactions (racket_id)`,
			`CREATE INDEX ON transactions (created_at)`,
			`CREATE TABLE json_web_tokens (
				_id bigint NOT NULL PRIMARY KEY
				, id character varying NOT NULL CONSTRAINT json_web_tokens_id_key UNIQUE
				, token character varying NOT NULL CONSTRAINT json_web_tokens_token_key UNIQUE
				, user_id character varying NOT NULL CONSTRAINT json_web_tokens_user_id_fkey REFERENCES users (id) ON UPDATE CASCADE ON DELETE CASCADE
				, created_at timestamp with time zone NOT NULL
				, expired_at timestamp with time zone NOT NULL
			)`,
			`CREATE INDEX ON json_web_tokens (user_id)`,
			`CREATE INDEX ON json_web_tokens (expired_at)`,
		} {
			if _, err = tx.Exec(ctx, statement); err != nil {
				helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrExec")
				return
			}
		}
		return
	}
}
