package query

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	transactionModel "github.com/roysitumorang/raket/modules/transaction/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buyerA = "0190f3a2-7c1e-7b3d-9a6b-2b1c3d4e5f60"

func TestBuildWhere(t *testing.T) {
	t.Run("no clauses", func(t *testing.T) {
		where, params := buildWhere(&transactionModel.ListQuery{})
		assert.Empty(t, where)
		assert.Empty(t, params)
	})
	t.Run("numbers placeholders across IN lists", func(t *testing.T) {
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		listQuery, err := transactionModel.BuildListQuery(transactionModel.NewFilter(
			transactionModel.WithTransactionDateRange("2024-01-01", ""),
			transactionModel.WithBuyer(buyerA+"|0190f3a2-7c1e-7b3d-9a6b-2b1c3d4e5f61"),
			transactionModel.WithStatus(transactionModel.StatusPaid),
		))
		require.NoError(t, err)
		where, params := buildWhere(listQuery)
		assert.Equal(t, " WHERE t.transaction_date >= $1 AND t.status = $2 AND t.buyer_id IN ($3,$4)", where)
		assert.Equal(t, []any{from, transactionModel.StatusPaid, buyerA, "0190f3a2-7c1e-7b3d-9a6b-2b1c3d4e5f61"}, params)
	})
}

func TestBuildPaging(t *testing.T) {
	limit := int64(10)
	testCases := []struct {
		name      string
		listQuery transactionModel.ListQuery
		expected  string
	}{
		{
			"unbounded",
			transactionModel.ListQuery{OrderBy: "created_at", Direction: "DESC"},
			" ORDER BY t.created_at DESC, t._id DESC",
		},
		{
			"first page",
			transactionModel.ListQuery{OrderBy: "status", Direction: "ASC", Limit: &limit},
			" ORDER BY t.status ASC, t._id ASC LIMIT 10",
		},
		{
			"later page",
			transactionModel.ListQuery{OrderBy: "created_at", Direction: "DESC", Limit: &limit, Offset: 20},
			" ORDER BY t.created_at DESC, t._id DESC LIMIT 10 OFFSET 20",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, buildPaging(&tc.listQuery))
		})
	}
}

func TestBuildFindTransactions(t *testing.T) {
	limit := int64(5)
	listQuery := transactionModel.ListQuery{
		Clauses: []transactionModel.Clause{
			{Column: transactionModel.ColumnBuyerID, Operator: transactionModel.OperatorIn, Values: []any{buyerA}},
		},
		OrderBy:   "created_at",
		Direction: "DESC",
		Limit:     &limit,
		Offset:    10,
	}
	countQuery, selectQuery, params := buildFindTransactions(&listQuery)
	t.Run("count spans the joins without paging", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(countQuery, "SELECT COUNT(DISTINCT t.id)"))
		assert.Contains(t, countQuery, "LEFT JOIN users b ON b.id = t.buyer_id")
		assert.Contains(t, countQuery, "LEFT JOIN rackets r ON r.id = t.racket_id")
		assert.Contains(t, countQuery, " WHERE t.buyer_id IN ($1)")
		assert.NotContains(t, countQuery, "ORDER BY")
		assert.NotContains(t, countQuery, "LIMIT")
		assert.NotContains(t, countQuery, "OFFSET")
	})
	t.Run("select shares the filter and pages", func(t *testing.T) {
		assert.NotContains(t, selectQuery, "COUNT(")
		assert.Contains(t, selectQuery, "r.brand")
		assert.Contains(t, selectQuery, "LEFT JOIN rackets r ON r.id = t.racket_id WHERE t.buyer_id IN ($1)")
		assert.True(t, strings.HasSuffix(selectQuery, " ORDER BY t.created_at DESC, t._id DESC LIMIT 5 OFFSET 10"))
	})
	assert.Equal(t, []any{buyerA}, params)
}

func TestBuildInsertTransactions(t *testing.T) {
	t.Run("single row", func(t *testing.T) {
		query := buildInsertTransactions(1)
		assert.Contains(t, query, "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id")
		assert.NotContains(t, query, "$10")
	})
	t.Run("rows continue numbering", func(t *testing.T) {
		query := buildInsertTransactions(3)
		assert.Contains(t, query, "($1, $2, $3, $4, $5, $6, $7, $8, $9), ($10, $11, $12, $13, $14, $15, $16, $17, $18), ($19, $20, $21, $22, $23, $24, $25, $26, $27) RETURNING")
		assert.NotContains(t, query, "$28")
		assert.Equal(t, 1, strings.Count(query, "RETURNING"))
	})
}

type fakeTx struct {
	pgx.Tx
	tag        pgconn.CommandTag
	rolledBack bool
}

func (f *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return f.tag, nil
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack = true
	return nil
}

func TestMissLeavesCallerTxOpen(t *testing.T) {
	ctx := context.Background()
	q := &transactionQuery{}
	buyerID := buyerA
	t.Run("set buyer", func(t *testing.T) {
		tx := &fakeTx{tag: pgconn.NewCommandTag("UPDATE 0")}
		err := q.SetBuyer(ctx, tx, "missing", &buyerID)
		assert.Equal(t, transactionModel.ErrTransactionNotFound, err)
		assert.False(t, tx.rolledBack)
	})
	t.Run("stamp deletion", func(t *testing.T) {
		tx := &fakeTx{tag: pgconn.NewCommandTag("UPDATE 0")}
		err := q.StampDeletion(ctx, tx, "missing", nil)
		assert.Equal(t, transactionModel.ErrTransactionNotFound, err)
		assert.False(t, tx.rolledBack)
	})
	t.Run("delete", func(t *testing.T) {
		tx := &fakeTx{tag: pgconn.NewCommandTag("DELETE 0")}
		err := q.DeleteTransaction(ctx, tx, "missing")
		assert.Equal(t, transactionModel.ErrTransactionNotFound, err)
		assert.False(t, tx.rolledBack)
	})
	t.Run("hit", func(t *testing.T) {
		tx := &fakeTx{tag: pgconn.NewCommandTag("DELETE 1")}
		require.NoError(t, q.DeleteTransaction(ctx, tx, "present"))
		assert.False(t, tx.rolledBack)
	})
}

func TestBuildAutocomplete(t *testing.T) {
	t.Run("identifier keyword", func(t *testing.T) {
		query, params := buildAutocomplete(" 0190F3A2-7C1E-7B3D-9A6B-2B1C3D4E5F60 ", 5)
		assert.Contains(t, query, `WHERE (id = $1 OR transaction_date::text ILIKE $2 ESCAPE '\')`)
		assert.Contains(t, query, "ORDER BY transaction_date ASC LIMIT 5")
		assert.Equal(t, []any{buyerA, "%0190F3A2-7C1E-7B3D-9A6B-2B1C3D4E5F60%"}, params)
	})
	t.Run("date fragment", func(t *testing.T) {
		query, params := buildAutocomplete("2024-03", 0)
		assert.Contains(t, query, `WHERE (transaction_date::text ILIKE $1 ESCAPE '\')`)
		assert.NotContains(t, query, "LIMIT")
		assert.Equal(t, []any{"%2024-03%"}, params)
	})
	t.Run("wildcards match literally", func(t *testing.T) {
		_, params := buildAutocomplete(`50%_off\`, 0)
		assert.Equal(t, []any{`%50\%\_off\\%`}, params)
	})
	t.Run("empty keyword", func(t *testing.T) {
		query, params := buildAutocomplete("  ", 3)
		assert.NotContains(t, query, "WHERE")
		assert.Empty(t, params)
	})
}

func TestTranslateError(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected error
	}{
		{"duplicate id", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "transactions_id_key"}, transactionModel.ErrUniqueIDViolation},
		{"unknown buyer", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "transactions_buyer_id_fkey"}, transactionModel.ErrBuyerNotFound},
		{"unknown racket", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "transactions_racket_id_fkey"}, transactionModel.ErrRacketNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, translateError(tc.err))
		})
	}
	other := errors.New("boom")
	assert.Equal(t, other, translateError(other))
	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "transactions_import_hash_key"}
	assert.Equal(t, error(pgErr), translateError(pgErr))
}
