package query

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roysitumorang/raket/helper"
	racketModel "github.com/roysitumorang/raket/modules/racket/model"
	transactionModel "github.com/roysitumorang/raket/modules/transaction/model"
	userModel "github.com/roysitumorang/raket/modules/user/model"
	"go.uber.org/zap"
)

const (
	returningColumns = `id
			, transaction_date
			, status
			, import_hash
			, active
			, buyer_id
			, racket_id
			, created_by
			, updated_by
			, deleted_by
			, created_at
			, updated_at`

	countColumn = "COUNT(DISTINCT t.id)"

	selectColumns = `t.id
		, t.transaction_date
		, t.status
		, t.import_hash
		, t.active
		, t.buyer_id
		, t.racket_id
		, t.created_by
		, t.updated_by
		, t.deleted_by
		, t.created_at
		, t.updated_at
		, b.id
		, b.first_name
		, b.last_name
		, b.email
		, r.id
		, r.name
		, r.brand`

	insertColumns = `INSERT INTO transactions (
			_id
			, id
			, transaction_date
			, status
			, import_hash
			, created_by
			, updated_by
			, created_at
			, updated_at
		) VALUES `

	insertWidth = 9

	fromJoins = `
		FROM transactions t
		LEFT JOIN users b ON b.id = t.buyer_id
		LEFT JOIN rackets r ON r.id = t.racket_id`
)

type (
	transactionQuery struct {
		dbRead,
		dbWrite *pgxpool.Pool
	}
)

func New(
	dbRead,
	dbWrite *pgxpool.Pool,
) TransactionQuery {
	return &transactionQuery{
		dbRead:  dbRead,
		dbWrite: dbWrite,
	}
}

func (q *transactionQuery) querier(tx pgx.Tx) helper.Querier {
	if tx != nil {
		return tx
	}
	return q.dbRead
}

func (q *transactionQuery) BeginTx(ctx context.Context) (pgx.Tx, error) {
	ctxt := "TransactionQuery-BeginTx"
	tx, err := q.dbWrite.Begin(ctx)
	if err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrBegin")
	}
	return tx, err
}

// buildWhere renders the clauses against alias t, numbering placeholders from 1.
func buildWhere(listQuery *transactionModel.ListQuery) (string, []any) {
	var (
		params  []any
		builder strings.Builder
	)
	for i, clause := range listQuery.Clauses {
		if i == 0 {
			_, _ = builder.WriteString(" WHERE ")
		} else {
			_, _ = builder.WriteString(" AND ")
		}
		_, _ = builder.WriteString("t.")
		_, _ = builder.WriteString(clause.Column)
		_, _ = builder.WriteString(" ")
		_, _ = builder.WriteString(clause.Operator)
		if clause.Operator == transactionModel.OperatorIn {
			_, _ = builder.WriteString(" (")
			for j, value := range clause.Values {
				params = append(params, value)
				if j > 0 {
					_, _ = builder.WriteString(",")
				}
				_, _ = builder.WriteString("$")
				_, _ = builder.WriteString(strconv.Itoa(len(params)))
			}
			_, _ = builder.WriteString(")")
			continue
		}
		params = append(params, clause.Values[0])
		_, _ = builder.WriteString(" $")
		_, _ = builder.WriteString(strconv.Itoa(len(params)))
	}
	return builder.String(), params
}

func buildPaging(listQuery *transactionModel.ListQuery) string {
	var builder strings.Builder
	_, _ = builder.WriteString(" ORDER BY t.")
	_, _ = builder.WriteString(listQuery.OrderBy)
	_, _ = builder.WriteString(" ")
	_, _ = builder.WriteString(listQuery.Direction)
	_, _ = builder.WriteString(", t._id ")
	_, _ = builder.WriteString(listQuery.Direction)
	if listQuery.Limit != nil {
		_, _ = builder.WriteString(" LIMIT ")
		_, _ = builder.WriteString(strconv.FormatInt(*listQuery.Limit, 10))
		if listQuery.Offset > 0 {
			_, _ = builder.WriteString(" OFFSET ")
			_, _ = builder.WriteString(strconv.FormatInt(listQuery.Offset, 10))
		}
	}
	return builder.String()
}

// buildFindTransactions renders the unpaged distinct count and the paged row
// query, both bound to the same params.
func buildFindTransactions(listQuery *transactionModel.ListQuery) (string, string, []any) {
	where, params := buildWhere(listQuery)
	var builder strings.Builder
	_, _ = builder.WriteString("SELECT ")
	_, _ = builder.WriteString(countColumn)
	_, _ = builder.WriteString(fromJoins)
	_, _ = builder.WriteString(where)
	countQuery := builder.String()
	builder.Reset()
	_, _ = builder.WriteString(strings.Replace(countQuery, countColumn, selectColumns, 1))
	_, _ = builder.WriteString(buildPaging(listQuery))
	return countQuery, builder.String(), params
}

func (q *transactionQuery) FindTransactions(ctx context.Context, tx pgx.Tx, listQuery *transactionModel.ListQuery, countOnly bool) ([]*transactionModel.Transaction, int64, error) {
	ctxt := "TransactionQuery-FindTransactions"
	db := q.querier(tx)
	countQuery, selectQuery, params := buildFindTransactions(listQuery)
	var total int64
	if err := db.QueryRow(ctx, countQuery, params...).Scan(&total); err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrScan")
		return nil, 0, err
	}
	if countOnly || total == 0 {
		return nil, total, nil
	}
	rows, err := db.Query(ctx, selectQuery, params...)
	if errors.Is(err, pgx.ErrNoRows) {
		err = nil
	}
	if err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrQuery")
		return nil, 0, err
	}
	defer rows.Close()
	var response []*transactionModel.Transaction
	for rows.Next() {
		var (
			transaction transactionModel.Transaction
			buyerID,
			buyerFirstName,
			buyerLastName,
			buyerEmail,
			racketID,
			racketName,
			racketBrand *string
		)
		if err = rows.Scan(
			&transaction.ID,
			&transaction.TransactionDate,
			&transaction.Status,
			&transaction.ImportHash,
			&transaction.Active,
			&transaction.BuyerID,
			&transaction.RacketID,
			&transaction.CreatedBy,
			&transaction.UpdatedBy,
			&transaction.DeletedBy,
			&transaction.CreatedAt,
			&transaction.UpdatedAt,
			&buyerID,
			&buyerFirstName,
			&buyerLastName,
			&buyerEmail,
			&racketID,
			&racketName,
			&racketBrand,
		); err != nil {
			helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrScan")
			return nil, 0, err
		}
		if buyerID != nil {
			transaction.Buyer = &userModel.User{
				ID:        *buyerID,
				FirstName: stringValue(buyerFirstName),
				LastName:  buyerLastName,
				Email:     stringValue(buyerEmail),
			}
		}
		if racketID != nil {
			transaction.Racket = &racketModel.Racket{
				ID:    *racketID,
				Name:  stringValue(racketName),
				Brand: racketBrand,
			}
		}
		response = append(response, &transaction)
	}
	if err = rows.Err(); err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrRows")
		return nil, 0, err
	}
	return response, total, nil
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func scanTransaction(row pgx.Row, transaction *transactionModel.Transaction) error {
	return row.Scan(
		&transaction.ID,
		&transaction.TransactionDate,
		&transaction.Status,
		&transaction.ImportHash,
		&transaction.Active,
		&transaction.BuyerID,
		&transaction.RacketID,
		&transaction.CreatedBy,
		&transaction.UpdatedBy,
		&transaction.DeletedBy,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	)
}

func (q *transactionQuery) LockTransaction(ctx context.Context, tx pgx.Tx, id string) (*transactionModel.Transaction, error) {
	ctxt := "TransactionQuery-LockTransaction"
	var response transactionModel.Transaction
	err := scanTransaction(
		tx.QueryRow(
			ctx,
			`SELECT `+returningColumns+`
			FROM transactions
			WHERE id = $1
			FOR UPDATE`,
			id,
		),
		&response,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, transactionModel.ErrTransactionNotFound
	}
	if err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrScan")
		return nil, err
	}
	return &response, nil
}

// translateError maps constraint violations to model errors, anything else is returned as is.
func translateError(err error) error {
	var pgxErr *pgconn.PgError
	if !errors.As(err, &pgxErr) {
		return err
	}
	switch {
	case pgxErr.Code == pgerrcode.UniqueViolation && pgxErr.ConstraintName == "transactions_id_key":
		return transactionModel.ErrUniqueIDViolation
	case pgxErr.Code == pgerrcode.ForeignKeyViolation && pgxErr.ConstraintName == "transactions_buyer_id_fkey":
		return transactionModel.ErrBuyerNotFound
	case pgxErr.Code == pgerrcode.ForeignKeyViolation && pgxErr.ConstraintName == "transactions_racket_id_fkey":
		return transactionModel.ErrRacketNotFound
	}
	return err
}

// buildInsertTransactions renders a multi-row insert of n rows, insertWidth
// placeholders each, returning every inserted row.
func buildInsertTransactions(n int) string {
	var builder strings.Builder
	_, _ = builder.WriteString(insertColumns)
	for i := range n {
		if i > 0 {
			_, _ = builder.WriteString(", ")
		}
		_, _ = builder.WriteString("(")
		for j := 1; j <= insertWidth; j++ {
			if j > 1 {
				_, _ = builder.WriteString(", ")
			}
			_, _ = builder.WriteString("$")
			_, _ = builder.WriteString(strconv.Itoa(i*insertWidth + j))
		}
		_, _ = builder.WriteString(")")
	}
	_, _ = builder.WriteString(" RETURNING ")
	_, _ = builder.WriteString(returningColumns)
	return builder.String()
}

func (q *transactionQuery) CreateTransaction(ctx context.Context, tx pgx.Tx, request *transactionModel.Transaction) (*transactionModel.Transaction, error) {
	ctxt := "TransactionQuery-CreateTransaction"
	transactionID, _, transactionUUID, err := helper.GenerateUniqueID()
	if err != nil {
		helper.Rollback(ctx, tx, ctxt)
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrGenerateUniqueID")
		return nil, err
	}
	if request.ID == "" {
		request.ID = transactionUUID
	}
	now := time.Now()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	var response transactionModel.Transaction
	if err = scanTransaction(
		tx.QueryRow(
			ctx,
			buildInsertTransactions(1),
			transactionID,
			request.ID,
			request.TransactionDate,
			request.Status,
			request.ImportHash,
			request.CreatedBy,
			request.UpdatedBy,
			request.CreatedAt,
			now,
		),
		&response,
	); err != nil {
		helper.Rollback(ctx, tx, ctxt)
		if err = translateError(err); err != transactionModel.ErrUniqueIDViolation {
			helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrScan")
		}
		return nil, err
	}
	return &response, nil
}

func (q *transactionQuery) CreateTransactions(ctx context.Context, tx pgx.Tx, requests []*transactionModel.Transaction) ([]*transactionModel.Transaction, error) {
	ctxt := "TransactionQuery-CreateTransactions"
	if len(requests) == 0 {
		return []*transactionModel.Transaction{}, nil
	}
	now := time.Now()
	params := make([]any, 0, len(requests)*insertWidth)
	offsets := make(map[string]int, len(requests))
	for i, request := range requests {
		transactionID, _, transactionUUID, err := helper.GenerateUniqueID()
		if err != nil {
			helper.Rollback(ctx, tx, ctxt)
			helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrGenerateUniqueID")
			return nil, err
		}
		if request.ID == "" {
			request.ID = transactionUUID
		}
		if request.CreatedAt.IsZero() {
			request.CreatedAt = now
		}
		offsets[request.ID] = i
		params = append(
			params,
			transactionID,
			request.ID,
			request.TransactionDate,
			request.Status,
			request.ImportHash,
			request.CreatedBy,
			request.UpdatedBy,
			request.CreatedAt,
			request.CreatedAt,
		)
	}
	rows, err := tx.Query(ctx, buildInsertTransactions(len(requests)), params...)
	if err != nil {
		helper.Rollback(ctx, tx, ctxt)
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrQuery")
		return nil, translateError(err)
	}
	defer rows.Close()
	response := make([]*transactionModel.Transaction, len(requests))
	for rows.Next() {
		var transaction transactionModel.Transaction
		if err = scanTransaction(rows, &transaction); err != nil {
			helper.Rollback(ctx, tx, ctxt)
			helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrScan")
			return nil, err
		}
		response[offsets[transaction.ID]] = &transaction
	}
	if err = rows.Err(); err != nil {
		helper.Rollback(ctx, tx, ctxt)
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrRows")
		return nil, translateError(err)
	}
	return response, nil
}

func (q *transactionQuery) UpdateTransaction(ctx context.Context, tx pgx.Tx, request *transactionModel.Transaction) (*transactionModel.Transaction, error) {
	ctxt := "TransactionQuery-UpdateTransaction"
	var response transactionModel.Transaction
	err := scanTransaction(
		tx.QueryRow(
			ctx,
			`UPDATE transactions SET
				transaction_date = $1
				, status = $2
				, updated_by = $3
				, updated_at = $4
			WHERE id = $5
			RETURNING `+returningColumns,
			request.TransactionDate,
			request.Status,
			request.UpdatedBy,
			time.Now(),
			request.ID,
		),
		&response,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, transactionModel.ErrTransactionNotFound
	}
	if err != nil {
		helper.Rollback(ctx, tx, ctxt)
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrScan")
		return nil, err
	}
	return &response, nil
}

func (q *transactionQuery) setColumn(ctx context.Context, tx pgx.Tx, ctxt, column, id string, value *string) error {
	var builder strings.Builder
	_, _ = builder.WriteString("UPDATE transactions SET ")
	_, _ = builder.WriteString(column)
	_, _ = builder.WriteString(" = $1 WHERE id = $2")
	result, err := tx.Exec(ctx, builder.String(), value, id)
	if err != nil {
		helper.Rollback(ctx, tx, ctxt)
		if err = translateError(err); err != transactionModel.ErrBuyerNotFound && err != transactionModel.ErrRacketNotFound {
			helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrExec")
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return transactionModel.ErrTransactionNotFound
	}
	return nil
}

func (q *transactionQuery) SetBuyer(ctx context.Context, tx pgx.Tx, id string, buyerID *string) error {
	return q.setColumn(ctx, tx, "TransactionQuery-SetBuyer", transactionModel.ColumnBuyerID, id, buyerID)
}

func (q *transactionQuery) SetRacket(ctx context.Context, tx pgx.Tx, id string, racketID *string) error {
	return q.setColumn(ctx, tx, "TransactionQuery-SetRacket", transactionModel.ColumnRacketID, id, racketID)
}

func (q *transactionQuery) StampDeletion(ctx context.Context, tx pgx.Tx, id string, deletedBy *string) error {
	return q.setColumn(ctx, tx, "TransactionQuery-StampDeletion", "deleted_by", id, deletedBy)
}

func (q *transactionQuery) DeleteTransaction(ctx context.Context, tx pgx.Tx, id string) error {
	ctxt := "TransactionQuery-DeleteTransaction"
	result, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		helper.Rollback(ctx, tx, ctxt)
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrExec")
		return err
	}
	if result.RowsAffected() == 0 {
		return transactionModel.ErrTransactionNotFound
	}
	return nil
}

// likeEscaper keeps LIKE wildcards in user input literal.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildAutocomplete matches the id exactly when keyword is a valid identifier,
// or the transaction date text case-insensitively.
func buildAutocomplete(keyword string, limit int64) (string, []any) {
	var (
		params  []any
		builder strings.Builder
	)
	_, _ = builder.WriteString(
		`SELECT id
			, transaction_date
		FROM transactions`,
	)
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		_, _ = builder.WriteString(" WHERE (")
		if id, err := helper.NormalizeUUID(keyword); err == nil {
			params = append(params, id)
			_, _ = builder.WriteString("id = $1 OR ")
		}
		params = append(params, "%"+likeEscaper.Replace(keyword)+"%")
		_, _ = builder.WriteString("transaction_date::text ILIKE $")
		_, _ = builder.WriteString(strconv.Itoa(len(params)))
		_, _ = builder.WriteString(` ESCAPE '\')`)
	}
	_, _ = builder.WriteString(" ORDER BY transaction_date ASC")
	if limit > 0 {
		_, _ = builder.WriteString(" LIMIT ")
		_, _ = builder.WriteString(strconv.FormatInt(limit, 10))
	}
	return builder.String(), params
}

func (q *transactionQuery) FindAutocomplete(ctx context.Context, keyword string, limit int64) ([]*transactionModel.Autocomplete, error) {
	ctxt := "TransactionQuery-FindAutocomplete"
	query, params := buildAutocomplete(keyword, limit)
	rows, err := q.dbRead.Query(ctx, query, params...)
	if errors.Is(err, pgx.ErrNoRows) {
		err = nil
	}
	if err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrQuery")
		return nil, err
	}
	defer rows.Close()
	response := []*transactionModel.Autocomplete{}
	for rows.Next() {
		var autocomplete transactionModel.Autocomplete
		if err = rows.Scan(&autocomplete.ID, &autocomplete.Label); err != nil {
			helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrScan")
			return nil, err
		}
		response = append(response, &autocomplete)
	}
	if err = rows.Err(); err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrRows")
		return nil, err
	}
	return response, nil
}
