package query

import (
	"context"

	"github.com/jackc/pgx/v5"
	transactionModel "github.com/roysitumorang/raket/modules/transaction/model"
)

type (
	// TransactionQuery reads through tx when one is given, otherwise through the
	// read pool. Writes always require a tx.
	TransactionQuery interface {
		BeginTx(ctx context.Context) (pgx.Tx, error)
		FindTransactions(ctx context.Context, tx pgx.Tx, listQuery *transactionModel.ListQuery, countOnly bool) ([]*transactionModel.Transaction, int64, error)
		LockTransaction(ctx context.Context, tx pgx.Tx, id string) (*transactionModel.Transaction, error)
		CreateTransaction(ctx context.Context, tx pgx.Tx, request *transactionModel.Transaction) (*transactionModel.Transaction, error)
		CreateTransactions(ctx context.Context, tx pgx.Tx, requests []*transactionModel.Transaction) ([]*transactionModel.Transaction, error)
		UpdateTransaction(ctx context.Context, tx pgx.Tx, request *transactionModel.Transaction) (*transactionModel.Transaction, error)
		SetBuyer(ctx context.Context, tx pgx.Tx, id string, buyerID *string) error
		SetRacket(ctx context.Context, tx pgx.Tx, id string, racketID *string) error
		StampDeletion(ctx context.Context, tx pgx.Tx, id string, deletedBy *string) error
		DeleteTransaction(ctx context.Context, tx pgx.Tx, id string) error
		FindAutocomplete(ctx context.Context, keyword string, limit int64) ([]*transactionModel.Autocomplete, error)
	}
)
