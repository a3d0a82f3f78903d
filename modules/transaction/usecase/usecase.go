package usecase

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/roysitumorang/raket/models"
	transactionModel "github.com/roysitumorang/raket/modules/transaction/model"
)

type (
	// TransactionUseCase runs each mutation in tx when one is given, otherwise
	// in a transaction of its own that is committed before returning.
	//
	// Update and Remove drop the cached view only after their own commit. A
	// caller passing tx commits later, so it must publish ActionUpdate or
	// ActionDelete on config.TopicTransaction once committed; ConsumeMessage
	// then drops the view.
	TransactionUseCase interface {
		Create(ctx context.Context, tx pgx.Tx, request *transactionModel.TransactionRequest, identity models.Identity) (*transactionModel.Transaction, error)
		BulkImport(ctx context.Context, tx pgx.Tx, requests []*transactionModel.TransactionRequest, identity models.Identity) ([]*transactionModel.Transaction, error)
		Update(ctx context.Context, tx pgx.Tx, id string, request *transactionModel.TransactionRequest, identity models.Identity) (*transactionModel.Transaction, error)
		Remove(ctx context.Context, tx pgx.Tx, id string, identity models.Identity) (*transactionModel.Transaction, error)
		FindBy(ctx context.Context, tx pgx.Tx, filter *transactionModel.Filter) (*transactionModel.Transaction, error)
		FindAll(ctx context.Context, tx pgx.Tx, filter *transactionModel.Filter, countOnly bool) ([]*transactionModel.Transaction, int64, *models.Pagination, error)
		FindAllAutocomplete(ctx context.Context, query string, limit int64) ([]*transactionModel.Autocomplete, error)
		ConsumeMessage(ctx context.Context) error
		StopConsumer()
	}

	// ViewCache holds resolved single-record lookups keyed by transaction id.
	ViewCache interface {
		Get(ctx context.Context, key string) (*transactionModel.Transaction, bool)
		Set(ctx context.Context, key string, value *transactionModel.Transaction)
		Delete(ctx context.Context, keys ...string)
	}
)
