package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/nsqio/go-nsq"
	"github.com/roysitumorang/raket/config"
	"github.com/roysitumorang/raket/helper"
	"github.com/roysitumorang/raket/models"
	racketUseCase "github.com/roysitumorang/raket/modules/racket/usecase"
	transactionModel "github.com/roysitumorang/raket/modules/transaction/model"
	transactionQuery "github.com/roysitumorang/raket/modules/transaction/query"
	userUseCase "github.com/roysitumorang/raket/modules/user/usecase"
	serviceNsq "github.com/roysitumorang/raket/services/nsq"
	"go.uber.org/zap"
)

type (
	transactionUseCase struct {
		transactionQuery transactionQuery.TransactionQuery
		userUseCase      userUseCase.UserUseCase
		racketUseCase    racketUseCase.RacketUseCase
		cache            ViewCache
		nsqConsumer      *serviceNsq.Consumer
	}
)

// New wires the use case. cache may be nil, lookups then always hit the database.
func New(
	ctx context.Context,
	transactionQuery transactionQuery.TransactionQuery,
	userUseCase userUseCase.UserUseCase,
	racketUseCase racketUseCase.RacketUseCase,
	cache ViewCache,
	nsqAddress string,
	nsqConfig *nsq.Config,
) (TransactionUseCase, error) {
	ctxt := "TransactionUseCase-New"
	nsqConsumer, err := serviceNsq.NewConsumer(ctx, nsqAddress, config.TopicTransaction, config.NsqChannel, nsqConfig)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrNewConsumer")
		return nil, err
	}
	return &transactionUseCase{
		transactionQuery: transactionQuery,
		userUseCase:      userUseCase,
		racketUseCase:    racketUseCase,
		cache:            cache,
		nsqConsumer:      nsqConsumer,
	}, nil
}

func (q *transactionUseCase) inTx(ctx context.Context, tx pgx.Tx, ctxt string, fn func(tx pgx.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}
	tx, err := q.transactionQuery.BeginTx(ctx)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrBeginTx")
		return err
	}
	defer helper.Rollback(ctx, tx, ctxt)
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrCommit")
	}
	return err
}

func (q *transactionUseCase) invalidate(ctx context.Context, ids ...string) {
	if q.cache != nil {
		q.cache.Delete(ctx, ids...)
	}
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// setAssociations links buyer and racket, a nil id clears the link.
func (q *transactionUseCase) setAssociations(ctx context.Context, tx pgx.Tx, ctxt string, transaction *transactionModel.Transaction, request *transactionModel.TransactionRequest) error {
	if err := q.transactionQuery.SetBuyer(ctx, tx, transaction.ID, request.Buyer); err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrSetBuyer")
		return err
	}
	if err := q.transactionQuery.SetRacket(ctx, tx, transaction.ID, request.Racket); err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrSetRacket")
		return err
	}
	transaction.BuyerID = request.Buyer
	transaction.RacketID = request.Racket
	return nil
}

func (q *transactionUseCase) Create(ctx context.Context, tx pgx.Tx, request *transactionModel.TransactionRequest, identity models.Identity) (*transactionModel.Transaction, error) {
	ctxt := "TransactionUseCase-Create"
	if request == nil {
		request = &transactionModel.TransactionRequest{}
	}
	if err := request.Normalize(); err != nil {
		return nil, err
	}
	var response *transactionModel.Transaction
	err := q.inTx(ctx, tx, ctxt, func(tx pgx.Tx) (err error) {
		if response, err = q.transactionQuery.CreateTransaction(
			ctx,
			tx,
			&transactionModel.Transaction{
				ID:              stringValue(request.ID),
				TransactionDate: request.TransactionDate,
				Status:          request.Status,
				ImportHash:      request.ImportHash,
				CreatedBy:       identity.ID,
				UpdatedBy:       identity.ID,
			},
		); err != nil {
			helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrCreateTransaction")
			return
		}
		return q.setAssociations(ctx, tx, ctxt, response, request)
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// BulkImport stamps item i with created_at now + i seconds. Buyer and racket
// of the items are not linked.
func (q *transactionUseCase) BulkImport(ctx context.Context, tx pgx.Tx, requests []*transactionModel.TransactionRequest, identity models.Identity) ([]*transactionModel.Transaction, error) {
	ctxt := "TransactionUseCase-BulkImport"
	if len(requests) == 0 {
		return []*transactionModel.Transaction{}, nil
	}
	now := time.Now()
	transactions := make([]*transactionModel.Transaction, len(requests))
	for i, request := range requests {
		if request == nil {
			request = &transactionModel.TransactionRequest{}
		}
		if err := request.Normalize(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		transactions[i] = &transactionModel.Transaction{
			ID:              stringValue(request.ID),
			TransactionDate: request.TransactionDate,
			Status:          request.Status,
			ImportHash:      request.ImportHash,
			CreatedBy:       identity.ID,
			UpdatedBy:       identity.ID,
			CreatedAt:       now.Add(time.Duration(i) * time.Second),
		}
	}
	var response []*transactionModel.Transaction
	err := q.inTx(ctx, tx, ctxt, func(tx pgx.Tx) (err error) {
		if response, err = q.transactionQuery.CreateTransactions(ctx, tx, transactions); err != nil {
			helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrCreateTransactions")
		}
		return
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Update overwrites transaction_date and status, absent values become NULL.
// With a caller tx the cached view is left alone, see TransactionUseCase.
func (q *transactionUseCase) Update(ctx context.Context, tx pgx.Tx, id string, request *transactionModel.TransactionRequest, identity models.Identity) (*transactionModel.Transaction, error) {
	ctxt := "TransactionUseCase-Update"
	id, err := helper.NormalizeUUID(id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		request = &transactionModel.TransactionRequest{}
	}
	if err = request.Normalize(); err != nil {
		return nil, err
	}
	var response *transactionModel.Transaction
	err = q.inTx(ctx, tx, ctxt, func(tx pgx.Tx) (err error) {
		if _, err = q.transactionQuery.LockTransaction(ctx, tx, id); err != nil {
			helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrLockTransaction")
			return
		}
		if response, err = q.transactionQuery.UpdateTransaction(
			ctx,
			tx,
			&transactionModel.Transaction{
				ID:              id,
				TransactionDate: request.TransactionDate,
				Status:          request.Status,
				UpdatedBy:       identity.ID,
			},
		); err != nil {
			helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrUpdateTransaction")
			return
		}
		return q.setAssociations(ctx, tx, ctxt, response, request)
	})
	if err != nil {
		return nil, err
	}
	if tx == nil {
		q.invalidate(ctx, id)
	}
	return response, nil
}

// Remove stamps deleted_by and deletes the row in the same transaction, it
// returns the record as it was right before deletion. With a caller tx the
// cached view is left alone, see TransactionUseCase.
func (q *transactionUseCase) Remove(ctx context.Context, tx pgx.Tx, id string, identity models.Identity) (*transactionModel.Transaction, error) {
	ctxt := "TransactionUseCase-Remove"
	id, err := helper.NormalizeUUID(id)
	if err != nil {
		return nil, err
	}
	var response *transactionModel.Transaction
	err = q.inTx(ctx, tx, ctxt, func(tx pgx.Tx) (err error) {
		if response, err = q.transactionQuery.LockTransaction(ctx, tx, id); err != nil {
			helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrLockTransaction")
			return
		}
		if err = q.transactionQuery.StampDeletion(ctx, tx, id, identity.ID); err != nil {
			helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrStampDeletion")
			return
		}
		if err = q.transactionQuery.DeleteTransaction(ctx, tx, id); err != nil {
			helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrDeleteTransaction")
			return
		}
		response.DeletedBy = identity.ID
		return
	})
	if err != nil {
		return nil, err
	}
	if tx == nil {
		q.invalidate(ctx, id)
	}
	return response, nil
}

// cacheKey reports the id of a lookup constrained by id alone.
func cacheKey(filter *transactionModel.Filter) (string, bool) {
	if filter.ID == "" ||
		filter.TransactionDateRange != nil ||
		transactionModel.ParseActive(filter.Active) != nil ||
		filter.Status != "" ||
		filter.Buyer != "" ||
		filter.Racket != "" ||
		filter.CreatedAtRange != nil {
		return "", false
	}
	id, err := helper.NormalizeUUID(filter.ID)
	if err != nil {
		return "", false
	}
	return id, true
}

// FindBy returns the first match or nil, with buyer and racket resolved by
// separate lookups.
func (q *transactionUseCase) FindBy(ctx context.Context, tx pgx.Tx, filter *transactionModel.Filter) (*transactionModel.Transaction, error) {
	ctxt := "TransactionUseCase-FindBy"
	if filter == nil {
		filter = transactionModel.NewFilter()
	}
	key, cacheable := cacheKey(filter)
	cacheable = cacheable && tx == nil && q.cache != nil
	if cacheable {
		if transaction, ok := q.cache.Get(ctx, key); ok {
			return transaction, nil
		}
	}
	lookup := *filter
	lookup.Limit = 1
	lookup.Page = 0
	listQuery, err := transactionModel.BuildListQuery(&lookup)
	if err != nil {
		return nil, err
	}
	transactions, _, err := q.transactionQuery.FindTransactions(ctx, tx, listQuery, false)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrFindTransactions")
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, nil
	}
	response := *transactions[0]
	response.Buyer = nil
	response.Racket = nil
	if response.BuyerID != nil {
		if response.Buyer, err = q.userUseCase.FindUserByID(ctx, tx, *response.BuyerID); err != nil {
			helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrFindUserByID")
			return nil, err
		}
	}
	if response.RacketID != nil {
		if response.Racket, err = q.racketUseCase.FindRacketByID(ctx, tx, *response.RacketID); err != nil {
			helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrFindRacketByID")
			return nil, err
		}
	}
	if cacheable {
		q.cache.Set(ctx, key, &response)
	}
	return &response, nil
}

func (q *transactionUseCase) FindAll(ctx context.Context, tx pgx.Tx, filter *transactionModel.Filter, countOnly bool) ([]*transactionModel.Transaction, int64, *models.Pagination, error) {
	ctxt := "TransactionUseCase-FindAll"
	if filter == nil {
		filter = transactionModel.NewFilter()
	}
	listQuery, err := transactionModel.BuildListQuery(filter)
	if err != nil {
		return nil, 0, nil, err
	}
	transactions, total, err := q.transactionQuery.FindTransactions(ctx, tx, listQuery, countOnly)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrFindTransactions")
		return nil, 0, nil, err
	}
	rows := make([]*transactionModel.Transaction, len(transactions))
	copy(rows, transactions)
	pages, err := helper.CountPages(total, filter.Limit)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrCountPages")
		return nil, 0, nil, err
	}
	pagination, err := helper.SetPagination(total, pages, filter.Limit, filter.Page, filter.PaginationURL, filter.UrlValues)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrSetPagination")
		return nil, 0, nil, err
	}
	return rows, total, pagination, nil
}

func (q *transactionUseCase) FindAllAutocomplete(ctx context.Context, query string, limit int64) ([]*transactionModel.Autocomplete, error) {
	ctxt := "TransactionUseCase-FindAllAutocomplete"
	if limit < 0 {
		return nil, transactionModel.ErrInvalidLimit
	}
	response, err := q.transactionQuery.FindAutocomplete(ctx, query, limit)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrFindAutocomplete")
	}
	return response, err
}

// ConsumeMessage drops cached views of updated or deleted transactions so
// every instance sharing the cache stops serving them.
func (q *transactionUseCase) ConsumeMessage(ctx context.Context) error {
	ctxt := "TransactionUseCase-ConsumeMessage"
	var counter uint64
	helper.Log(ctx, zap.InfoLevel, fmt.Sprintf("consume topic %s", config.TopicTransaction), ctxt, "")
	err := q.nsqConsumer.AddHandler(ctx, func(message *nsq.Message) error {
		now := time.Now()
		atomic.AddUint64(&counter, 1)
		var body models.Message
		if err := json.Unmarshal(message.Body, &body); err != nil {
			message.Finish()
			helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrUnmarshal")
			return nil
		}
		q.handleMessage(ctx, body)
		message.Finish()
		duration := time.Since(now)
		helper.Log(
			ctx,
			zap.InfoLevel,
			fmt.Sprintf(
				"message on topic %s@%d: %s, consumed in %s",
				config.TopicTransaction,
				atomic.LoadUint64(&counter),
				helper.ByteSlice2String(message.Body),
				duration.String(),
			),
			ctxt,
			"",
		)
		return nil
	})
	if err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrAddHandler")
	}
	return err
}

func (q *transactionUseCase) handleMessage(ctx context.Context, message models.Message) {
	switch message.Action {
	case models.ActionUpdate, models.ActionDelete:
		q.invalidate(ctx, message.ID)
	}
}

func (q *transactionUseCase) StopConsumer() {
	q.nsqConsumer.Stop()
}
