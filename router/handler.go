package router

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/roysitumorang/raket/config"
	"github.com/roysitumorang/raket/helper"
	"github.com/roysitumorang/raket/migration"
	jwtQuery "github.com/roysitumorang/raket/modules/jwt/query"
	jwtUseCase "github.com/roysitumorang/raket/modules/jwt/usecase"
	racketQuery "github.com/roysitumorang/raket/modules/racket/query"
	racketUseCase "github.com/roysitumorang/raket/modules/racket/usecase"
	transactionModel "github.com/roysitumorang/raket/modules/transaction/model"
	transactionQuery "github.com/roysitumorang/raket/modules/transaction/query"
	transactionUseCase "github.com/roysitumorang/raket/modules/transaction/usecase"
	userQuery "github.com/roysitumorang/raket/modules/user/query"
	userUseCase "github.com/roysitumorang/raket/modules/user/usecase"
	serviceNsq "github.com/roysitumorang/raket/services/nsq"
	serviceRedis "github.com/roysitumorang/raket/services/redis"
	"go.uber.org/zap"
)

type (
	Service struct {
		DbWrite            *pgxpool.Pool
		Migration          *migration.Migration
		JwtUseCase         jwtUseCase.JwtUseCase
		UserUseCase        userUseCase.UserUseCase
		RacketUseCase      racketUseCase.RacketUseCase
		TransactionUseCase transactionUseCase.TransactionUseCase
		NsqProducer        *serviceNsq.Producer
		Redis              *goredis.Client
	}
)

func MakeHandler(ctx context.Context) (*Service, error) {
	ctxt := "Router-MakeHandler"
	dbRead, err := config.GetDbReadOnly(ctx)
	if err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrGetDbReadOnly")
		return nil, err
	}
	dbWrite, err := config.GetDbWriteOnly(ctx)
	if err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrGetDbWriteOnly")
		return nil, err
	}
	nsqConfig := serviceNsq.NewConfig()
	nsqProducer, err := serviceNsq.NewProducer(ctx, helper.GetNsqAddress(), nsqConfig)
	if err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrNewProducer")
		return nil, err
	}
	var (
		redisClient *goredis.Client
		cache       transactionUseCase.ViewCache
	)
	if redisAddress := helper.GetRedisAddress(); redisAddress != "" {
		if redisClient, err = serviceRedis.NewClient(ctx, redisAddress); err != nil {
			helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrNewClient")
			return nil, err
		}
		cache = serviceRedis.NewViewCache[transactionModel.Transaction](redisClient, config.AppName+":transaction:", helper.GetRedisTTL())
	}
	migration := migration.New(dbRead, dbWrite)
	userQuery := userQuery.New(dbRead)
	racketQuery := racketQuery.New(dbRead)
	jwtQuery := jwtQuery.New(dbRead, dbWrite)
	transactionQuery := transactionQuery.New(dbRead, dbWrite)
	userUseCase := userUseCase.New(userQuery)
	racketUseCase := racketUseCase.New(racketQuery)
	jwtUseCase := jwtUseCase.New(jwtQuery)
	transactionUseCase, err := transactionUseCase.New(
		ctx,
		transactionQuery,
		userUseCase,
		racketUseCase,
		cache,
		helper.GetNsqAddress(),
		nsqConfig,
	)
	if err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrNew")
		return nil, err
	}
	return &Service{
		DbWrite:            dbWrite,
		Migration:          migration,
		JwtUseCase:         jwtUseCase,
		UserUseCase:        userUseCase,
		RacketUseCase:      racketUseCase,
		TransactionUseCase: transactionUseCase,
		NsqProducer:        nsqProducer,
		Redis:              redisClient,
	}, nil
}

// Close releases the broker and cache connections.
func (q *Service) Close() {
	q.TransactionUseCase.StopConsumer()
	q.NsqProducer.Stop()
	if q.Redis != nil {
		_ = q.Redis.Close()
	}
}
