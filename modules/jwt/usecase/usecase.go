package usecase

import (
	"context"
	"crypto/rsa"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/roysitumorang/raket/models"
	jwtModel "github.com/roysitumorang/raket/modules/jwt/model"
)

type (
	JwtUseCase interface {
		CreateJWT(ctx context.Context, tx pgx.Tx, request *jwtModel.JsonWebToken) error
		IssueJWT(ctx context.Context, tx pgx.Tx, userID string, age time.Duration, privateKey *rsa.PrivateKey) (string, *jwtModel.JsonWebToken, error)
		DeleteJWTs(ctx context.Context, tx pgx.Tx, filter *jwtModel.DeleteFilter) (int64, error)
		DeleteExpiredJWTs(ctx context.Context) (int64, error)
		FindJWTs(ctx context.Context, filter *jwtModel.Filter) ([]*jwtModel.JsonWebToken, *models.Pagination, error)
	}
)
