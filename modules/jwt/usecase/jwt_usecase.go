package usecase

import (
	"context"
	"crypto/rsa"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/roysitumorang/raket/helper"
	"github.com/roysitumorang/raket/models"
	jwtModel "github.com/roysitumorang/raket/modules/jwt/model"
	jwtQuery "github.com/roysitumorang/raket/modules/jwt/query"
	"go.uber.org/zap"
)

type (
	jwtUseCase struct {
		jwtQuery jwtQuery.JwtQuery
	}
)

func New(
	jwtQuery jwtQuery.JwtQuery,
) JwtUseCase {
	return &jwtUseCase{
		jwtQuery: jwtQuery,
	}
}

func (q *jwtUseCase) CreateJWT(ctx context.Context, tx pgx.Tx, request *jwtModel.JsonWebToken) error {
	ctxt := "JwtUseCase-CreateJWT"
	err := q.jwtQuery.CreateJWT(ctx, tx, request)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrCreateJWT")
	}
	return err
}

// IssueJWT registers a token for userID and returns it signed. The opaque
// token travels as the subject, the user id as the audience.
func (q *jwtUseCase) IssueJWT(ctx context.Context, tx pgx.Tx, userID string, age time.Duration, privateKey *rsa.PrivateKey) (string, *jwtModel.JsonWebToken, error) {
	ctxt := "JwtUseCase-IssueJWT"
	_, token, jwtID, err := helper.GenerateUniqueID()
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrGenerateUniqueID")
		return "", nil, err
	}
	now := time.Now()
	request := jwtModel.JsonWebToken{
		ID:        jwtID,
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiredAt: now.Add(age),
	}
	accessToken, err := helper.GenerateAccessToken(request.ID, request.Token, request.UserID, request.CreatedAt, request.ExpiredAt, privateKey)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrGenerateAccessToken")
		return "", nil, err
	}
	if err = q.CreateJWT(ctx, tx, &request); err != nil {
		return "", nil, err
	}
	return accessToken, &request, nil
}

func (q *jwtUseCase) DeleteJWTs(ctx context.Context, tx pgx.Tx, filter *jwtModel.DeleteFilter) (int64, error) {
	ctxt := "JwtUseCase-DeleteJWTs"
	rowsAffected, err := q.jwtQuery.DeleteJWTs(ctx, tx, filter)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrDeleteJWTs")
	}
	return rowsAffected, err
}

func (q *jwtUseCase) DeleteExpiredJWTs(ctx context.Context) (int64, error) {
	now := time.Now()
	return q.DeleteJWTs(ctx, nil, &jwtModel.DeleteFilter{MaxExpiredAt: &now})
}

func (q *jwtUseCase) FindJWTs(ctx context.Context, filter *jwtModel.Filter) ([]*jwtModel.JsonWebToken, *models.Pagination, error) {
	ctxt := "JwtUseCase-FindJWTs"
	rows, total, err := q.jwtQuery.FindJWTs(ctx, filter)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrFindJWTs")
		return nil, nil, err
	}
	pages, err := helper.CountPages(total, filter.Limit)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrCountPages")
		return nil, nil, err
	}
	pagination, err := helper.SetPagination(total, pages, filter.Limit, filter.Page, filter.PaginationURL, filter.UrlValues)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrSetPagination")
		return nil, nil, err
	}
	return rows, pagination, nil
}
