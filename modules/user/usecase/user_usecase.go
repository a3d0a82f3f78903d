package usecase

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/roysitumorang/raket/helper"
	userModel "github.com/roysitumorang/raket/modules/user/model"
	userQuery "github.com/roysitumorang/raket/modules/user/query"
	"go.uber.org/zap"
)

type (
	userUseCase struct {
		userQuery userQuery.UserQuery
	}
)

func New(
	userQuery userQuery.UserQuery,
) UserUseCase {
	return &userUseCase{
		userQuery: userQuery,
	}
}

// FindUserByID returns nil without error when no user has the id.
func (q *userUseCase) FindUserByID(ctx context.Context, tx pgx.Tx, id string) (*userModel.User, error) {
	ctxt := "UserUseCase-FindUserByID"
	users, err := q.userQuery.FindUsersByIDs(ctx, tx, id)
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrFindUsersByIDs")
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}
