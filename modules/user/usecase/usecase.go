package usecase

import (
	"context"

	"github.com/jackc/pgx/v5"
	userModel "github.com/roysitumorang/raket/modules/user/model"
)

type (
	UserUseCase interface {
		FindUserByID(ctx context.Context, tx pgx.Tx, id string) (*userModel.User, error)
	}
)
