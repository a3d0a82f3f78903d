package query

import (
	"context"

	"github.com/jackc/pgx/v5"
	userModel "github.com/roysitumorang/raket/modules/user/model"
)

type (
	UserQuery interface {
		FindUsersByIDs(ctx context.Context, tx pgx.Tx, ids ...string) ([]*userModel.User, error)
	}
)
