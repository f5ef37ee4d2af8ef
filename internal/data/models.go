package data

import (
	"log/slog"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
)

var (
	NoRecordFound        = xerrors.Message("No record found")
	ErrDuplicateUsername = xerrors.Message("Duplicate username")
	ErrDuplicateSlug     = xerrors.Message("Duplicate slug")
)

// Models groups the repositories of every entity. Each repository runs its
// statements inside the transaction carried by the context, if any.
type Models struct {
	Users    UserModel
	Groups   GroupModel
	Posts    PostModel
	Comments CommentModel
	Follows  FollowModel
}

func NewModels(sqlTemplate *databaseutils.SQLTemplate, log *slog.Logger) Models {
	return Models{
		Users:    UserModel{sqlTemplate: sqlTemplate, log: log},
		Groups:   GroupModel{sqlTemplate: sqlTemplate, log: log},
		Posts:    PostModel{sqlTemplate: sqlTemplate, log: log},
		Comments: CommentModel{sqlTemplate: sqlTemplate, log: log},
		Follows:  FollowModel{sqlTemplate: sqlTemplate, log: log},
	}
}
