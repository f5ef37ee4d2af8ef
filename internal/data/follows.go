package data

import (
	"context"
	"log/slog"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
	"github.com/siahsang/yatube/models"
)

type FollowModel struct {
	sqlTemplate *databaseutils.SQLTemplate
	log         *slog.Logger
}

// Insert creates the edge unless it already exists. The unique pair
// constraint decides between concurrent inserts; the loser affects no rows.
func (m FollowModel) Insert(ctx context.Context, follow *models.Follow) (bool, error) {
	insertSQL := `
		INSERT INTO follows (user_id, author_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, author_id) DO NOTHING
	`

	affected, err := databaseutils.ExecuteUpdate(m.sqlTemplate, ctx, insertSQL, follow.UserID, follow.AuthorID, follow.CreatedAt)
	if err != nil {
		return false, xerrors.New(err)
	}

	return affected > 0, nil
}

func (m FollowModel) Delete(ctx context.Context, userID, authorID int64) (bool, error) {
	deleteSQL := `
		DELETE FROM follows
		WHERE user_id = $1 AND author_id = $2
	`

	affected, err := databaseutils.ExecuteUpdate(m.sqlTemplate, ctx, deleteSQL, userID, authorID)
	if err != nil {
		return false, xerrors.New(err)
	}

	return affected > 0, nil
}

func (m FollowModel) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	count, err := databaseutils.ExecuteCount(m.sqlTemplate, ctx, `SELECT COUNT(*) FROM follows WHERE user_id = $1 AND author_id = $2`, userID, authorID)
	if err != nil {
		return false, xerrors.New(err)
	}
	return count > 0, nil
}

func (m FollowModel) CountFollowers(ctx context.Context, authorID int64) (int64, error) {
	count, err := databaseutils.ExecuteCount(m.sqlTemplate, ctx, `SELECT COUNT(*) FROM follows WHERE author_id = $1`, authorID)
	if err != nil {
		return 0, xerrors.New(err)
	}
	return count, nil
}
