package data

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
	"github.com/siahsang/yatube/models"
)

type CommentModel struct {
	sqlTemplate *databaseutils.SQLTemplate
	log         *slog.Logger
}

func (m CommentModel) Insert(ctx context.Context, comment *models.Comment) error {
	insertSQL := `
		INSERT INTO comments (text, author_id, post_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	_, err := databaseutils.ExecuteSingleQuery(m.sqlTemplate, ctx, insertSQL, func(rows *sql.Rows) (*models.Comment, error) {
		if err := rows.Scan(&comment.ID); err != nil {
			return nil, xerrors.New(err)
		}
		return comment, nil
	}, comment.Text, comment.AuthorID, comment.PostID, comment.CreatedAt)

	if err != nil {
		return xerrors.New(err)
	}

	return nil
}

// ListByPost returns the comments of a post, oldest first.
func (m CommentModel) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, u.username, c.text, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at, c.id
	`

	comments, err := databaseutils.ExecuteQuery(m.sqlTemplate, ctx, query, func(rows *sql.Rows) (*models.Comment, error) {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Author, &comment.Text, &comment.CreatedAt); err != nil {
			return nil, xerrors.New(err)
		}
		return &comment, nil
	}, postID)

	if err != nil {
		return nil, xerrors.New(err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return comments, nil
}

func (m CommentModel) CountByPost(ctx context.Context, postID int64) (int64, error) {
	count, err := databaseutils.ExecuteCount(m.sqlTemplate, ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID)
	if err != nil {
		return 0, xerrors.New(err)
	}
	return count, nil
}
