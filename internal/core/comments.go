package core

import (
	"context"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
	"github.com/siahsang/yatube/internal/validator"
	"github.com/siahsang/yatube/models"
)

// AddComment attaches a comment by author to a post. Anonymous authors are
// rejected before anything is read or written.
func (c *Core) AddComment(ctx context.Context, postID int64, author *auth.User, text string) (*models.Comment, error) {
	if author == nil {
		return nil, xerrors.New(ErrAuthenticationRequired)
	}

	v := validator.New()
	v.CheckNotBlank(text, "text", "This field is required.")
	if !v.IsValid() {
		return nil, newValidationError(v.Errors)
	}

	comment, err := databaseutils.DoTransactionally(ctx, c.session, func(txCtx context.Context) (*models.Comment, error) {
		if _, err := c.models.Posts.Get(txCtx, postID); err != nil {
			return nil, err
		}

		comment := &models.Comment{
			PostID:    postID,
			AuthorID:  author.ID,
			Author:    author.Username,
			Text:      strings.TrimSpace(text),
			CreatedAt: c.now(),
		}
		if err := c.models.Comments.Insert(txCtx, comment); err != nil {
			return nil, err
		}
		return comment, nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("Comment added", "post_id", postID, "comment_id", comment.ID, "author", author.Username)
	return comment, nil
}

func (c *Core) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	return c.models.Comments.ListByPost(ctx, postID)
}
