package core

import (
	"context"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/models"
)

// Follow makes user a follower of the named author. Following twice keeps a
// single edge and following yourself does nothing.
func (c *Core) Follow(ctx context.Context, user *auth.User, authorUsername string) error {
	if user == nil {
		return xerrors.New(ErrAuthenticationRequired)
	}

	author, err := c.models.Users.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	if author.ID == user.ID {
		return nil
	}

	created, err := c.models.Follows.Insert(ctx, &models.Follow{
		UserID:    user.ID,
		AuthorID:  author.ID,
		CreatedAt: c.now(),
	})
	if err != nil {
		return err
	}

	if created {
		c.log.Info("Author followed", "user", user.Username, "author", author.Username)
	}
	return nil
}

// Unfollow removes the edge from user to the named author if there is one.
func (c *Core) Unfollow(ctx context.Context, user *auth.User, authorUsername string) error {
	if user == nil {
		return xerrors.New(ErrAuthenticationRequired)
	}

	author, err := c.models.Users.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}

	removed, err := c.models.Follows.Delete(ctx, user.ID, author.ID)
	if err != nil {
		return err
	}

	if removed {
		c.log.Info("Author unfollowed", "user", user.Username, "author", author.Username)
	}
	return nil
}

func (c *Core) IsFollowing(ctx context.Context, viewer *auth.User, authorID int64) (bool, error) {
	if viewer == nil || viewer.ID == authorID {
		return false, nil
	}
	return c.models.Follows.Exists(ctx, viewer.ID, authorID)
}
