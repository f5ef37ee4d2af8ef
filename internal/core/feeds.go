package core

import (
	"context"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/data"
	"github.com/siahsang/yatube/internal/filter"
	"github.com/siahsang/yatube/models"
)

// Feed is one page of posts, newest first.
type Feed struct {
	Posts    []*models.Post  `json:"posts"`
	Metadata filter.Metadata `json:"metadata"`
}

type GroupFeed struct {
	Group *models.Group `json:"group"`
	*Feed
}

type ProfileFeed struct {
	Author *models.Profile `json:"author"`
	*Feed
}

func postQueryByAuthor(authorID int64) data.PostQuery {
	return data.PostQuery{AuthorID: &authorID}
}

// feed counts the matching posts first so that an out-of-range page can be
// clamped to the last page before it is loaded.
func (c *Core) feed(ctx context.Context, q data.PostQuery, page int64) (*Feed, error) {
	total, err := c.models.Posts.Count(ctx, q)
	if err != nil {
		return nil, err
	}

	f := filter.NewFilter(page, c.pageSize).Clamp(total)
	posts, err := c.models.Posts.Query(ctx, q, f)
	if err != nil {
		return nil, err
	}

	return &Feed{
		Posts:    posts,
		Metadata: filter.CalculateMetadata(total, f),
	}, nil
}

func (c *Core) IndexFeed(ctx context.Context, page int64) (*Feed, error) {
	return c.feed(ctx, data.PostQuery{}, page)
}

func (c *Core) GroupFeed(ctx context.Context, slug string, page int64) (*GroupFeed, error) {
	group, err := c.models.Groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	feed, err := c.feed(ctx, data.PostQuery{GroupID: &group.ID}, page)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, Feed: feed}, nil
}

// ProfileFeed lists the posts of one author. Following reports whether
// viewer follows that author and is false for anonymous viewers.
func (c *Core) ProfileFeed(ctx context.Context, username string, viewer *auth.User, page int64) (*ProfileFeed, error) {
	author, err := c.models.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	feed, err := c.feed(ctx, postQueryByAuthor(author.ID), page)
	if err != nil {
		return nil, err
	}

	following, err := c.IsFollowing(ctx, viewer, author.ID)
	if err != nil {
		return nil, err
	}

	followers, err := c.models.Follows.CountFollowers(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		ID:             author.ID,
		Username:       author.Username,
		PostsCount:     feed.Metadata.TotalRecords,
		FollowersCount: followers,
		Following:      following,
	}
	return &ProfileFeed{Author: profile, Feed: feed}, nil
}

// FollowFeed lists the posts of every author viewer follows.
func (c *Core) FollowFeed(ctx context.Context, viewer *auth.User, page int64) (*Feed, error) {
	if viewer == nil {
		return nil, xerrors.New(ErrAuthenticationRequired)
	}
	return c.feed(ctx, data.PostQuery{FollowerID: &viewer.ID}, page)
}
