package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/filter"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
	"github.com/siahsang/yatube/models"
)

type PostModel struct {
	sqlTemplate *databaseutils.SQLTemplate
	log         *slog.Logger
}

// PostQuery narrows a post listing. Unset fields do not filter.
type PostQuery struct {
	AuthorID *int64
	GroupID  *int64
	// FollowerID keeps only posts whose author is followed by this user.
	FollowerID *int64
}

const selectPostSQL = `
	SELECT p.id, p.text, p.author_id, u.username, p.group_id, g.title, g.slug, g.description, p.image, p.created_at
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN post_groups g ON g.id = p.group_id
`

const postOrderSQL = ` ORDER BY p.created_at DESC, p.id DESC`

func (q PostQuery) build(args []any) (string, []any) {
	var joins, conditions []string

	if q.FollowerID != nil {
		args = append(args, *q.FollowerID)
		joins = append(joins, fmt.Sprintf(`JOIN follows f ON f.author_id = p.author_id AND f.user_id = $%d`, len(args)))
	}
	if q.GroupID != nil {
		args = append(args, *q.GroupID)
		conditions = append(conditions, fmt.Sprintf(`p.group_id = $%d`, len(args)))
	}
	if q.AuthorID != nil {
		args = append(args, *q.AuthorID)
		conditions = append(conditions, fmt.Sprintf(`p.author_id = $%d`, len(args)))
	}

	clause := strings.Join(joins, " ")
	if len(conditions) > 0 {
		clause += " WHERE " + strings.Join(conditions, " AND ")
	}
	return clause, args
}

func scanPost(rows *sql.Rows) (*models.Post, error) {
	var (
		post                     models.Post
		groupID                  sql.NullInt64
		title, slug, description sql.NullString
		image                    sql.NullString
	)

	if err := rows.Scan(
		&post.ID,
		&post.Text,
		&post.AuthorID,
		&post.Author,
		&groupID,
		&title,
		&slug,
		&description,
		&image,
		&post.CreatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}

	if groupID.Valid {
		id := groupID.Int64
		post.GroupID = &id
		post.Group = &models.Group{
			ID:          id,
			Title:       title.String,
			Slug:        slug.String,
			Description: description.String,
		}
	}
	if image.Valid {
		path := image.String
		post.Image = &path
	}

	return &post, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

// Insert stores a new post and sets its ID.
func (m PostModel) Insert(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (text, author_id, group_id, image, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	args := []any{post.Text, post.AuthorID, nullInt64(post.GroupID), nullString(post.Image), post.CreatedAt}

	id, err := databaseutils.ExecuteSingleQuery(m.sqlTemplate, ctx, query, func(rows *sql.Rows) (int64, error) {
		var id int64
		err := rows.Scan(&id)
		return id, err
	}, args...)
	if err != nil {
		return xerrors.New(err)
	}

	post.ID = id
	return nil
}

func (m PostModel) Get(ctx context.Context, id int64) (*models.Post, error) {
	post, err := databaseutils.ExecuteSingleQuery(m.sqlTemplate, ctx, selectPostSQL+` WHERE p.id = $1`, scanPost, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}
	return post, nil
}

// Update replaces the mutable columns of a post in one statement. The
// author guard makes the statement a no-op for anyone but the author; the
// returned count tells the caller whether a row changed.
func (m PostModel) Update(ctx context.Context, post *models.Post) (int64, error) {
	query := `
		UPDATE posts
		SET text = $1, group_id = $2, image = $3
		WHERE id = $4 AND author_id = $5
	`
	args := []any{post.Text, nullInt64(post.GroupID), nullString(post.Image), post.ID, post.AuthorID}

	affected, err := databaseutils.ExecuteUpdate(m.sqlTemplate, ctx, query, args...)
	if err != nil {
		return 0, xerrors.New(err)
	}
	return affected, nil
}

// Query returns one page of the posts matching q, newest first.
func (m PostModel) Query(ctx context.Context, q PostQuery, f filter.Filter) ([]*models.Post, error) {
	clause, args := q.build(nil)
	args = append(args, f.Limit(), f.Offset())
	query := fmt.Sprintf(`%s %s %s LIMIT $%d OFFSET $%d`, selectPostSQL, clause, postOrderSQL, len(args)-1, len(args))

	posts, err := databaseutils.ExecuteQuery(m.sqlTemplate, ctx, query, scanPost, args...)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (m PostModel) Count(ctx context.Context, q PostQuery) (int64, error) {
	clause, args := q.build(nil)
	count, err := databaseutils.ExecuteCount(m.sqlTemplate, ctx, `SELECT COUNT(*) FROM posts p `+clause, args...)
	if err != nil {
		return 0, xerrors.New(err)
	}
	return count, nil
}
