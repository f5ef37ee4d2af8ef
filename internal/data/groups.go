package data

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
	"github.com/siahsang/yatube/models"
)

type GroupModel struct {
	sqlTemplate *databaseutils.SQLTemplate
	log         *slog.Logger
}

const selectGroupSQL = `
	SELECT id, title, slug, description
	FROM post_groups
`

func scanGroup(rows *sql.Rows) (*models.Group, error) {
	var group models.Group
	if err := rows.Scan(&group.ID, &group.Title, &group.Slug, &group.Description); err != nil {
		return nil, xerrors.New(err)
	}
	return &group, nil
}

func (m GroupModel) Insert(ctx context.Context, group *models.Group) error {
	query := `
		INSERT INTO post_groups (title, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	_, err := databaseutils.ExecuteSingleQuery(m.sqlTemplate, ctx, query, func(rows *sql.Rows) (*models.Group, error) {
		if err := rows.Scan(&group.ID); err != nil {
			return nil, xerrors.New(err)
		}
		return group, nil
	}, group.Title, group.Slug, group.Description)

	if err != nil {
		switch {
		case databaseutils.IsUniqueViolation(err):
			return xerrors.New(ErrDuplicateSlug)
		default:
			return xerrors.New(err)
		}
	}
	return nil
}

func (m GroupModel) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	return m.getOne(ctx, selectGroupSQL+` WHERE slug = $1`, slug)
}

func (m GroupModel) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	return m.getOne(ctx, selectGroupSQL+` WHERE id = $1`, id)
}

func (m GroupModel) getOne(ctx context.Context, query string, args ...any) (*models.Group, error) {
	group, err := databaseutils.ExecuteSingleQuery(m.sqlTemplate, ctx, query, scanGroup, args...)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}
	return group, nil
}

func (m GroupModel) All(ctx context.Context) ([]*models.Group, error) {
	groups, err := databaseutils.ExecuteQuery(m.sqlTemplate, ctx, selectGroupSQL+` ORDER BY title, id`, scanGroup)
	if err != nil {
		return nil, xerrors.New(err)
	}
	return groups, nil
}
