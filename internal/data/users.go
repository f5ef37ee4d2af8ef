package data

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
)

type UserModel struct {
	sqlTemplate *databaseutils.SQLTemplate
	log         *slog.Logger
}

const selectUserSQL = `
	SELECT id, username, email, password, created_at
	FROM users
`

func scanUser(rows *sql.Rows) (*auth.User, error) {
	var user = &auth.User{}

	if err := rows.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return user, nil
}

func (m UserModel) Insert(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (username, email, password, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	args := []any{user.Username, user.Email, user.Password, user.CreatedAt}
	_, err := databaseutils.ExecuteSingleQuery(m.sqlTemplate, ctx, query, func(rows *sql.Rows) (*auth.User, error) {
		if err := rows.Scan(&user.ID); err != nil {
			return nil, xerrors.New(err)
		}
		return user, nil
	}, args...)

	if err != nil {
		switch {
		case databaseutils.IsUniqueViolation(err):
			return xerrors.New(ErrDuplicateUsername)
		default:
			return xerrors.New(err)
		}
	}

	return nil
}

func (m UserModel) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	return m.getOne(ctx, selectUserSQL+` WHERE username = $1`, username)
}

func (m UserModel) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	return m.getOne(ctx, selectUserSQL+` WHERE id = $1`, id)
}

func (m UserModel) getOne(ctx context.Context, query string, args ...any) (*auth.User, error) {
	user, err := databaseutils.ExecuteSingleQuery(m.sqlTemplate, ctx, query, scanUser, args...)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return user, nil
}
