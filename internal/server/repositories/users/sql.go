package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/query"
)

var userColumns = []string{"id", "username", "password_hash", "email", "created_at"}

// SQLRepository implements Repository on top of database/sql for any
// supported dialect.
type SQLRepository struct {
	db dbx.DBTX
	qb *query.Builder
}

func NewSQLRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, qb: query.New(d)}
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	q, args, err := r.qb.Insert("users").
		Set("username", user.UserName).
		Set("password_hash", user.PasswordHash).
		Set("email", nullString(user.Email)).
		Returning("id").
		Build()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, q, args...).Scan(&user.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	q, args, err := r.qb.From("users").Columns(userColumns...).Eq("username", userName).Build()
	if err != nil {
		return nil, err
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) GetUsersByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q, args, err := r.qb.From("users").Columns(userColumns...).In("id", ids).OrderBy("id", false).Build()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*models.User, error) {
	u := &models.User{}
	var email sql.NullString
	if err := s.Scan(&u.ID, &u.UserName, &u.PasswordHash, &email, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Email = email.String
	return u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
