package tasks

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

const (
	table       = "tasks"
	ownerColumn = "user_id"
)

var taskColumns = []string{"id", "title", "description", "status", "user_id", "created_at"}

// SQLRepository implements Repository on top of database/sql.
type SQLRepository struct {
	db dbx.DBTX
	qb *query.Builder
}

func NewSQLRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, qb: query.New(d)}
}

func (r *SQLRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.Status == "" {
		task.Status = common.DefaultTaskStatus
	}

	q, args, err := r.qb.Insert(table).
		Set("title", task.Title).
		Set("description", task.Description).
		Set("status", task.Status).
		Owned(ownerColumn, task.UserID).
		Returning("id").
		Build()
	if err != nil {
		return nil, err
	}

	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&task.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, ownerID, id int64) (*models.Task, error) {
	q, args, err := r.qb.Owned(table, ownerColumn, ownerID).Columns(taskColumns...).Eq("id", id).Build()
	if err != nil {
		return nil, err
	}

	t, err := scanTask(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *SQLRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Task, error) {
	return r.list(ctx, r.qb.Owned(table, ownerColumn, ownerID).Columns(taskColumns...).OrderBy("id", false))
}

func (r *SQLRepository) SearchByTitle(ctx context.Context, ownerID int64, term string) ([]*models.Task, error) {
	return r.list(ctx, r.qb.Owned(table, ownerColumn, ownerID).Columns(taskColumns...).Contains("title", term).OrderBy("id", false))
}

func (r *SQLRepository) list(ctx context.Context, s *query.Select) ([]*models.Task, error) {
	q, args, err := s.Build()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	t := &models.Task{}
	var desc sql.NullString
	if err := s.Scan(&t.ID, &t.Title, &desc, &t.Status, &t.UserID, &t.CreatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		t.Description = &desc.String
	}
	return t, nil
}
