package repo

import (
	"context"
	"database/sql"
	"errors"

	dom "github.com/birlikkoshan/todo-live/internal/domain"
)

// SQLiteTodoRepo stores todos through database/sql. It is used with the
// mattn/go-sqlite3 driver.
type SQLiteTodoRepo struct {
	db *sql.DB
}

func NewSQLiteTodoRepo(db *sql.DB) *SQLiteTodoRepo {
	return &SQLiteTodoRepo{db: db}
}

func (r *SQLiteTodoRepo) Insert(ctx context.Context, description string) (dom.Todo, error) {
	query := `
		INSERT INTO todos (description)
		VALUES (?)
		RETURNING id, description, completed`
	var out dom.Todo
	err := r.db.QueryRowContext(ctx, query, description).Scan(&out.ID, &out.Description, &out.Completed)
	return out, err
}

func (r *SQLiteTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, description, completed FROM todos ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []dom.Todo{}
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.Description, &t.Completed); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *SQLiteTodoRepo) GetByID(ctx context.Context, id int64) (dom.Todo, error) {
	var t dom.Todo
	err := r.db.QueryRowContext(ctx, `SELECT id, description, completed FROM todos WHERE id = ?`, id).
		Scan(&t.ID, &t.Description, &t.Completed)
	return t, sqlNotFound(err)
}

func (r *SQLiteTodoRepo) UpdateCompleted(ctx context.Context, id int64, completed bool) (dom.Todo, error) {
	query := `
		UPDATE todos SET completed = ?
		WHERE id = ?
		RETURNING id, description, completed`
	var t dom.Todo
	err := r.db.QueryRowContext(ctx, query, completed, id).Scan(&t.ID, &t.Description, &t.Completed)
	return t, sqlNotFound(err)
}

func (r *SQLiteTodoRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func sqlNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
