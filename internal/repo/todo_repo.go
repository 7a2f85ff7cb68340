package repo

import (
	"context"
	"errors"

	dom "github.com/birlikkoshan/todo-live/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("todo not found")

// TodoRepo is the todos table. Writes return the row as stored after the write.
type TodoRepo interface {
	Insert(ctx context.Context, description string) (dom.Todo, error)
	List(ctx context.Context) ([]dom.Todo, error)
	GetByID(ctx context.Context, id int64) (dom.Todo, error)
	UpdateCompleted(ctx context.Context, id int64, completed bool) (dom.Todo, error)
	Delete(ctx context.Context, id int64) error
}

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) Insert(ctx context.Context, description string) (dom.Todo, error) {
	query := `
		INSERT INTO todos (description)
		VALUES ($1)
		RETURNING id, description, completed`
	var out dom.Todo
	err := r.db.QueryRow(ctx, query, description).Scan(&out.ID, &out.Description, &out.Completed)
	return out, err
}

func (r *PGTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	rows, err := r.db.Query(ctx, `SELECT id, description, completed FROM todos ORDER BY id`)
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

func (r *PGTodoRepo) GetByID(ctx context.Context, id int64) (dom.Todo, error) {
	var t dom.Todo
	err := r.db.QueryRow(ctx, `SELECT id, description, completed FROM todos WHERE id = $1`, id).
		Scan(&t.ID, &t.Description, &t.Completed)
	return t, pgNotFound(err)
}

func (r *PGTodoRepo) UpdateCompleted(ctx context.Context, id int64, completed bool) (dom.Todo, error) {
	query := `
		UPDATE todos SET completed = $2
		WHERE id = $1
		RETURNING id, description, completed`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, completed).Scan(&t.ID, &t.Description, &t.Completed)
	return t, pgNotFound(err)
}

func (r *PGTodoRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func pgNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
