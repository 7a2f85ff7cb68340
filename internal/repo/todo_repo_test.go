package repo

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	dom "github.com/birlikkoshan/todo-live/internal/domain"
)

// newPGRepo migrates and empties the database at TEST_POSTGRES_DSN; the
// test is skipped without it.
func newPGRepo(c *qt.C) *PGTodoRepo {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		c.Skip("TEST_POSTGRES_DSN not set")
	}
	db, err := sql.Open("pgx", dsn)
	c.Assert(err, qt.IsNil)
	defer db.Close()
	c.Assert(Migrate(db, DialectPostgres, slog.New(slog.NewTextHandler(io.Discard, nil))), qt.IsNil)
	_, err = db.Exec("TRUNCATE todos RESTART IDENTITY")
	c.Assert(err, qt.IsNil)

	pool, err := pgxpool.New(context.Background(), dsn)
	c.Assert(err, qt.IsNil)
	c.Cleanup(pool.Close)
	return NewPGTodoRepo(pool)
}

func TestPGLifecycle(t *testing.T) {
	c := qt.New(t)
	r := newPGRepo(c)
	ctx := context.Background()

	created, err := r.Insert(ctx, "buy milk")
	c.Assert(err, qt.IsNil)
	c.Assert(created, qt.Equals, dom.Todo{ID: 1, Description: "buy milk"})

	updated, err := r.UpdateCompleted(ctx, created.ID, true)
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Completed, qt.IsTrue)

	list, err := r.List(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.DeepEquals, []dom.Todo{updated})

	c.Assert(r.Delete(ctx, created.ID), qt.IsNil)
	c.Assert(r.Delete(ctx, created.ID), qt.ErrorIs, ErrNotFound)
	_, err = r.GetByID(ctx, created.ID)
	c.Assert(err, qt.ErrorIs, ErrNotFound)
	_, err = r.UpdateCompleted(ctx, created.ID, false)
	c.Assert(err, qt.ErrorIs, ErrNotFound)
}
