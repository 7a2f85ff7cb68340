package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	dom "github.com/birlikkoshan/todo-live/internal/domain"
	"github.com/birlikkoshan/todo-live/internal/repo"

	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidDescription = errors.New("description is required")
)

// ListCache is a cache-aside store for the full todo list.
type ListCache interface {
	GetList(ctx context.Context) ([]dom.Todo, error)
	SetList(ctx context.Context, list []dom.Todo) error
	Invalidate(ctx context.Context) error
}

// MutationPublisher announces committed writes to live listeners. It must
// not block and never fails the caller.
type MutationPublisher interface {
	PublishCreate(t dom.Todo)
	PublishUpdate(t dom.Todo)
	PublishDelete(id int64)
}

type TodoService struct {
	repo   repo.TodoRepo
	cache  ListCache
	pub    MutationPublisher
	logger *slog.Logger
	sf     singleflight.Group
	// writes counts cache invalidations. A list fill that overlaps one
	// must not leave its result in the cache.
	writes atomic.Uint64
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c ListCache, pub MutationPublisher, logger *slog.Logger) *TodoService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TodoService{repo: r, cache: c, pub: pub, logger: logger}
}

func (s *TodoService) Create(ctx context.Context, description string) (dom.Todo, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return dom.Todo{}, ErrInvalidDescription
	}
	t, err := s.repo.Insert(ctx, description)
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	s.pub.PublishCreate(t)
	return t, nil
}

func (s *TodoService) List(ctx context.Context) ([]dom.Todo, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}
	v, err, _ := s.sf.Do("list", func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx); err == nil && list != nil {
			return list, nil
		} else if err != nil {
			s.logger.Warn("todo cache read failed", "err", err)
		}
		gen := s.writes.Load()
		list, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if s.writes.Load() != gen {
			return list, nil
		}
		if err := s.cache.SetList(ctx, list); err != nil {
			s.logger.Warn("todo cache write failed", "err", err)
		}
		// A write that committed after the read may have invalidated
		// before SetList landed.
		if s.writes.Load() != gen {
			s.dropCache(ctx)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Todo), nil
}

func (s *TodoService) GetByID(ctx context.Context, id int64) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.Todo{}, notFound(err)
	}
	return t, nil
}

// SetCompleted updates the completed flag and publishes the row as read
// back from the store.
func (s *TodoService) SetCompleted(ctx context.Context, id int64, completed bool) (dom.Todo, error) {
	t, err := s.repo.UpdateCompleted(ctx, id, completed)
	if err != nil {
		return dom.Todo{}, notFound(err)
	}
	s.invalidateCache(ctx)
	s.pub.PublishUpdate(t)
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.invalidateCache(ctx)
	s.pub.PublishDelete(id)
	return nil
}

func (s *TodoService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.writes.Add(1)
	s.dropCache(ctx)
}

func (s *TodoService) dropCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("todo cache invalidation failed", "err", err)
	}
}

func notFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
