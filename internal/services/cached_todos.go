package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"todo-tracker/backend/internal/cache"
	"todo-tracker/backend/internal/models"
	"todo-tracker/backend/internal/worker"

	"github.com/gofrs/uuid"
	"golang.org/x/sync/singleflight"
)

const listCacheKey = "todos:all"

func todoCacheKey(id string) string {
	return fmt.Sprintf("todo:%s", id)
}

// canonicalID returns the form of id used in cache keys, so "ABC..." and
// "abc..." share one entry.
func canonicalID(id string) (string, bool) {
	u, err := uuid.FromString(strings.TrimSpace(id))
	if err != nil {
		return "", false
	}
	return u.String(), true
}

// WarmupQueue schedules background cache warmups.
type WarmupQueue interface {
	Enqueue(ctx context.Context, queue string, jobType worker.JobType, payload map[string]interface{}) error
}

type CachedTodoServiceConfig struct {
	TodoTTL time.Duration
	ListTTL time.Duration
	// Queue may be nil, in which case the list is rebuilt on the next read.
	Queue WarmupQueue
}

// CachedTodoService serves reads from cache and evicts on every mutation.
// Cache failures are logged and never fail a request.
//
// Loads capture a generation before reading the store and only write
// their result back if no mutation has happened since, so a slow read
// cannot re-cache data that a completed mutation already replaced.
type CachedTodoService struct {
	todos   TodoService
	cache   cache.Cache
	queue   WarmupQueue
	todoTTL time.Duration
	listTTL time.Duration
	sf      singleflight.Group

	mu  sync.Mutex
	gen uint64
}

func NewCachedTodoService(todos TodoService, c cache.Cache, config CachedTodoServiceConfig) *CachedTodoService {
	if config.TodoTTL <= 0 {
		config.TodoTTL = 30 * time.Minute
	}
	if config.ListTTL <= 0 {
		config.ListTTL = 10 * time.Minute
	}
	return &CachedTodoService{
		todos:   todos,
		cache:   c,
		queue:   config.Queue,
		todoTTL: config.TodoTTL,
		listTTL: config.ListTTL,
	}
}

func (s *CachedTodoService) ListTodos(ctx context.Context) ([]models.Todo, error) {
	gen := s.generation()
	// Readers only share a load started in the same generation.
	v, err, _ := s.sf.Do(fmt.Sprintf("%s@%d", listCacheKey, gen), func() (interface{}, error) {
		var cached []models.Todo
		if err := s.cache.Get(ctx, listCacheKey, &cached); err == nil && cached != nil {
			return cached, nil
		}
		return s.loadList(ctx, gen)
	})
	if err != nil {
		return nil, err
	}
	return cloneTodos(v.([]models.Todo)), nil
}

func (s *CachedTodoService) GetTodo(ctx context.Context, id string) (models.Todo, error) {
	canonical, ok := canonicalID(id)
	if !ok {
		return s.todos.GetTodo(ctx, id)
	}
	key := todoCacheKey(canonical)

	gen := s.generation()
	var cached models.Todo
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	todo, err := s.todos.GetTodo(ctx, canonical)
	if err != nil {
		return todo, err
	}
	s.setIfCurrent(ctx, gen, key, todo, s.todoTTL)
	return todo, nil
}

func (s *CachedTodoService) CreateTodo(ctx context.Context, input CreateTodoInput) (models.Todo, error) {
	todo, err := s.todos.CreateTodo(ctx, input)
	if err != nil {
		return todo, err
	}
	s.invalidate(ctx, "create", todoCacheKey(todo.ID.String()))
	return todo, nil
}

func (s *CachedTodoService) UpdateTodo(ctx context.Context, id string, input UpdateTodoInput) (models.Todo, error) {
	todo, err := s.todos.UpdateTodo(ctx, id, input)
	if err != nil {
		return todo, err
	}
	if !input.Empty() {
		s.invalidate(ctx, "update", todoCacheKey(todo.ID.String()))
	}
	return todo, nil
}

func (s *CachedTodoService) ToggleTodoCompletion(ctx context.Context, id string) (models.Todo, error) {
	todo, err := s.todos.ToggleTodoCompletion(ctx, id)
	if err != nil {
		return todo, err
	}
	s.invalidate(ctx, "toggle", todoCacheKey(todo.ID.String()))
	return todo, nil
}

func (s *CachedTodoService) DeleteTodo(ctx context.Context, id string) error {
	if err := s.todos.DeleteTodo(ctx, id); err != nil {
		return err
	}
	var keys []string
	if canonical, ok := canonicalID(id); ok {
		keys = append(keys, todoCacheKey(canonical))
	}
	s.invalidate(ctx, "delete", keys...)
	return nil
}

// WarmList reloads the todo list from the store into the cache.
func (s *CachedTodoService) WarmList(ctx context.Context) error {
	_, err := s.loadList(ctx, s.generation())
	return err
}

// HandleWarmJob is the worker handler for cache warmup jobs.
func (s *CachedTodoService) HandleWarmJob(ctx context.Context, job *worker.Job) error {
	switch job.Type {
	case worker.JobTypeWarmTodoList:
		return s.WarmList(ctx)
	case worker.JobTypeWarmTodo:
		id, _ := job.Payload["id"].(string)
		canonical, ok := canonicalID(id)
		if !ok {
			return fmt.Errorf("%w: invalid todo id %q", ErrValidation, id)
		}
		gen := s.generation()
		todo, err := s.todos.GetTodo(ctx, canonical)
		if err != nil {
			return err
		}
		s.setIfCurrent(ctx, gen, todoCacheKey(canonical), todo, s.todoTTL)
		return nil
	default:
		return fmt.Errorf("unsupported job type: %s", job.Type)
	}
}

// WarmupJobs describes the keys a CacheWarmer should keep hot. The load
// writes the cache itself and returns no value.
func (s *CachedTodoService) WarmupJobs() []cache.WarmupJob {
	return []cache.WarmupJob{{
		Key:      listCacheKey,
		TTL:      s.listTTL,
		Priority: 100,
		Load: func(ctx context.Context) (interface{}, error) {
			return nil, s.WarmList(ctx)
		},
	}}
}

func (s *CachedTodoService) GetCacheStats() map[string]interface{} {
	return s.cache.Stats()
}

func (s *CachedTodoService) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *CachedTodoService) loadList(ctx context.Context, gen uint64) ([]models.Todo, error) {
	todos, err := s.todos.ListTodos(ctx)
	if err != nil {
		return nil, err
	}
	s.setIfCurrent(ctx, gen, listCacheKey, todos, s.listTTL)
	return todos, nil
}

// setIfCurrent writes value only if no invalidation happened after gen
// was captured. The check and the write share the lock with invalidate.
func (s *CachedTodoService) setIfCurrent(ctx context.Context, gen uint64, key string, value interface{}, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		log.Printf("Failed to cache %s: %v", key, err)
	}
}

// invalidate evicts keys and the list before returning so the next read
// observes the mutation, then asks the worker to rebuild the list.
func (s *CachedTodoService) invalidate(ctx context.Context, reason string, keys ...string) {
	s.mu.Lock()
	s.gen++
	for _, key := range append(keys, listCacheKey) {
		if err := s.cache.Delete(ctx, key); err != nil {
			log.Printf("Failed to evict %s from cache: %v", key, err)
		}
	}
	s.mu.Unlock()

	if s.queue == nil {
		return
	}
	payload := map[string]interface{}{"reason": reason}
	if err := s.queue.Enqueue(ctx, worker.QueueCacheWarmup, worker.JobTypeWarmTodoList, payload); err != nil {
		log.Printf("Failed to enqueue todo list warmup: %v", err)
	}
}

func cloneTodos(todos []models.Todo) []models.Todo {
	out := make([]models.Todo, len(todos))
	copy(out, todos)
	return out
}
