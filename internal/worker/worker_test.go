package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestQueue(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestJobQueue_Enqueue(t *testing.T) {
	client, mr := setupTestQueue(t)
	queue := NewJobQueue(client)
	ctx := context.Background()

	err := queue.Enqueue(ctx, QueueCacheWarmup, JobTypeWarmTodoList, map[string]interface{}{"reason": "create"})
	require.NoError(t, err)

	size, err := queue.GetQueueSize(ctx, QueueCacheWarmup)
	require.NoError(t, err)
	assert.Equal(t, int64(1), size)

	items, err := mr.List(QueueCacheWarmup)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(items[0]), &job))
	assert.Equal(t, JobTypeWarmTodoList, job.Type)
	assert.Equal(t, 3, job.MaxTries)
	assert.Equal(t, "create", job.Payload["reason"])
	assert.NotEmpty(t, job.ID)
}

func TestWorker_ProcessesJob(t *testing.T) {
	client, _ := setupTestQueue(t)
	queue := NewJobQueue(client)

	w := NewWorker(WorkerConfig{RedisClient: client, PollInterval: 100 * time.Millisecond})
	done := make(chan *Job, 1)
	w.RegisterHandler(JobTypeWarmTodoList, func(ctx context.Context, job *Job) error {
		done <- job
		return nil
	})

	require.NoError(t, queue.Enqueue(context.Background(), QueueCacheWarmup, JobTypeWarmTodoList, nil))

	w.Start(1)
	defer w.Stop()

	select {
	case job := <-done:
		assert.Equal(t, JobTypeWarmTodoList, job.Type)
	case <-time.After(3 * time.Second):
		t.Fatal("Expected job to be processed")
	}
}

func TestWorker_RetriesThenDeadQueue(t *testing.T) {
	client, mr := setupTestQueue(t)
	queue := NewJobQueue(client)

	w := NewWorker(WorkerConfig{
		RedisClient:  client,
		PollInterval: 50 * time.Millisecond,
		RetryBase:    time.Millisecond,
	})
	var calls atomic.Int32
	w.RegisterHandler(JobTypeWarmTodoList, func(ctx context.Context, job *Job) error {
		calls.Add(1)
		return errors.New("store unavailable")
	})

	require.NoError(t, queue.Enqueue(context.Background(), QueueCacheWarmup, JobTypeWarmTodoList, nil))

	w.Start(1)
	defer w.Stop()

	assert.Eventually(t, func() bool {
		items, _ := mr.List(QueueDead)
		return len(items) == 1
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWorker_UnknownJobTypeGoesToDeadQueue(t *testing.T) {
	client, mr := setupTestQueue(t)
	queue := NewJobQueue(client)

	w := NewWorker(WorkerConfig{RedisClient: client, PollInterval: 50 * time.Millisecond})
	require.NoError(t, queue.Enqueue(context.Background(), QueueCacheWarmup, JobType("unknown"), nil))

	w.Start(1)
	defer w.Stop()

	assert.Eventually(t, func() bool {
		items, _ := mr.List(QueueDead)
		return len(items) == 1
	}, 3*time.Second, 20*time.Millisecond)

	items, _ := mr.List(QueueDead)
	var dead map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(items[0]), &dead))
	assert.Contains(t, dead["error"], "no handler registered")
}

func TestNewWorker_Defaults(t *testing.T) {
	w := NewWorker(WorkerConfig{})

	assert.Equal(t, 5*time.Second, w.pollInterval)
	assert.Equal(t, time.Second, w.retryBase)
	assert.Equal(t, []string{QueueCacheWarmup, QueueRetry}, w.queues)
}
