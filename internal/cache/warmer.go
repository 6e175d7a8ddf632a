package cache

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// WarmupJob reloads one cache key. Load is called on every warmup round.
// A Load that returns a nil value has written the cache itself.
type WarmupJob struct {
	Key      string
	TTL      time.Duration
	Priority int
	Load     func(ctx context.Context) (interface{}, error)
}

type WarmupStrategy struct {
	ConcurrentJobs  int
	WarmupInterval  time.Duration
	HealthCheckFunc func(ctx context.Context) bool
}

type CacheWarmer struct {
	cache    Cache
	strategy *WarmupStrategy
	queue    *PriorityQueue

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	warmed int64
	failed int64
}

func NewCacheWarmer(cache Cache, strategy *WarmupStrategy) *CacheWarmer {
	if strategy == nil {
		strategy = &WarmupStrategy{
			ConcurrentJobs: 3,
			WarmupInterval: 5 * time.Minute,
		}
	}
	if strategy.ConcurrentJobs < 1 {
		strategy.ConcurrentJobs = 1
	}

	return &CacheWarmer{
		cache:    cache,
		strategy: strategy,
		queue:    NewPriorityQueue(),
	}
}

func (cw *CacheWarmer) AddWarmupJob(job WarmupJob) {
	cw.queue.Push(job)
	log.Printf("Added warmup job: %s (priority: %d)", job.Key, job.Priority)
}

// Start runs one warmup round immediately and then one per interval
// until Stop is called or ctx is cancelled.
func (cw *CacheWarmer) Start(ctx context.Context) {
	cw.mu.Lock()
	if cw.running {
		cw.mu.Unlock()
		return
	}
	cw.running = true
	cw.stopCh = make(chan struct{})
	stopCh := cw.stopCh
	cw.mu.Unlock()

	log.Printf("Starting cache warmer with %d jobs", cw.queue.Len())

	cw.wg.Add(1)
	go func() {
		defer cw.wg.Done()
		cw.WarmNow(ctx)

		if cw.strategy.WarmupInterval <= 0 {
			return
		}
		ticker := time.NewTicker(cw.strategy.WarmupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if cw.shouldWarmup(ctx) {
					cw.WarmNow(ctx)
				}
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (cw *CacheWarmer) Stop() {
	cw.mu.Lock()
	if !cw.running {
		cw.mu.Unlock()
		return
	}
	cw.running = false
	close(cw.stopCh)
	cw.mu.Unlock()

	cw.wg.Wait()
	log.Printf("Cache warmer stopped")
}

// WarmNow runs every queued job once and returns the first error.
func (cw *CacheWarmer) WarmNow(ctx context.Context) error {
	jobs := cw.queue.Jobs()
	if len(jobs) == 0 {
		return nil
	}

	jobCh := make(chan WarmupJob)
	errCh := make(chan error, len(jobs))
	var wg sync.WaitGroup

	for i := 0; i < cw.strategy.ConcurrentJobs && i < len(jobs); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				if err := cw.processJob(ctx, job); err != nil {
					errCh <- err
				}
			}
		}()
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()
	close(errCh)

	return <-errCh
}

func (cw *CacheWarmer) processJob(ctx context.Context, job WarmupJob) error {
	value, err := job.Load(ctx)
	if err == nil && value != nil {
		err = cw.cache.Set(ctx, job.Key, value, job.TTL)
	}

	cw.mu.Lock()
	defer cw.mu.Unlock()
	if err != nil {
		cw.failed++
		log.Printf("Failed to warm cache key %s: %v", job.Key, err)
		return fmt.Errorf("warm %s: %w", job.Key, err)
	}
	cw.warmed++
	return nil
}

func (cw *CacheWarmer) shouldWarmup(ctx context.Context) bool {
	if cw.strategy.HealthCheckFunc != nil {
		return cw.strategy.HealthCheckFunc(ctx)
	}
	return cw.cache.Health(ctx) == nil
}

func (cw *CacheWarmer) GetStats() map[string]interface{} {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	return map[string]interface{}{
		"running":         cw.running,
		"interval":        cw.strategy.WarmupInterval.String(),
		"concurrent_jobs": cw.strategy.ConcurrentJobs,
		"queued_jobs":     cw.queue.Len(),
		"warmed":          cw.warmed,
		"failed":          cw.failed,
	}
}
