package cache

import (
	"container/heap"
	"sync"
)

type queueItem struct {
	job   WarmupJob
	index int
}

type warmupHeap []*queueItem

func (h warmupHeap) Len() int { return len(h) }

func (h warmupHeap) Less(i, j int) bool {
	return h[i].job.Priority > h[j].job.Priority
}

func (h warmupHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *warmupHeap) Push(x interface{}) {
	item := x.(*queueItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *warmupHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// PriorityQueue orders warmup jobs so the highest priority runs first.
type PriorityQueue struct {
	items warmupHeap
	mu    sync.RWMutex
}

func NewPriorityQueue() *PriorityQueue {
	pq := &PriorityQueue{}
	heap.Init(&pq.items)
	return pq
}

// Push adds job, replacing any queued job with the same key.
func (pq *PriorityQueue) Push(job WarmupJob) {
	pq.mu.Lock()
	defer pq.mu.Unlock()

	for _, item := range pq.items {
		if item.job.Key == job.Key {
			item.job = job
			heap.Fix(&pq.items, item.index)
			return
		}
	}
	heap.Push(&pq.items, &queueItem{job: job})
}

func (pq *PriorityQueue) Pop() (WarmupJob, bool) {
	pq.mu.Lock()
	defer pq.mu.Unlock()

	if len(pq.items) == 0 {
		return WarmupJob{}, false
	}
	item := heap.Pop(&pq.items).(*queueItem)
	return item.job, true
}

func (pq *PriorityQueue) Len() int {
	pq.mu.RLock()
	defer pq.mu.RUnlock()
	return len(pq.items)
}

// Jobs returns the queued jobs in priority order without removing them.
func (pq *PriorityQueue) Jobs() []WarmupJob {
	pq.mu.RLock()
	snapshot := make(warmupHeap, len(pq.items))
	for i, item := range pq.items {
		snapshot[i] = &queueItem{job: item.job, index: i}
	}
	pq.mu.RUnlock()

	jobs := make([]WarmupJob, 0, len(snapshot))
	for snapshot.Len() > 0 {
		jobs = append(jobs, heap.Pop(&snapshot).(*queueItem).job)
	}
	return jobs
}
