package projector

import (
	"context"
	"sync"
)

// dispatcher serializes tasks sharing a key while letting distinct keys run
// concurrently. Tasks submitted for one key execute in submission order; a
// later change for an objectID can never overtake an earlier one still
// retrying.
type dispatcher struct {
	mu     sync.Mutex
	queues map[string]*keyQueue
	wg     sync.WaitGroup
}

type keyQueue struct {
	tasks   []func(context.Context)
	running bool
}

func newDispatcher() *dispatcher {
	return &dispatcher{queues: make(map[string]*keyQueue)}
}

func (d *dispatcher) submit(ctx context.Context, key string, task func(context.Context)) {
	d.mu.Lock()
	queue, ok := d.queues[key]
	if !ok {
		queue = &keyQueue{}
		d.queues[key] = queue
	}
	queue.tasks = append(queue.tasks, task)
	if !queue.running {
		queue.running = true
		d.wg.Add(1)
		go d.drain(ctx, key, queue)
	}
	d.mu.Unlock()
}

func (d *dispatcher) drain(ctx context.Context, key string, queue *keyQueue) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		if len(queue.tasks) == 0 {
			queue.running = false
			delete(d.queues, key)
			d.mu.Unlock()
			return
		}
		task := queue.tasks[0]
		queue.tasks = queue.tasks[1:]
		d.mu.Unlock()
		task(ctx)
	}
}

// wait blocks until every submitted task has drained.
func (d *dispatcher) wait() {
	d.wg.Wait()
}
