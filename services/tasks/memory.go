package tasks

import (
	"context"
	"sync"

	"github.com/hibiken/asynq"
)

// MemoryPublisher keeps enqueued tasks in memory instead of sending them to Redis.
type MemoryPublisher struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	Err   error
}

func (p *MemoryPublisher) Enqueue(_ context.Context, task *asynq.Task, _ ...asynq.Option) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, task)
	return nil
}

// Types lists the task types in enqueue order.
func (p *MemoryPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.tasks))
	for _, t := range p.tasks {
		out = append(out, t.Type())
	}
	return out
}

// Tasks returns a copy of the enqueued tasks.
func (p *MemoryPublisher) Tasks() []*asynq.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*asynq.Task(nil), p.tasks...)
}
