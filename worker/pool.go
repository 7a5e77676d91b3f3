package worker

import (
	"context"
	"sync"
)

// Task is a unit of background work, typically one external tool run.
type Task func(ctx context.Context)

type job struct {
	ctx  context.Context
	task Task
}

// Pool runs tasks off the UI thread. The queue holds a single job, so a
// Submit while the pool is saturated reports false instead of piling more
// work onto the fixed scratch files.
type Pool struct {
	jobs    chan job
	wg      sync.WaitGroup
	closeMu sync.Once
}

// New creates a pool with the given number of workers. Sizes below one fall
// back to a single worker, which also serializes tool runs.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{jobs: make(chan job, 1)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for j := range p.jobs {
		if j.ctx.Err() != nil {
			continue
		}
		j.task(j.ctx)
	}
}

// Submit queues a task. It reports false when the pool is busy; the caller
// decides how to surface that.
func (p *Pool) Submit(ctx context.Context, task Task) bool {
	select {
	case p.jobs <- job{ctx: ctx, task: task}:
		return true
	default:
		return false
	}
}

// Close stops accepting work, runs what is already queued and waits for the
// workers to finish.
func (p *Pool) Close() {
	p.closeMu.Do(func() { close(p.jobs) })
	p.wg.Wait()
}
