// Package tasks runs units of work on a fixed set of background workers.
package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const DefaultMaxRetries = 3

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetName() string
	GetRetryCount() int
	IncrementRetryCount()
	CanRetry() bool
}

// Task carries the bookkeeping shared by all task types; embed it and
// implement Execute.
type Task struct {
	Name       string
	RetryCount int
	MaxRetries int
}

func NewTask(name string) Task {
	return Task{Name: name, MaxRetries: DefaultMaxRetries}
}

func (t *Task) GetName() string {
	return t.Name
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

func (t *Task) IncrementRetryCount() {
	t.RetryCount++
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

// Pool executes enqueued tasks on workerCount goroutines. A task that fails
// is requeued until its retry budget runs out.
type Pool struct {
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	queue       chan TaskInterface
	pending     sync.WaitGroup

	mu     sync.Mutex
	failed []string
}

func NewPool(workerCount int, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		queue:       make(chan TaskInterface, queueSize),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) Enqueue(task TaskInterface) error {
	p.pending.Add(1)
	select {
	case p.queue <- task:
		return nil
	case <-p.ctx.Done():
		p.pending.Done()
		return p.ctx.Err()
	default:
		p.pending.Done()
		return fmt.Errorf("task queue is full")
	}
}

// Wait blocks until every enqueued task has finished, including retries. It
// returns the names of tasks that exhausted their retry budget.
func (p *Pool) Wait() []string {
	p.pending.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
	close(p.queue)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.queue:
			if !ok {
				return
			}
			p.execute(id, task)
		}
	}
}

func (p *Pool) execute(workerID int, task TaskInterface) {
	started := time.Now()
	err := task.Execute(p.ctx)
	if err == nil {
		slog.Debug("Task completed",
			"worker", workerID, "task", task.GetName(), "duration", time.Since(started))
		p.pending.Done()
		return
	}

	if task.CanRetry() {
		task.IncrementRetryCount()
		slog.Warn("Task failed, retrying",
			"worker", workerID, "task", task.GetName(),
			"attempt", task.GetRetryCount(), "error", err)
		// Requeue without blocking the worker; the pending count carries
		// over. A blocking send here could deadlock once every worker holds a
		// retry against a full queue, so when the queue has no room the
		// remaining retry budget is forfeited and the task reported failed.
		select {
		case p.queue <- task:
			return
		default:
		}
	}

	slog.Error("Task failed",
		"worker", workerID, "task", task.GetName(), "error", err)
	p.mu.Lock()
	p.failed = append(p.failed, task.GetName())
	p.mu.Unlock()
	p.pending.Done()
}
