package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// ErrStopped is recorded for jobs dispatched after the queue shut down.
var ErrStopped = errors.New("queue stopped")

// Func is the work performed by a job. The context is cancelled when the
// queue shuts down.
type Func func(ctx context.Context) error

type Job struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Status     Status     `json:"status"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type entry struct {
	id uuid.UUID
	fn Func
}

// Queue runs jobs on a fixed number of workers and remembers the state of
// the most recent jobs.
type Queue struct {
	workers     int
	maxRetained int
	log         logrus.FieldLogger

	work chan entry

	l     sync.RWMutex
	jobs  map[uuid.UUID]*Job
	order []uuid.UUID

	stopOnce sync.Once
	stopped  chan struct{}
	wg       sync.WaitGroup
}

type Option func(*Queue)

// WithRetention sets how many jobs are remembered for status queries.
func WithRetention(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.maxRetained = n
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(q *Queue) {
		q.log = log
	}
}

func NewQueue(workers int, opts ...Option) *Queue {
	if workers < 1 {
		workers = 1
	}

	q := &Queue{
		workers:     workers,
		maxRetained: 1000,
		log:         logrus.StandardLogger(),
		work:        make(chan entry, 128),
		jobs:        make(map[uuid.UUID]*Job),
		stopped:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(q)
	}

	return q
}

// Start launches the workers. They stop once ctx is cancelled; use Wait
// to block until running jobs returned.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)

		go func() {
			defer q.wg.Done()
			q.worker(ctx)
		}()
	}

	go func() {
		<-ctx.Done()
		q.stopOnce.Do(func() { close(q.stopped) })
	}()
}

func (q *Queue) Wait() {
	q.wg.Wait()
}

func (q *Queue) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-q.work:
			q.run(ctx, e)
		}
	}
}

func (q *Queue) run(ctx context.Context, e entry) {
	name := q.update(e.id, StatusRunning, nil)
	log := q.log.WithFields(logrus.Fields{"job": e.id.String(), "name": name})

	log.Debug("running background job")

	err := func() (err error) {
		defer func() {
			if x := recover(); x != nil {
				err = fmt.Errorf("job panicked: %v", x)
			}
		}()

		return e.fn(ctx)
	}()

	if err != nil {
		log.WithError(err).Error("background job failed")
		q.update(e.id, StatusFailed, err)

		return
	}

	q.update(e.id, StatusDone, nil)
}

// register records a pending job without dispatching it.
func (q *Queue) register(name string) uuid.UUID {
	id := uuid.New()

	q.l.Lock()
	defer q.l.Unlock()

	q.jobs[id] = &Job{
		ID:        id,
		Name:      name,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	q.order = append(q.order, id)

	q.prune()

	return id
}

// prune drops the oldest finished jobs above the retention limit.
// Callers must hold the write lock.
func (q *Queue) prune() {
	if len(q.order) <= q.maxRetained {
		return
	}

	kept := q.order[:0]
	excess := len(q.order) - q.maxRetained

	for _, id := range q.order {
		job := q.jobs[id]
		if excess > 0 && job.FinishedAt != nil {
			delete(q.jobs, id)
			excess--

			continue
		}

		kept = append(kept, id)
	}

	q.order = kept
}

func (q *Queue) update(id uuid.UUID, status Status, err error) string {
	q.l.Lock()
	defer q.l.Unlock()

	job, ok := q.jobs[id]
	if !ok {
		return ""
	}

	job.Status = status
	if err != nil {
		job.Error = err.Error()
	}

	if status == StatusDone || status == StatusFailed {
		now := time.Now()
		job.FinishedAt = &now
	}

	return job.Name
}

func (q *Queue) dispatch(id uuid.UUID, fn Func) {
	select {
	case <-q.stopped:
		q.update(id, StatusFailed, ErrStopped)
	case q.work <- entry{id: id, fn: fn}:
	}
}

// Submit registers and dispatches a job right away.
func (q *Queue) Submit(name string, fn Func) uuid.UUID {
	id := q.register(name)
	q.dispatch(id, fn)

	return id
}

// Get returns a snapshot of the job identified by id.
func (q *Queue) Get(id uuid.UUID) (Job, bool) {
	q.l.RLock()
	defer q.l.RUnlock()

	job, ok := q.jobs[id]
	if !ok {
		return Job{}, false
	}

	return *job, true
}
