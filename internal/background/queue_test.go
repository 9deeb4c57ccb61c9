package background

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startQueue(t *testing.T, workers int, opts ...Option) *Queue {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())

	q := NewQueue(workers, opts...)
	q.Start(ctx)

	t.Cleanup(func() {
		cancel()
		q.Wait()
	})

	return q
}

func waitFor(t *testing.T, q *Queue, id uuid.UUID, status Status) Job {
	t.Helper()

	var job Job
	require.Eventually(t, func() bool {
		var ok bool
		job, ok = q.Get(id)

		return ok && job.Status == status
	}, time.Second, 5*time.Millisecond)

	return job
}

func TestSubmitRunsJobs(t *testing.T) {
	q := startQueue(t, 2)

	var ran atomic.Int32
	ok := q.Submit("ok", func(ctx context.Context) error {
		ran.Add(1)

		return nil
	})
	failing := q.Submit("failing", func(ctx context.Context) error {
		return errors.New("boom")
	})
	panicking := q.Submit("panicking", func(ctx context.Context) error {
		panic("oh no")
	})

	job := waitFor(t, q, ok, StatusDone)
	assert.Equal(t, "ok", job.Name)
	assert.NotNil(t, job.FinishedAt)
	assert.EqualValues(t, 1, ran.Load())

	job = waitFor(t, q, failing, StatusFailed)
	assert.Equal(t, "boom", job.Error)

	job = waitFor(t, q, panicking, StatusFailed)
	assert.Contains(t, job.Error, "oh no")

	_, found := q.Get(uuid.New())
	assert.False(t, found)
}

func TestStoppedQueueFailsJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	q := NewQueue(1)
	q.Start(ctx)
	cancel()
	q.Wait()

	// fill the buffer so dispatch has to observe the stop signal
	for i := 0; i < cap(q.work); i++ {
		q.work <- entry{}
	}

	id := q.Submit("late", func(ctx context.Context) error { return nil })

	job, ok := q.Get(id)
	require.True(t, ok)
	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, ErrStopped.Error(), job.Error)
}

func TestRetention(t *testing.T) {
	q := startQueue(t, 1, WithRetention(2))

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		id := q.Submit("job", func(ctx context.Context) error { return nil })
		waitFor(t, q, id, StatusDone)
		ids = append(ids, id)
	}

	_, ok := q.Get(ids[0])
	assert.False(t, ok)

	_, ok = q.Get(ids[3])
	assert.True(t, ok)
}

func TestMiddlewareDispatchesAfterHandler(t *testing.T) {
	q := startQueue(t, 1)

	var (
		id          uuid.UUID
		ranEarly    atomic.Bool
		handlerDone atomic.Bool
	)

	handler := q.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = Add(r.Context(), q, "after", func(ctx context.Context) error {
			if !handlerDone.Load() {
				ranEarly.Store(true)
			}

			return nil
		})

		time.Sleep(20 * time.Millisecond)

		job, _ := q.Get(id)
		assert.Equal(t, StatusPending, job.Status)

		w.WriteHeader(http.StatusAccepted)
		handlerDone.Store(true)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/task", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, rec.Flushed)

	waitFor(t, q, id, StatusDone)
	assert.False(t, ranEarly.Load())
}

func TestAddWithoutMiddlewareSubmits(t *testing.T) {
	q := startQueue(t, 1)

	id := Add(context.Background(), q, "direct", func(ctx context.Context) error { return nil })
	waitFor(t, q, id, StatusDone)
}
