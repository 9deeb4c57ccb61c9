package background

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

type contextKey struct{}

// Tasks collects the jobs queued while handling a single request. They
// are dispatched once the handler has returned.
type Tasks struct {
	queue *Queue

	l       sync.Mutex
	pending []entry
}

// Add registers a job. If the request is not wrapped by Middleware the job
// is dispatched immediately.
func Add(ctx context.Context, q *Queue, name string, fn Func) uuid.UUID {
	tasks, ok := ctx.Value(contextKey{}).(*Tasks)
	if !ok || tasks.queue != q {
		return q.Submit(name, fn)
	}

	id := q.register(name)

	tasks.l.Lock()
	tasks.pending = append(tasks.pending, entry{id: id, fn: fn})
	tasks.l.Unlock()

	return id
}

func (t *Tasks) flush() {
	t.l.Lock()
	pending := t.pending
	t.pending = nil
	t.l.Unlock()

	for _, e := range pending {
		t.queue.dispatch(e.id, e.fn)
	}
}

// Middleware runs the jobs queued by next only after the response has been
// written, so they never delay or affect it.
func (q *Queue) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tasks := &Tasks{queue: q}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, tasks)))

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		tasks.flush()
	})
}
