package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agenticai/patterns/internal/model"
	"github.com/agenticai/patterns/internal/repo/inmem"
	"github.com/agenticai/patterns/internal/services"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newRouter(t *testing.T) *mux.Router {
	t.Helper()

	svc, err := New(context.Background(), inmem.New(), &services.Common{})
	require.NoError(t, err)
	svc.now = func() time.Time { return fixedNow }

	r := mux.NewRouter()
	svc.Register(r)

	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

func TestInfo(t *testing.T) {
	rec := do(t, newRouter(t), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	info := decode[map[string]any](t, rec)
	assert.Equal(t, "0.1.0", info["version"])
	assert.Contains(t, info["endpoints"], "list_tasks")
}

func TestTaskLifecycle(t *testing.T) {
	r := newRouter(t)

	rec := do(t, r, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = do(t, r, http.MethodPost, "/tasks", `{"title": "Write docs", "description": "all of them"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decode[model.Task](t, rec)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "Write docs", created.Title)
	assert.Equal(t, "all of them", *created.Description)
	assert.False(t, created.Completed)
	assert.True(t, fixedNow.Equal(created.CreatedAt))

	rec = do(t, r, http.MethodGet, "/tasks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[model.Task](t, rec))

	rec = do(t, r, http.MethodPut, "/tasks/1", `{"completed": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decode[model.Task](t, rec)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Write docs", updated.Title)
	assert.Equal(t, "all of them", *updated.Description)

	rec = do(t, r, http.MethodDelete, "/tasks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "Task deleted"}`, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail": "Task not found"}`, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/tasks", `{"title": "Second"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 2, decode[model.Task](t, rec).ID, "ids are never reused")
}

func TestNotFound(t *testing.T) {
	r := newRouter(t)

	for _, tc := range []struct{ method, body string }{
		{http.MethodGet, ""},
		{http.MethodPut, `{"title": "x"}`},
		{http.MethodDelete, ""},
	} {
		rec := do(t, r, tc.method, "/tasks/99", tc.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.method)
		assert.JSONEq(t, `{"detail": "Task not found"}`, rec.Body.String())
	}
}

func TestValidation(t *testing.T) {
	r := newRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		loc    []any
	}{
		{"missing title", http.MethodPost, "/tasks", `{}`, []any{"body", "title"}},
		{"title too long", http.MethodPost, "/tasks", `{"title": "` + strings.Repeat("x", 101) + `"}`, []any{"body", "title"}},
		{"description too long", http.MethodPost, "/tasks", `{"title": "t", "description": "` + strings.Repeat("x", 501) + `"}`, []any{"body", "description"}},
		{"wrong type", http.MethodPost, "/tasks", `{"title": 1}`, []any{"body", "title"}},
		{"empty body", http.MethodPost, "/tasks", ``, []any{"body"}},
		{"empty title update", http.MethodPut, "/tasks/1", `{"title": ""}`, []any{"body", "title"}},
		{"non integer id", http.MethodGet, "/tasks/abc", ``, []any{"path", "task_id"}},
		{"bad filter", http.MethodGet, "/tasks?filter=owner:me", ``, []any{"query", "filter"}},
	}

	// a task for the update case
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/tasks", `{"title": "t"}`).Code)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, r, tc.method, tc.path, tc.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

			body := decode[struct {
				Detail []struct {
					Loc []any `json:"loc"`
				} `json:"detail"`
			}](t, rec)
			require.NotEmpty(t, body.Detail)
			assert.Equal(t, tc.loc, body.Detail[0].Loc)
		})
	}
}

func TestListFilter(t *testing.T) {
	r := newRouter(t)

	for _, body := range []string{
		`{"title": "Buy milk"}`,
		`{"title": "Write report"}`,
		`{"title": "Buy bread"}`,
	} {
		require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/tasks", body).Code)
	}

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPut, "/tasks/1", `{"completed": true}`).Code)

	rec := do(t, r, http.MethodGet, "/tasks?filter=title:buy+-completed:true", "")
	require.Equal(t, http.StatusOK, rec.Code)

	tasks := decode[[]model.Task](t, rec)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy bread", tasks[0].Title)
}

func TestRenderDescription(t *testing.T) {
	r := newRouter(t)

	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/tasks", `{"title": "t", "description": "**bold**"}`).Code)

	rec := do(t, r, http.MethodGet, "/tasks/1/description", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<p><strong>bold</strong></p>\n", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/tasks/7/description", "").Code)
}
