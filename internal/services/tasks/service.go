package tasks

import (
	"context"
	"net/http"
	"time"

	"github.com/agenticai/patterns/internal/model"
	"github.com/agenticai/patterns/internal/render"
	"github.com/agenticai/patterns/internal/repo"
	"github.com/agenticai/patterns/internal/services"
	"github.com/agenticai/patterns/internal/taskql"
	"github.com/gorilla/mux"
)

const (
	appName    = "Agent Task API"
	appVersion = "0.1.0"
)

type Service struct {
	repo repo.TaskBackend
	now  func() time.Time

	*services.Common
}

func New(ctx context.Context, repo repo.TaskBackend, common *services.Common) (*Service, error) {
	return &Service{repo: repo, now: time.Now, Common: common}, nil
}

// Register adds the task routes to r.
func (svc *Service) Register(r *mux.Router) {
	r.HandleFunc("/", svc.Info).Methods(http.MethodGet)
	r.HandleFunc("/tasks", svc.ListTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks", svc.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{task_id}", svc.GetTask).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{task_id}", svc.UpdateTask).Methods(http.MethodPut)
	r.HandleFunc("/tasks/{task_id}", svc.DeleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/tasks/{task_id}/description", svc.RenderDescription).Methods(http.MethodGet)
}

func (svc *Service) Info(w http.ResponseWriter, r *http.Request) {
	services.WriteJSON(w, http.StatusOK, map[string]any{
		"app":     appName,
		"version": appVersion,
		"docs":    "/docs",
		"endpoints": map[string]string{
			"list_tasks":       "GET /tasks",
			"get_task":         "GET /tasks/{task_id}",
			"create_task":      "POST /tasks",
			"update_task":      "PUT /tasks/{task_id}",
			"delete_task":      "DELETE /tasks/{task_id}",
			"task_description": "GET /tasks/{task_id}/description",
		},
	})
}

func (svc *Service) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := svc.repo.ListTasks(r.Context())
	if err != nil {
		services.WriteError(w, err)
		return
	}

	if q := r.URL.Query().Get("filter"); q != "" {
		filter, err := taskql.Compile(q, svc.now())
		if err != nil {
			services.WriteError(w, model.NewFieldError(err.Error(), "value_error.filter", "query", "filter"))
			return
		}

		tasks = filter.Apply(tasks)
	}

	services.WriteJSON(w, http.StatusOK, tasks)
}

func (svc *Service) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := services.PathInt(r, "task_id")
	if err != nil {
		services.WriteError(w, err)
		return
	}

	task, err := svc.repo.GetTask(r.Context(), id)
	if err != nil {
		services.WriteError(w, err)
		return
	}

	services.WriteJSON(w, http.StatusOK, task)
}

func (svc *Service) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req model.TaskCreate
	if err := model.Decode(r.Body, &req); err != nil {
		services.WriteError(w, err)
		return
	}

	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
		CreatedAt:   svc.now().UTC(),
	}

	if err := svc.repo.CreateTask(r.Context(), task); err != nil {
		services.WriteError(w, err)
		return
	}

	services.WriteJSON(w, http.StatusCreated, task)
}

func (svc *Service) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := services.PathInt(r, "task_id")
	if err != nil {
		services.WriteError(w, err)
		return
	}

	var req model.TaskUpdate
	if err := model.Decode(r.Body, &req); err != nil {
		services.WriteError(w, err)
		return
	}

	task, err := svc.repo.UpdateTask(r.Context(), id, req)
	if err != nil {
		services.WriteError(w, err)
		return
	}

	services.WriteJSON(w, http.StatusOK, task)
}

func (svc *Service) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := services.PathInt(r, "task_id")
	if err != nil {
		services.WriteError(w, err)
		return
	}

	if err := svc.repo.DeleteTask(r.Context(), id); err != nil {
		services.WriteError(w, err)
		return
	}

	services.WriteJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

func (svc *Service) RenderDescription(w http.ResponseWriter, r *http.Request) {
	id, err := services.PathInt(r, "task_id")
	if err != nil {
		services.WriteError(w, err)
		return
	}

	task, err := svc.repo.GetTask(r.Context(), id)
	if err != nil {
		services.WriteError(w, err)
		return
	}

	html, err := render.TaskDescription(task)
	if err != nil {
		services.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
