package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/agenticai/patterns/internal/config"
	"github.com/agenticai/patterns/internal/model"
	"github.com/agenticai/patterns/internal/permission"
	"github.com/agenticai/patterns/internal/repo"
	"github.com/gorilla/mux"
)

// Common holds the dependencies shared by all services.
type Common struct {
	Resolver *permission.Resolver
	Config   config.Config
}

// IsAllowed reports whether r may access protected endpoints. Without a
// resolver only the presence of an Authorization header is checked.
func (svc *Common) IsAllowed(r *http.Request) bool {
	if svc.Resolver == nil {
		return r.Header.Get("Authorization") != ""
	}

	return svc.Resolver.IsAllowed(r)
}

// Detail is the error body used by every service.
type Detail struct {
	Detail any `json:"detail"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError maps err to a status code and writes it as a detail body.
func WriteError(w http.ResponseWriter, err error) {
	if details, ok := model.Details(err); ok {
		WriteJSON(w, http.StatusUnprocessableEntity, Detail{Detail: details})

		return
	}

	switch {
	case errors.Is(err, repo.ErrTaskNotFound):
		WriteJSON(w, http.StatusNotFound, Detail{Detail: "Task not found"})

	case errors.Is(err, repo.ErrItemNotFound):
		WriteJSON(w, http.StatusNotFound, Detail{Detail: "Item not found"})

	default:
		slog.Error("failed to handle request", "error", err)
		WriteJSON(w, http.StatusInternalServerError, Detail{Detail: "Internal Server Error"})
	}
}

// PathInt parses the path variable name as an integer.
func PathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, model.NewFieldError("value is not a valid integer", "type_error.integer", "path", name)
	}

	return v, nil
}

// QueryInt parses the query parameter name, returning def when it is absent.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewFieldError("value is not a valid integer", "type_error.integer", "query", name)
	}

	return v, nil
}

// QueryFloat parses the query parameter name, returning def when it is absent.
func QueryFloat(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, model.NewFieldError("value is not a valid float", "type_error.float", "query", name)
	}

	return v, nil
}

// RequiredQuery returns the query parameter name, which must be present.
func RequiredQuery(r *http.Request, name string) (string, error) {
	values, ok := r.URL.Query()[name]
	if !ok || len(values) == 0 {
		return "", model.NewFieldError("field required", "value_error.missing", "query", name)
	}

	return values[0], nil
}
