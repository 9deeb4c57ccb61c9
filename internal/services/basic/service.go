package basic

import (
	"net/http"

	"github.com/agenticai/patterns/internal/services"
	"github.com/gorilla/mux"
)

// Service serves the basic app.
type Service struct {
	*services.Common
}

func New(common *services.Common) *Service {
	return &Service{Common: common}
}

func (svc *Service) Register(r *mux.Router) {
	r.HandleFunc("/", svc.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", svc.Health).Methods(http.MethodGet)
	r.HandleFunc("/items/{item_id}", svc.GetItem).Methods(http.MethodGet)
	r.HandleFunc("/echo", svc.Echo).Methods(http.MethodPost)
}

func (svc *Service) Root(w http.ResponseWriter, r *http.Request) {
	services.WriteJSON(w, http.StatusOK, map[string]string{"message": "Welcome to AgenticAI!"})
}

func (svc *Service) Health(w http.ResponseWriter, r *http.Request) {
	services.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (svc *Service) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := services.PathInt(r, "item_id")
	if err != nil {
		services.WriteError(w, err)
		return
	}

	var query *string
	if values, ok := r.URL.Query()["query"]; ok && len(values) > 0 {
		query = &values[0]
	}

	services.WriteJSON(w, http.StatusOK, map[string]any{
		"item_id": id,
		"query":   query,
	})
}

func (svc *Service) Echo(w http.ResponseWriter, r *http.Request) {
	message, err := services.RequiredQuery(r, "message")
	if err != nil {
		services.WriteError(w, err)
		return
	}

	services.WriteJSON(w, http.StatusOK, map[string]string{"echo": message})
}
