package items

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/agenticai/patterns/internal/model"
	"github.com/agenticai/patterns/internal/repo"
	"github.com/agenticai/patterns/internal/services"
	"github.com/gorilla/mux"
)

type Service struct {
	repo repo.ItemBackend

	*services.Common
}

func New(ctx context.Context, repo repo.ItemBackend, common *services.Common) (*Service, error) {
	return &Service{repo: repo, Common: common}, nil
}

func (svc *Service) Register(r *mux.Router) {
	r.HandleFunc("/", svc.Root).Methods(http.MethodGet)
	r.HandleFunc("/items", svc.ListItems).Methods(http.MethodGet)
	r.HandleFunc("/items", svc.CreateItem).Methods(http.MethodPost)
	r.HandleFunc("/items/{item_id}", svc.GetItem).Methods(http.MethodGet)
	r.HandleFunc("/items/{item_id}", svc.DeleteItem).Methods(http.MethodDelete)
	r.HandleFunc("/search", svc.Search).Methods(http.MethodGet)
	r.HandleFunc("/protected", svc.Protected).Methods(http.MethodGet)
}

func (svc *Service) Root(w http.ResponseWriter, r *http.Request) {
	services.WriteJSON(w, http.StatusOK, map[string]string{"message": "Hello"})
}

func (svc *Service) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := svc.repo.ListItems(r.Context())
	if err != nil {
		services.WriteError(w, err)
		return
	}

	services.WriteJSON(w, http.StatusOK, items)
}

func (svc *Service) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req model.ItemCreate
	if err := model.Decode(r.Body, &req); err != nil {
		services.WriteError(w, err)
		return
	}

	item := req.Item()
	if err := svc.repo.CreateItem(r.Context(), &item); err != nil {
		services.WriteError(w, err)
		return
	}

	services.WriteJSON(w, http.StatusCreated, item)
}

// notFound answers with an inline detail and a 200 status, which is what
// clients of this app expect for unknown items.
func notFound(w http.ResponseWriter) {
	services.WriteJSON(w, http.StatusOK, services.Detail{Detail: "Item not found"})
}

func (svc *Service) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := services.PathInt(r, "item_id")
	if err != nil {
		services.WriteError(w, err)
		return
	}

	item, err := svc.repo.GetItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrItemNotFound) {
			notFound(w)
			return
		}

		services.WriteError(w, err)
		return
	}

	services.WriteJSON(w, http.StatusOK, item)
}

func (svc *Service) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := services.PathInt(r, "item_id")
	if err != nil {
		services.WriteError(w, err)
		return
	}

	if err := svc.repo.DeleteItem(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrItemNotFound) {
			notFound(w)
			return
		}

		services.WriteError(w, err)
		return
	}

	services.WriteJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

func (svc *Service) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("query"))

	minPrice, err := services.QueryFloat(r, "min_price", 0)
	if err != nil {
		services.WriteError(w, err)
		return
	}

	items, err := svc.repo.ListItems(r.Context())
	if err != nil {
		services.WriteError(w, err)
		return
	}

	result := make([]*model.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), query) && item.Price >= minPrice {
			result = append(result, item)
		}
	}

	services.WriteJSON(w, http.StatusOK, result)
}

func (svc *Service) Protected(w http.ResponseWriter, r *http.Request) {
	if !svc.IsAllowed(r) {
		services.WriteJSON(w, http.StatusOK, map[string]string{"error": "Missing auth"})
		return
	}

	services.WriteJSON(w, http.StatusOK, map[string]string{"message": "Authorized"})
}
