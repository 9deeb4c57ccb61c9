package async

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/agenticai/patterns/internal/background"
	"github.com/agenticai/patterns/internal/model"
	"github.com/agenticai/patterns/internal/rpc"
	"github.com/agenticai/patterns/internal/services"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

func (svc *Service) Fast(w http.ResponseWriter, r *http.Request) {
	services.WriteJSON(w, http.StatusOK, map[string]string{"status": "fast response"})
}

func (svc *Service) SimulateWait(w http.ResponseWriter, r *http.Request) {
	seconds, err := services.QueryInt(r, "seconds", 2)
	if err != nil {
		services.WriteError(w, err)
		return
	}

	if seconds < 0 {
		services.WriteError(w, model.NewFieldError("ensure this value is greater than or equal to 0", "value_error.number.not_ge", "query", "seconds"))
		return
	}

	if limit := svc.maxUnits(); seconds > limit {
		services.WriteError(w, model.NewFieldError(fmt.Sprintf("ensure this value is less than or equal to %d", limit), "value_error.number.not_le", "query", "seconds"))
		return
	}

	// nobody is left to answer if the client went away
	if err := sleep(r.Context(), svc.units(float64(seconds))); err != nil {
		return
	}

	services.WriteJSON(w, http.StatusOK, map[string]string{
		"waited": strconv.Itoa(seconds) + " seconds",
		"status": "done",
	})
}

func (svc *Service) QueueTask(w http.ResponseWriter, r *http.Request) {
	id := background.Add(r.Context(), svc.queue, "processing", svc.logTask(1, "processing"))

	services.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Task queued",
		"status":  "submitted",
		"job_id":  id.String(),
	})
}

func (svc *Service) GetConfig(w http.ResponseWriter, r *http.Request) {
	settings := svc.settings()

	services.WriteJSON(w, http.StatusOK, map[string]any{
		"timeout": int(settings.Timeout.Seconds()),
		"api_key": "***",
	})
}

func (svc *Service) StreamHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, _ := w.(http.Flusher)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)

	_ = svc.chunks(r.Context(), func(c rpc.Chunk) error {
		if err := enc.Encode(c); err != nil {
			return err
		}

		if flusher != nil {
			flusher.Flush()
		}

		return nil
	})
}

func (svc *Service) Concurrent(w http.ResponseWriter, r *http.Request) {
	endpoints := []struct {
		name  string
		delay float64
	}{
		{"service1", 3},
		{"service2", 2},
		{"service3", 1},
	}

	results := make([]FetchResult, len(endpoints))

	g, ctx := errgroup.WithContext(r.Context())
	for idx, e := range endpoints {
		g.Go(func() error {
			res, err := svc.fetch(ctx, e.name, e.delay)
			if err != nil {
				return err
			}

			results[idx] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return
	}

	services.WriteJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (svc *Service) RunAgent(w http.ResponseWriter, r *http.Request) {
	var req model.AgentRequest
	if err := model.Decode(r.Body, &req); err != nil {
		services.WriteError(w, err)
		return
	}

	result, err := svc.runAgent(r.Context(), &req)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}

		services.WriteError(w, err)
		return
	}

	services.WriteJSON(w, http.StatusOK, model.AgentResponse{Result: result})
}

func (svc *Service) WithTimeout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), svc.units(2))
	defer cancel()

	result, err := svc.longRunningOperation(ctx)
	switch {
	case err == nil:
		services.WriteJSON(w, http.StatusOK, map[string]string{"result": result})

	case errors.Is(err, context.DeadlineExceeded) && r.Context().Err() == nil:
		services.WriteJSON(w, http.StatusOK, map[string]any{
			"error":  "Operation timed out",
			"status": http.StatusRequestTimeout,
		})
	}
}

func (svc *Service) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["job_id"])
	if err != nil {
		services.WriteError(w, model.NewFieldError("value is not a valid uuid", "type_error.uuid", "path", "job_id"))
		return
	}

	job, ok := svc.queue.Get(id)
	if !ok {
		services.WriteJSON(w, http.StatusNotFound, services.Detail{Detail: "Job not found"})
		return
	}

	services.WriteJSON(w, http.StatusOK, job)
}
