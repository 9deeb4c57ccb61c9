package async

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/agenticai/patterns/internal/agent"
	"github.com/agenticai/patterns/internal/background"
	"github.com/agenticai/patterns/internal/model"
	"github.com/agenticai/patterns/internal/rpc"
	"github.com/agenticai/patterns/internal/services"
	"github.com/bufbuild/connect-go"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Settings is the configuration exposed through the /config endpoint.
type Settings struct {
	Timeout time.Duration
	APIKey  string
}

// SettingsProvider is injected into the service and asked for the current
// settings on every request.
type SettingsProvider func() Settings

// LLMFactory returns the model used to answer agent requests.
type LLMFactory func(model string) (agent.LLM, error)

type Service struct {
	queue    *background.Queue
	settings SettingsProvider
	llms     LLMFactory
	unit     time.Duration
	log      logrus.FieldLogger

	*services.Common
}

type Option func(*Service)

func WithSettingsProvider(p SettingsProvider) Option {
	return func(s *Service) {
		s.settings = p
	}
}

func WithLLMFactory(f LLMFactory) Option {
	return func(s *Service) {
		s.llms = f
	}
}

// WithTimeUnit scales every simulated delay.
func WithTimeUnit(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.unit = d
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) {
		s.log = log
	}
}

func New(ctx context.Context, queue *background.Queue, common *services.Common, opts ...Option) (*Service, error) {
	svc := &Service{
		queue:  queue,
		unit:   common.Config.TimeUnit,
		log:    logrus.StandardLogger(),
		Common: common,
	}

	if svc.unit <= 0 {
		svc.unit = time.Second
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.settings == nil {
		cfg := common.Config
		svc.settings = func() Settings {
			return Settings{Timeout: cfg.RequestTimeout, APIKey: cfg.APIKey}
		}
	}

	if svc.llms == nil {
		factory, err := NewLLMFactory(common.Config.AgentScript, svc.unit)
		if err != nil {
			return nil, err
		}

		svc.llms = factory
	}

	return svc, nil
}

// NewLLMFactory returns a factory creating one LLM per model. Models are
// backed by the given script or simulated when script is empty.
func NewLLMFactory(script string, latency time.Duration) (LLMFactory, error) {
	if script == "" {
		return func(name string) (agent.LLM, error) {
			return &agent.SimulatedLLM{Model: name, Latency: latency}, nil
		}, nil
	}

	// fail early on broken scripts
	if _, err := agent.LoadScriptLLM(script, model.DefaultAgentModel); err != nil {
		return nil, err
	}

	var (
		l     sync.Mutex
		cache = make(map[string]agent.LLM)
	)

	return func(name string) (agent.LLM, error) {
		l.Lock()
		defer l.Unlock()

		if llm, ok := cache[name]; ok {
			return llm, nil
		}

		llm, err := agent.LoadScriptLLM(script, name)
		if err != nil {
			return nil, err
		}

		cache[name] = llm

		return llm, nil
	}, nil
}

// Register adds the HTTP routes and the agent RPC service to r. Background
// jobs queued by handlers run after the response was written.
func (svc *Service) Register(r *mux.Router) {
	r.Use(svc.queue.Middleware)

	r.HandleFunc("/fast", svc.Fast).Methods(http.MethodGet)
	r.HandleFunc("/simulate-wait", svc.SimulateWait).Methods(http.MethodGet)
	r.HandleFunc("/task", svc.QueueTask).Methods(http.MethodPost)
	r.HandleFunc("/config", svc.GetConfig).Methods(http.MethodGet)
	r.HandleFunc("/stream", svc.StreamHTTP).Methods(http.MethodGet)
	r.HandleFunc("/concurrent", svc.Concurrent).Methods(http.MethodGet)
	r.HandleFunc("/agent", svc.RunAgent).Methods(http.MethodPost)
	r.HandleFunc("/with-timeout", svc.WithTimeout).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{job_id}", svc.GetJob).Methods(http.MethodGet)

	path, handler := rpc.NewAgentServiceHandler(svc, connect.WithInterceptors(
		rpc.NewLoggingInterceptor(),
		rpc.NewValidationInterceptor(),
	))
	r.PathPrefix(path).Handler(handler)
}

// maxUnits is the largest whole number of units a time.Duration can hold.
func (svc *Service) maxUnits() int {
	return int(math.MaxInt64 / int64(svc.unit))
}

func (svc *Service) units(n float64) time.Duration {
	return time.Duration(n * float64(svc.unit))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// logTask is the background job used by /task and /agent.
func (svc *Service) logTask(taskID int, action string) background.Func {
	return func(ctx context.Context) error {
		if err := sleep(ctx, svc.units(2)); err != nil {
			return err
		}

		svc.log.WithField("task", taskID).Infof("[Background] Task %d: %s completed", taskID, action)

		return nil
	}
}

func (svc *Service) runAgent(ctx context.Context, req *model.AgentRequest) (string, error) {
	if req.Prompt == nil {
		return "", model.NewFieldError("field required", "value_error.missing", "body", "prompt")
	}

	def := svc.Config.AgentModel
	if def == "" {
		def = model.DefaultAgentModel
	}

	name := req.ModelOr(def)

	llm, err := svc.llms(name)
	if err != nil {
		return "", fmt.Errorf("failed to create model %q: %w", name, err)
	}

	var runner agent.Runner
	switch n, iterative := req.MaxIterations.Get(); {
	case iterative:
		runner = agent.NewIterative(llm, n)
	case isSimulated(llm):
		// the simulated model echoes the prompt, so tool routing would
		// misread prompts that mention a tool
		runner = agent.RunnerFunc(llm.Generate)
	default:
		runner = agent.New(llm, map[string]agent.Tool{"search": agent.SearchTool{}})
	}

	result, err := runner.Run(ctx, *req.Prompt)
	if err != nil {
		return "", err
	}

	background.Add(ctx, svc.queue, "agent run", svc.logTask(1, "agent run"))

	return result, nil
}

func isSimulated(llm agent.LLM) bool {
	_, ok := llm.(*agent.SimulatedLLM)

	return ok
}

// chunks emits the stream chunks, one every half unit.
func (svc *Service) chunks(ctx context.Context, emit func(rpc.Chunk) error) error {
	for i := 0; i < 5; i++ {
		if err := sleep(ctx, svc.units(0.5)); err != nil {
			return err
		}

		if err := emit(rpc.Chunk{Index: i, Message: fmt.Sprintf("chunk %d", i)}); err != nil {
			return err
		}
	}

	return nil
}

type FetchResult struct {
	Endpoint string `json:"endpoint"`
	Data     string `json:"data"`
}

func (svc *Service) fetch(ctx context.Context, endpoint string, delay float64) (FetchResult, error) {
	if err := sleep(ctx, svc.units(delay)); err != nil {
		return FetchResult{}, err
	}

	return FetchResult{Endpoint: endpoint, Data: "data from " + endpoint}, nil
}

func (svc *Service) longRunningOperation(ctx context.Context) (string, error) {
	if err := sleep(ctx, svc.units(10)); err != nil {
		return "", err
	}

	return "done", nil
}
