package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agenticai/patterns/internal/background"
	"github.com/agenticai/patterns/internal/config"
	"github.com/agenticai/patterns/internal/permission"
	"github.com/agenticai/patterns/internal/repo"
	"github.com/agenticai/patterns/internal/repo/inmem"
	"github.com/agenticai/patterns/internal/repo/mongo"
	"github.com/agenticai/patterns/internal/repo/sqlite"
	"github.com/agenticai/patterns/internal/server"
	"github.com/agenticai/patterns/internal/services"
	"github.com/agenticai/patterns/internal/services/async"
	"github.com/agenticai/patterns/internal/services/basic"
	"github.com/agenticai/patterns/internal/services/items"
	"github.com/agenticai/patterns/internal/services/tasks"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("pattern services starting")

	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		logrus.Fatalf("failed to load configuration: %s", err)
	}

	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		logrus.SetLevel(logrus.DebugLevel)
	}

	slog.Info("configuration loaded successfully")

	var resolver *permission.Resolver
	if len(cfg.APITokens) > 0 {
		resolver = permission.NewResolver(cfg.APITokens)
	}

	common := &services.Common{
		Resolver: resolver,
		Config:   *cfg,
	}

	// the in-memory store serves both record kinds unless a backend is configured
	store := inmem.New()

	var taskBackend repo.TaskBackend = store
	if cfg.MongoDBURL != "" {
		db, err := mongo.New(ctx, cfg.MongoDBURL, cfg.MongoDatabaseName)
		if err != nil {
			logrus.Fatalf("failed to create task repository: %s", err)
		}
		defer db.Close(context.Background())

		taskBackend = db
	}

	var itemBackend repo.ItemBackend = store
	if cfg.ItemsDatabase != "" {
		db, err := sqlite.New(cfg.ItemsDatabase)
		if err != nil {
			logrus.Fatalf("failed to create item repository: %s", err)
		}
		defer db.Close()

		itemBackend = db
	}

	queue := background.NewQueue(cfg.BackgroundWorkers, background.WithLogger(logrus.StandardLogger()))
	queue.Start(ctx)

	basicRouter := mux.NewRouter()
	basic.New(common).Register(basicRouter)

	taskService, err := tasks.New(ctx, taskBackend, common)
	if err != nil {
		logrus.Fatalf("failed to create task service: %s", err)
	}

	tasksRouter := mux.NewRouter()
	taskService.Register(tasksRouter)

	asyncService, err := async.New(ctx, queue, common)
	if err != nil {
		logrus.Fatalf("failed to create async service: %s", err)
	}

	asyncRouter := mux.NewRouter()
	asyncService.Register(asyncRouter)

	itemService, err := items.New(ctx, itemBackend, common)
	if err != nil {
		logrus.Fatalf("failed to create item service: %s", err)
	}

	itemsRouter := mux.NewRouter()
	itemService.Register(itemsRouter)

	loggingHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logrus.Infof("received request: %s %s %s%s", r.Proto, r.Method, r.Host, r.URL.String())

			next.ServeHTTP(w, r)
		})
	}

	corsConfig := server.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
	}

	listeners := []struct {
		addr    string
		handler http.Handler
	}{
		{cfg.BasicListenAddress, basicRouter},
		{cfg.TasksListenAddress, tasksRouter},
		{cfg.AsyncListenAddress, asyncRouter},
		{cfg.ItemsListenAddress, itemsRouter},
	}

	var servers []*http.Server
	for _, l := range listeners {
		srv, err := server.CreateWithOptions(l.addr, loggingHandler(l.handler), server.WithCORS(corsConfig))
		if err != nil {
			logrus.Fatalf("failed to setup server: %s", err)
		}

		servers = append(servers, srv)
	}

	logrus.Infof("HTTP/2 servers (h2c) prepared successfully, starting to listen ...")

	if err := server.Serve(ctx, servers...); err != nil {
		logrus.Fatalf("failed to serve: %s", err)
	}

	// let running background jobs observe the cancellation before exiting
	queue.Wait()
}
