package router

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kpi-dashboard/internal/domain"
	"kpi-dashboard/internal/endpoints"
	"kpi-dashboard/internal/util"
)

// Dependencies are the collaborators the handlers are built from.
type Dependencies struct {
	Store   domain.DashboardStore
	Catalog endpoints.CatalogLoader
	DataDir string
	Logger  *util.DashboardLogger
}

func NewRouter(deps Dependencies) *mux.Router {
	r := mux.NewRouter()

	registry := prometheus.NewRegistry()
	metrics := newHTTPMetrics(registry)

	addRoutes(r, deps)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")

	r.Use(requestIDMiddleware, loggingMiddleware(deps.Logger), metrics.middleware)

	return r
}

func addRoutes(r *mux.Router, deps Dependencies) {

	metricsHandler := &endpoints.Metrics{}
	metricsHandler.Init(deps.Store, deps.Logger)

	targetsHandler := &endpoints.Targets{}
	targetsHandler.Init(deps.Store, deps.Logger)

	kpisHandler := &endpoints.Kpis{}
	kpisHandler.Init(deps.Catalog, deps.Logger)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/dashboard/metrics/latest", metricsHandler.LatestMetricsHandler).Methods("GET")
	api.HandleFunc("/dashboard/metrics", metricsHandler.ListMetricsHandler).Methods("GET")
	api.HandleFunc("/dashboard/metrics", metricsHandler.CreateMetricHandler).Methods("POST")

	api.HandleFunc("/dashboard/targets", targetsHandler.ListTargetsHandler).Methods("GET")
	api.HandleFunc("/dashboard/targets", targetsHandler.CreateTargetHandler).Methods("POST")
	api.HandleFunc("/dashboard/targets/{metricName}", targetsHandler.GetTargetHandler).Methods("GET")

	api.HandleFunc("/kpis", kpisHandler.ListKpisHandler).Methods("GET")

	files := http.FileServer(fileOnlyFS{http.Dir(deps.DataDir)})
	r.PathPrefix("/data/").Handler(http.StripPrefix("/data/", files)).Methods("GET", "HEAD")
}

// fileOnlyFS hides directories so /data/* serves files and nothing else.
type fileOnlyFS struct {
	fs http.FileSystem
}

func (f fileOnlyFS) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func Run(deps Dependencies, addr string, shutdownTimeout time.Duration) error {
	appRouter := NewRouter(deps)

	server := NewServer(addr, appRouter)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	shutdownErr := make(chan error, 1)

	go func() {
		<-quit
		println()
		log.Println("Shutting down server...")
		deps.Logger.LogEvent(util.LOG_LEVEL_INFO, "Shutting down server")

		shutdownErr <- gracefulShutdown(server, shutdownTimeout)
	}()

	log.Printf("Listening on %s", server.Addr)
	deps.Logger.LogEvent(util.LOG_LEVEL_INFO, "Listening on ", server.Addr)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	if err := <-shutdownErr; err != nil {
		log.Printf("Server stopped with error: %s", err.Error())
		return err
	}
	log.Println("Server stopped gracefully.")
	return nil
}

func gracefulShutdown(server *http.Server, maximumTime time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), maximumTime)
	defer cancel()

	return server.Shutdown(ctx)
}
