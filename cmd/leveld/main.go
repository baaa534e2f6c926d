package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpadapter "github.com/emreCanbazoglu/pixel-sort-level-designer/internal/adapters/http"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/config"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/generator"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/infrastructure/storage"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/solver"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/usecase"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/validator"
)

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// requestLogger logs method, path, status, bytes, and duration in a human-readable format.
func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		dur := time.Since(start)
		logger.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"bytes", sw.bytes,
			"dur", dur.Round(time.Millisecond),
		)
	})
}

func main() {
	cfgPath := flag.String("config", "", "YAML config file (optional)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	persist := flag.String("persist-path", "", "save directory (overrides config)")
	levelStr := flag.String("log-level", "info", "debug|info|warn|error")
	flag.Parse()

	lvl := slog.LevelInfo
	switch strings.ToLower(*levelStr) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Error("config", "err", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *persist != "" {
		cfg.Server.DataDir = *persist
	}
	_ = os.MkdirAll(cfg.Server.DataDir, 0o755)

	simCfg := cfg.Sim.Build()
	opts := solver.Options{Workers: cfg.Solver.Workers, MirrorFold: cfg.Solver.MirrorFold}
	if cfg.Solver.Algorithm == "bestfirst" {
		opts.Algorithm = solver.AlgoBestFirst
	}
	budget := cfg.Solver.Budget()

	// Wire providers → use cases → HTTP adapter
	s := solver.New(simCfg, opts)
	g := generator.NewBackward(s, budget)
	v := validator.New()
	st := storage.NewFS(cfg.Server.DataDir)
	uc := usecase.NewService(s, g, v, st)
	h := httpadapter.New(uc, budget)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	h.Register(mux)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           requestLogger(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("listening",
		"addr", cfg.Server.Addr,
		"persist", cfg.Server.DataDir,
		"algorithm", cfg.Solver.Algorithm,
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
