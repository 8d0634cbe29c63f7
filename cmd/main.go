package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/xalps/internal/adapters/feed"
	"github.com/okian/xalps/internal/adapters/http/api"
	"github.com/okian/xalps/internal/adapters/http/swagger"
	"github.com/okian/xalps/internal/adapters/render"
	service "github.com/okian/xalps/internal/app"
	"github.com/okian/xalps/internal/config"
	"github.com/okian/xalps/internal/domain/delta"
	"github.com/okian/xalps/pkg/logger"
	"github.com/okian/xalps/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 10 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	os.Exit(run())
}

func run() int {
	// Config comes first: it decides where the log goes.
	cfg, err := config.Load(context.Background())
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 2
	}

	if err := logger.InitFile(cfg.LogFile); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 2
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM and on the screen's quit key.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	sink, closeSink, err := newSink(cfg, cancel)
	if err != nil {
		log.Error(ctx, "failed to open display", logger.Error(err))
		return 1
	}
	defer closeSink()

	client := feed.NewClient(
		feed.WithTimeout(cfg.HTTPTimeout()),
		feed.WithLogger(log.Named("feed")),
	)
	svc := service.New(serviceOptions(cfg, client, sink, log)...)

	go startSystemMetricsUpdater(ctx)

	if cfg.HTTPAddr != "" {
		srv := newHTTPServer(ctx, cfg.HTTPAddr, svc)
		go func() {
			log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, "HTTP server failed", logger.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error(ctx, "server shutdown failed", logger.Error(err))
			}
		}()
	}

	if err := svc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error(ctx, "leaderboard stopped", logger.Error(err))
		closeSink()
		os.Stderr.WriteString("xalps: " + err.Error() + "\n")
		return 1
	}
	log.Info(ctx, "leaderboard stopped")
	return 0
}

// newSink opens the display selected by cfg. quit is fired by the screen
// sink's quit keys. The returned close func is safe to call twice.
func newSink(cfg *config.Config, quit func()) (render.Sink, func(), error) {
	if cfg.RenderMode == config.RenderText {
		return render.NewTextSink(os.Stdout), func() {}, nil
	}
	screen, err := render.NewScreenSink(render.WithQuit(quit))
	if err != nil {
		return nil, nil, err
	}
	closed := false
	return screen, func() {
		if !closed {
			closed = true
			_ = screen.Close()
		}
	}, nil
}

func serviceOptions(cfg *config.Config, src service.Source, sink render.Sink, log logger.Logger) []service.Option {
	mode := delta.LeaderCurrent
	if cfg.DeltaLegacyLeader {
		mode = delta.LeaderPreviousTwice
	}
	return []service.Option{
		service.WithLogger(log.Named("service")),
		service.WithSource(src),
		service.WithSink(sink),
		service.WithInterval(cfg.RefreshInterval()),
		service.WithTopN(cfg.TopN),
		service.WithTrackAugmentation(cfg.TrackAugmentation),
		service.WithTrackWorkers(cfg.TrackWorkers),
		service.WithLeaderMode(mode),
		service.WithExitOnError(cfg.ExitOnError),
	}
}

func newHTTPServer(ctx context.Context, addr string, board api.BoardProvider) *http.Server {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(board).Register(ctx, mux)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater refreshes process metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
