package bodensee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/go-barry/bodensee/core"
	"github.com/go-barry/bodensee/routes"
)

type RuntimeConfig struct {
	Env        string
	Port       int
	ConfigPath string
}

const (
	cacheNoStore   = "no-store"
	cacheImmutable = "public, max-age=31536000, immutable"
)

var (
	RegisterRoutes = routes.Register

	ListenAndServe = func(srv *http.Server) error {
		return srv.ListenAndServe()
	}

	Exit = os.Exit
)

// Start runs the server until SIGINT or SIGTERM and exits the process on
// failure.
var Start = func(cfg RuntimeConfig) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Server failed: %v\n", err)
		Exit(1)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured shutdown timeout.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	fmt.Println("Starting Bodensee in", cfg.Env, "mode...")

	config := core.LoadConfig(cfg.ConfigPath)
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := core.NewLogger(config)

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	addr, handler, err := BuildServer(serveCtx, cfg, config, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: addr, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		errCh <- ListenAndServe(srv)
	}()

	fmt.Printf("✅ Bodensee running at http://localhost:%d\n", cfg.Port)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", config.ShutdownTimeoutDuration())
	shutdownCtx, done := context.WithTimeout(context.Background(), config.ShutdownTimeoutDuration())
	defer done()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// BuildServer composes the router, static assets and, in dev, live reload.
// Background work started here stops when ctx is done.
func BuildServer(ctx context.Context, cfg RuntimeConfig, config *core.Config, logger *slog.Logger) (string, http.Handler, error) {
	router := core.NewRouter(*config, core.RuntimeContext{
		Env:    cfg.Env,
		Logger: logger,
	})
	if err := RegisterRoutes(router); err != nil {
		return "", nil, fmt.Errorf("register routes: %w", err)
	}

	mux := http.NewServeMux()

	if cfg.Env == "dev" {
		reloader := core.NewLiveReloader(logger)
		mux.HandleFunc(core.ReloadPath, reloader.Handler)
		context.AfterFunc(ctx, reloader.Close)

		if watcher, err := core.NewDirWatcher(config.StaticDir, logger); err != nil {
			logger.Warn("static watch disabled", "dir", config.StaticDir, "error", err)
		} else {
			go watcher.Run(ctx, func(string) { reloader.BroadcastReload() })
		}
	} else {
		n := core.MinifyAll(*config, logger)
		logger.Info("static assets minified", "count", n, "cache", core.AssetCacheDir(*config))
	}

	mux.Handle("/static/", makeStaticHandler(*config, cfg.Env))
	mux.Handle("/", router)

	for _, route := range router.Routes() {
		logger.Debug("route", "method", route.Method, "pattern", route.Pattern)
	}

	return fmt.Sprintf(":%d", cfg.Port), core.LogRequests(logger, mux), nil
}

func makeStaticHandler(config core.Config, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(r.URL.Path, "/static/")
		if strings.Contains(rel, "..") {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		if env == "dev" {
			serveFileWithHeaders(w, r, filepath.Join(config.StaticDir, rel), cacheNoStore)
			return
		}

		if core.IsMinifiable(rel) {
			if cached, gzPath, ok := core.GetCachedAsset(config, rel); ok {
				if gzPath != "" && acceptsGzip(r) {
					w.Header().Set("Content-Type", detectMimeType(rel))
					w.Header().Set("Content-Encoding", "gzip")
					w.Header().Set("Vary", "Accept-Encoding")
					w.Header().Set("Cache-Control", cacheImmutable)
					http.ServeFile(w, r, gzPath)
					return
				}
				serveFileWithHeaders(w, r, cached, cacheImmutable)
				return
			}
		}

		serveFileWithHeaders(w, r, filepath.Join(config.StaticDir, rel), cacheImmutable)
	})
}

func serveFileWithHeaders(w http.ResponseWriter, r *http.Request, path, cacheControl string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", detectMimeType(path))
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeFile(w, r, path)
}

func detectMimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".json":
		return "application/json"
	case ".html":
		return "text/html"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".ico":
		return "image/x-icon"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	default:
		return "application/octet-stream"
	}
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}
