package bodensee

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-barry/bodensee/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T) *core.Config {
	t.Helper()
	return &core.Config{
		StaticDir:       t.TempDir(),
		OutputDir:       t.TempDir(),
		LogFormat:       "text",
		ShutdownTimeout: "1s",
	}
}

func TestDetectMimeType(t *testing.T) {
	tests := map[string]string{
		"file.css":     "text/css",
		"script.js":    "application/javascript",
		"image.webp":   "image/webp",
		"icon.svg":     "image/svg+xml",
		"photo.png":    "image/png",
		"photo.JPEG":   "image/jpeg",
		"font.woff":    "font/woff",
		"font.woff2":   "font/woff2",
		"unknown.file": "application/octet-stream",
	}

	for filename, expected := range tests {
		t.Run(filename, func(t *testing.T) {
			if mime := detectMimeType(filename); mime != expected {
				t.Errorf("got %s, want %s", mime, expected)
			}
		})
	}
}

func TestAcceptsGzip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	if !acceptsGzip(req) {
		t.Error("expected true for Accept-Encoding with gzip")
	}

	req.Header.Set("Accept-Encoding", "br")
	if acceptsGzip(req) {
		t.Error("expected false for Accept-Encoding without gzip")
	}
}

func TestServeFileWithHeaders(t *testing.T) {
	filePath := writeFile(t, t.TempDir(), "test.txt", "Hello, Bodensee!")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/static/test.txt", nil)

	serveFileWithHeaders(rec, req, filePath, "no-cache")

	resp := rec.Result()
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("unexpected content-type: %s", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("unexpected cache-control: %s", cc)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "Hello, Bodensee!" {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestStaticHandler_MissingFileAndDirectory(t *testing.T) {
	cfg := testConfig(t)
	_ = os.MkdirAll(filepath.Join(cfg.StaticDir, "js"), 0755)

	for _, env := range []string{"dev", "prod"} {
		handler := makeStaticHandler(*cfg, env)
		for _, path := range []string{"/static/missing.js", "/static/js"} {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusNotFound {
				t.Errorf("%s %s: expected 404, got %d", env, path, rec.Code)
			}
		}
	}
}

func TestStaticHandler_RejectsTraversal(t *testing.T) {
	handler := makeStaticHandler(*testConfig(t), "prod")

	req := httptest.NewRequest(http.MethodGet, "/static/../secrets.txt", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 Bad Request, got %d", rec.Code)
	}
}

func TestStaticHandler_DevServesSourceWithNoStore(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.StaticDir, "game.js", "let clicks = 0;")

	rec := httptest.NewRecorder()
	makeStaticHandler(*cfg, "dev").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/game.js?v=1", nil))

	if rec.Body.String() != "let clicks = 0;" {
		t.Errorf("expected source file, got %q", rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("expected 'no-store', got %q", cc)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/javascript" {
		t.Errorf("expected application/javascript, got %q", ct)
	}
}

func TestStaticHandler_ProdServesGzipFromCache(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.StaticDir, "script.js", "source")
	if err := core.SaveCachedAsset(*cfg, "script.js", []byte("minified")); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/static/script.js", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()

	makeStaticHandler(*cfg, "prod").ServeHTTP(rec, req)
	resp := rec.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 OK, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Content-Encoding") != "gzip" {
		t.Error("expected gzip Content-Encoding")
	}
	if resp.Header.Get("Vary") != "Accept-Encoding" {
		t.Error("expected Vary: Accept-Encoding header")
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/javascript" {
		t.Errorf("expected application/javascript, got %q", ct)
	}
}

func TestStaticHandler_ProdServesCachedWithoutGzip(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.StaticDir, "styles.css", "body { color: red; }")
	if err := core.SaveCachedAsset(*cfg, "styles.css", []byte("body{color:red}")); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	makeStaticHandler(*cfg, "prod").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/styles.css", nil))

	if rec.Header().Get("Content-Encoding") != "" {
		t.Error("did not expect Content-Encoding without gzip support")
	}
	if rec.Body.String() != "body{color:red}" {
		t.Errorf("expected minified css, got %q", rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "immutable") {
		t.Errorf("expected immutable cache header, got %q", cc)
	}
}

func TestStaticHandler_ProdFallsBackToSource(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.StaticDir, "logo.svg", "<svg/>")
	writeFile(t, cfg.StaticDir, "broken.js", "function(){")

	handler := makeStaticHandler(*cfg, "prod")

	tests := map[string]string{
		"/static/logo.svg":  "<svg/>",
		"/static/broken.js": "function(){",
	}
	for path, want := range tests {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Body.String() != want {
			t.Errorf("%s: expected %q, got %q", path, want, rec.Body.String())
		}
	}
}

func TestBuildServerInDev(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr, handler, err := BuildServer(ctx, RuntimeConfig{Env: "dev", Port: 3001}, cfg, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != ":3001" {
		t.Errorf("expected :3001, got %s", addr)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello/Ada", nil))
	if rec.Body.String() != "Nice to meet you, Ada!" {
		t.Errorf("unexpected greeting: %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, core.ReloadPath, nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected plain GET on reload endpoint to fail upgrade, got %d", rec.Code)
	}
}

func TestBuildServerInProd(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.StaticDir, "game.js", "let clicks = 0;\nfunction handleClick() {\n  clicks += 1;\n}\n")

	addr, handler, err := BuildServer(context.Background(), RuntimeConfig{Env: "prod", Port: 1234}, cfg, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != ":1234" {
		t.Errorf("expected :1234, got %s", addr)
	}

	tests := []struct {
		path        string
		status      int
		contentType string
		body        string
	}{
		{"/api/bodensee", http.StatusOK, "application/json", `{"becken":"Bodensee","temp":33.3}`},
		{"/hello/Bodensee", http.StatusOK, "text/plain", "Nice to meet you, Bodensee!"},
		{"/unknown", http.StatusNotFound, "", "Not Found\n"},
		{core.ReloadPath, http.StatusNotFound, "", "Not Found\n"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

		if rec.Code != tt.status {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.status, rec.Code)
		}
		if tt.contentType != "" && rec.Header().Get("Content-Type") != tt.contentType {
			t.Errorf("%s: expected %s, got %s", tt.path, tt.contentType, rec.Header().Get("Content-Type"))
		}
		if rec.Body.String() != tt.body {
			t.Errorf("%s: expected %q, got %q", tt.path, tt.body, rec.Body.String())
		}
	}

	if _, _, ok := core.GetCachedAsset(*cfg, "game.js"); !ok {
		t.Error("expected game.js to be minified into the cache")
	}
}

func TestBuildServer_RegisterFailure(t *testing.T) {
	original := RegisterRoutes
	RegisterRoutes = func(r *core.Router) error {
		return r.Register("/<nope:x>", http.MethodGet, func(core.Params) (any, error) { return "", nil })
	}
	defer func() { RegisterRoutes = original }()

	_, _, err := BuildServer(context.Background(), RuntimeConfig{Env: "prod"}, testConfig(t), testLogger())
	if !errors.Is(err, core.ErrInvalidPattern) {
		t.Errorf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestRun_CallsListenAndServe(t *testing.T) {
	var gotAddr string
	var gotHandler http.Handler

	original := ListenAndServe
	ListenAndServe = func(srv *http.Server) error {
		gotAddr = srv.Addr
		gotHandler = srv.Handler
		return nil
	}
	defer func() { ListenAndServe = original }()

	err := Run(context.Background(), RuntimeConfig{Env: "prod", Port: 4321, ConfigPath: "missing.yml"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAddr != ":4321" {
		t.Errorf("expected addr ':4321', got %q", gotAddr)
	}

	rec := httptest.NewRecorder()
	gotHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bodensee", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, RuntimeConfig{Env: "prod", Port: 0, ConfigPath: "missing.yml"})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_RejectsInvalidConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bodensee.config.yml", "logFormat: xml\n")

	err := Run(context.Background(), RuntimeConfig{Env: "prod", ConfigPath: path})
	if err == nil || !strings.Contains(err.Error(), "logFormat") {
		t.Errorf("expected logFormat validation error, got %v", err)
	}
}

func TestRun_RejectsMalformedConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bodensee.config.yml", "logFormat: json\nshutdownTimeout: [oops\n")

	err := Run(context.Background(), RuntimeConfig{Env: "prod", ConfigPath: path})
	if err == nil || !strings.Contains(err.Error(), "parse "+path) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestStart_ExitsOnServerFailure(t *testing.T) {
	var exitCode int

	originalExit := Exit
	originalListenAndServe := ListenAndServe
	defer func() {
		Exit = originalExit
		ListenAndServe = originalListenAndServe
	}()

	Exit = func(code int) {
		exitCode = code
	}
	ListenAndServe = func(srv *http.Server) error {
		return errors.New("simulated server failure")
	}

	r, w, _ := os.Pipe()
	stdErrBackup := os.Stderr
	os.Stderr = w

	Start(RuntimeConfig{Env: "prod", Port: 1234, ConfigPath: "missing.yml"})

	_ = w.Close()
	os.Stderr = stdErrBackup
	buf, _ := io.ReadAll(r)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(string(buf), "❌ Server failed: simulated server failure") {
		t.Errorf("unexpected stderr output: %q", buf)
	}
}
