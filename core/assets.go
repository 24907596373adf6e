package core

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minjs "github.com/tdewolff/minify/v2/js"
)

var minifyTypes = map[string]string{
	".css": "text/css",
	".js":  "application/javascript",
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", mincss.Minify)
	m.AddFunc("application/javascript", minjs.Minify)
	return m
}

// IsMinifiable reports whether a static asset is minified for prod.
// Files already carrying a .min suffix are served as they are.
func IsMinifiable(rel string) bool {
	ext := filepath.Ext(rel)
	if _, ok := minifyTypes[ext]; !ok {
		return false
	}
	name := strings.TrimSuffix(filepath.Base(rel), ext)
	return !strings.HasSuffix(name, ".min")
}

// MinifyAsset minifies one file under the static dir into the asset cache.
func MinifyAsset(config Config, rel string) error {
	if !IsMinifiable(rel) {
		return fmt.Errorf("not minifiable: %s", rel)
	}

	src := filepath.Join(config.StaticDir, filepath.FromSlash(rel))
	original, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read asset: %w", err)
	}

	var buf bytes.Buffer
	mediatype := minifyTypes[filepath.Ext(rel)]
	if err := newMinifier().Minify(mediatype, &buf, bytes.NewReader(original)); err != nil {
		return fmt.Errorf("minify %s: %w", rel, err)
	}

	return SaveCachedAsset(config, rel, buf.Bytes())
}

// MinifyAll walks the static dir and minifies every eligible asset. Assets
// that fail to minify are logged and later served unminified.
func MinifyAll(config Config, logger *slog.Logger) int {
	count := 0
	filepath.WalkDir(config.StaticDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(config.StaticDir, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !IsMinifiable(rel) {
			return nil
		}

		if err := MinifyAsset(config, rel); err != nil {
			logger.Warn("asset not minified", "asset", rel, "error", err)
			return nil
		}
		logger.Debug("asset minified", "asset", rel)
		count++
		return nil
	})
	return count
}

func CountStaticAssets(config Config) int {
	count := 0
	filepath.WalkDir(config.StaticDir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			count++
		}
		return nil
	})
	return count
}
