package core

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
)

// AssetCacheDir is where minified static assets live inside the output dir.
func AssetCacheDir(config Config) string {
	return filepath.Join(config.OutputDir, "static")
}

func CachedAssetPath(config Config, rel string) string {
	return filepath.Join(AssetCacheDir(config), filepath.FromSlash(rel))
}

// GetCachedAsset returns the cached copy of a static asset and, when present,
// its gzip sibling.
func GetCachedAsset(config Config, rel string) (path string, gzPath string, ok bool) {
	path = CachedAssetPath(config, rel)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return "", "", false
	}

	gzPath = path + ".gz"
	if _, err := os.Stat(gzPath); err != nil {
		gzPath = ""
	}
	return path, gzPath, true
}

func SaveCachedAsset(config Config, rel string, data []byte) error {
	path := CachedAssetPath(config, rel)
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write cached asset: %w", err)
	}

	f, err := os.Create(path + ".gz")
	if err != nil {
		return fmt.Errorf("create gzip asset: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(data); err != nil {
		gz.Close()
		return fmt.Errorf("write gzip asset: %w", err)
	}
	return gz.Close()
}

// CountCachedAssets counts cached assets, not counting gzip siblings.
func CountCachedAssets(config Config) int {
	count := 0
	filepath.Walk(AssetCacheDir(config), func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() && filepath.Ext(path) != ".gz" {
			count++
		}
		return nil
	})
	return count
}
