package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-barry/bodensee/core"
	"github.com/urfave/cli/v2"
)

var CleanCommand = &cli.Command{
	Name:      "clean",
	Usage:     "Delete minified assets from the cache (default: outputDir/static)",
	ArgsUsage: "[asset path (optional)]",
	Flags:     []cli.Flag{configFlag()},
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(c.String("config"))
		target := core.AssetCacheDir(*config)

		if c.Args().Len() > 0 {
			rel := strings.TrimPrefix(c.Args().Get(0), "/")
			rel = strings.TrimPrefix(rel, "static/")
			if strings.Contains(rel, "..") {
				return fmt.Errorf("invalid asset path: %s", c.Args().Get(0))
			}
			target = core.CachedAssetPath(*config, rel)
		}

		if _, err := os.Stat(target); err != nil {
			if os.IsNotExist(err) {
				fmt.Println("🧼 Nothing to clean:", target)
				return nil
			}
			return fmt.Errorf("failed to access path: %w", err)
		}

		fmt.Println("🧹 Cleaning:", target)
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("failed to clean cache: %w", err)
		}
		if filepath.Ext(target) != "" {
			os.Remove(target + ".gz")
		}

		fmt.Println("✅ Done.")
		return nil
	},
}
