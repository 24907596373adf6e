package cli

import (
	"fmt"

	"github.com/go-barry/bodensee/core"
	"github.com/urfave/cli/v2"
)

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print configuration, route table size and asset cache summary",
	Flags: []cli.Flag{configFlag()},
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(c.String("config"))

		fmt.Println("📁 Output Directory:", config.OutputDir)
		fmt.Println("📁 Static Directory:", config.StaticDir)
		fmt.Println("🔁 Debug Headers Enabled:", config.DebugHeaders)
		fmt.Println("🔁 Debug Logs Enabled:", config.DebugLogs)
		fmt.Println("📝 Log Format:", config.LogFormat)
		fmt.Println()

		routeCount := 0
		if router, err := buildRouter(config); err == nil {
			routeCount = len(router.Routes())
		}

		fmt.Println("🗂️  Routes Registered:", routeCount)
		fmt.Println("📦 Static Assets:", core.CountStaticAssets(*config))
		fmt.Println("💾 Minified Assets:", core.CountCachedAssets(*config))

		return nil
	},
}
