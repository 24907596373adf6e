package cli

import (
	"fmt"

	"github.com/go-barry/bodensee/core"
	"github.com/urfave/cli/v2"
)

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Validate the config file and the route table",
	Flags: []cli.Flag{configFlag()},
	Action: func(c *cli.Context) error {
		var failed bool

		config := core.LoadConfig(c.String("config"))
		if err := config.Validate(); err != nil {
			failed = true
			fmt.Printf("❌ config → %v\n", err)
		} else {
			fmt.Println("✅ config")
		}

		router, err := buildRouter(config)
		if err != nil {
			fmt.Printf("❌ routes → %v\n", err)
			return cli.Exit("route registration failed", 1)
		}

		for _, route := range router.Shadowed() {
			failed = true
			fmt.Printf("❌ %s %s → shadowed by an earlier registration\n", route.Method, route.Pattern)
		}
		if !failed {
			fmt.Printf("✅ %d routes\n", len(router.Routes()))
		}

		if failed {
			return cli.Exit("some checks failed", 1)
		}

		fmt.Println("✅ All checks passed.")
		return nil
	},
}
