package cli

import (
	"fmt"

	"github.com/go-barry/bodensee"
	"github.com/go-barry/bodensee/core"
	"github.com/urfave/cli/v2"
)

func buildRouter(config *core.Config) (*core.Router, error) {
	router := core.NewRouter(*config, core.RuntimeContext{Env: "dev"})
	if err := bodensee.RegisterRoutes(router); err != nil {
		return nil, err
	}
	return router, nil
}

var RoutesCommand = &cli.Command{
	Name:  "routes",
	Usage: "Print the route table in dispatch order",
	Flags: []cli.Flag{configFlag()},
	Action: func(c *cli.Context) error {
		router, err := buildRouter(core.LoadConfig(c.String("config")))
		if err != nil {
			return fmt.Errorf("failed to register routes: %w", err)
		}

		for _, route := range router.Routes() {
			fmt.Printf("%-7s %s\n", route.Method, route.Pattern)
		}
		return nil
	},
}
