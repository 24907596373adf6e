package cli

import (
	"github.com/go-barry/bodensee"
	"github.com/go-barry/bodensee/core"

	"github.com/urfave/cli/v2"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   core.DefaultConfigFile,
		Usage:   "path to the YAML or TOML config file",
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Value:   8080,
			EnvVars: []string{"BODENSEE_PORT"},
			Usage:   "port to listen on",
		},
		configFlag(),
	}
}

func runtimeConfig(c *cli.Context, env string) bodensee.RuntimeConfig {
	return bodensee.RuntimeConfig{
		Env:        env,
		Port:       c.Int("port"),
		ConfigPath: c.String("config"),
	}
}

var DevCommand = &cli.Command{
	Name:  "dev",
	Usage: "Start Bodensee in dev mode (unminified assets, live reload)",
	Flags: serveFlags(),
	Action: func(c *cli.Context) error {
		bodensee.Start(runtimeConfig(c, "dev"))
		return nil
	},
}

var ProdCommand = &cli.Command{
	Name:  "prod",
	Usage: "Start Bodensee in production mode (minified, gzipped assets)",
	Flags: serveFlags(),
	Action: func(c *cli.Context) error {
		bodensee.Start(runtimeConfig(c, "prod"))
		return nil
	},
}
