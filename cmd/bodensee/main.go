package main

import (
	"log"
	"os"

	bodenseecli "github.com/go-barry/bodensee/cli"
	clilib "github.com/urfave/cli/v2"
)

func runApp(args []string) error {
	app := &clilib.App{
		Name:  "bodensee",
		Usage: "Greeting and lake temperature web service",
		Commands: []*clilib.Command{
			bodenseecli.InitCommand,
			bodenseecli.DevCommand,
			bodenseecli.ProdCommand,
			bodenseecli.RoutesCommand,
			bodenseecli.CheckCommand,
			bodenseecli.CleanCommand,
			bodenseecli.InfoCommand,
		},
	}
	return app.Run(args)
}

func main() {
	if err := runApp(os.Args); err != nil {
		log.Fatal(err)
	}
}
