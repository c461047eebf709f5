// Command bridgekeeper is the validator companion's entrypoint: a single
// binary exposing the orchestrator (all of Components A-F wired together),
// plus a handful of operator subcommands for one-shot maintenance tasks.
// The App/Command/Flag shape below follows go-ethereum's cmd/geth — a
// package-level *cli.App built once in init() and run from main.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/b10z-labs/bridgekeeper/internal/logger"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to the companion's TOML config file",
		EnvVars: []string{"BRIDGEKEEPER_CONFIG"},
	}
	devFlag = &cli.BoolFlag{
		Name:  "dev",
		Usage: "use human-readable, debug-level logging instead of production JSON",
	}
)

var app = cli.NewApp()

func init() {
	app.Name = "bridgekeeper"
	app.Usage = "Tendermint <-> EVM bridge validator companion"
	app.Flags = []cli.Flag{configFlag, devFlag}
	app.Commands = []*cli.Command{
		orchestratorCommand,
		oracleResyncCommand,
		relayOnceCommand,
		keysCommand,
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loggerFromFlags(c *cli.Context) *logger.Logger {
	if c.Bool(devFlag.Name) {
		return logger.New(true)
	}
	return logger.Default()
}
