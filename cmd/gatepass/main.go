package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/andrebq/gatepass/cmd/gatepass/local"
	"github.com/andrebq/gatepass/cmd/gatepass/provision"
	"github.com/andrebq/gatepass/cmd/gatepass/serve"
	"github.com/andrebq/gatepass/internal/logutil"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	logLevel := "info"
	logFormat := "console"
	app := &cli.App{
		Name:  "gatepass",
		Usage: "Issue and check credentials for a small proxy api, or gate a local ui",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Minimum level to log (trace, debug, info, warn, error)",
				Value:       logLevel,
				Destination: &logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "Log output format (console or json)",
				Value:       logFormat,
				Destination: &logFormat,
			},
		},
		Before: func(ctx *cli.Context) error {
			return logutil.Setup(logLevel, logFormat)
		},
		Commands: []*cli.Command{
			serve.Cmd(),
			provision.Cmd(),
			local.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}
