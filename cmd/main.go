package main

import (
	"context"
	"errors"
	"os"

	"github.com/donmerendolo/exportify-cli/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:    "exportify",
		Usage:   "Export Spotify playlists to CSV or JSON",
		Version: "1.0.0",
		Flags:   rootFlags(),
		Action:  runner.Export,
		Commands: []*cli.Command{
			authCommand(runner),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Error(err.Error())
		if errors.Is(err, shared.ErrUnauthorized) {
			logger.Error("Spotify rejected the stored credentials, run `exportify auth` to log in again")
		}
		os.Exit(1)
	}
}
