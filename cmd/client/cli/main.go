package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/fruitpie/internal/client/cli"
	"github.com/dmitrijs2005/fruitpie/internal/client/config"
	"github.com/dmitrijs2005/fruitpie/internal/logging"
)

func main() {

	cfg := config.LoadConfig()
	log := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start client", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
