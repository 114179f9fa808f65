package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/authkeeper/internal/client/api"
	"github.com/dmitrijs2005/authkeeper/internal/client/cli"
	"github.com/dmitrijs2005/authkeeper/internal/client/config"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, args, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := cli.NewApp(api.New(cfg.ServerURL, cfg.Timeout), os.Stdin, os.Stdout)

	if err := app.Run(ctx, args); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		log.Fatalf("%v", err)
	}

}
