package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"restopos/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
