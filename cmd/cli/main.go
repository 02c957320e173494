// Package main is the entry point for the commodity-price CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"commodity-price/cmd/cli/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
