// Package main is the entry point for the shelf CLI.
//
// shelf tracks a small library's books in a JSON catalog file. Settings come
// from flags, SHELF_* environment variables (optionally from .env or
// .env.local) and an optional shelf.yaml.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/shelf/internal/cli"
	"github.com/roach88/shelf/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	config.LoadEnvFiles()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shelf: %v\n", err)
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}
