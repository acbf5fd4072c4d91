package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bianoble/sortbyext/cmd/sortbyext/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}
