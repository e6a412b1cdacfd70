package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(logger)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", zap.Error(err))
		_ = logger.Sync()
		stop()
		os.Exit(1)
	}
}
