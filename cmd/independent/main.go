package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"hash-partition-bench/internal/config"
	"hash-partition-bench/internal/driver"
	"hash-partition-bench/internal/harness"
)

func init() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	if err := driver.RunSingle(ctx, harness.IsolatedStrategy, os.Args[1:], cfg, os.Stdout); err != nil {
		zap.L().Fatal(err.Error())
	}
}
