package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"rental_billing/internal/conf"
)

// The consumer keeps the activity feed current and runs the reading reminder.
func main() {
	confPath := flag.String("c", "internal/conf/config.yaml", "path to config file")
	flag.Parse()

	appConfig, err := conf.NewConfig(*confPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	consumerApp, cleanup, err := InitializeConsumerApp(appConfig)
	if err != nil {
		log.Fatalf("failed to initialize consumer app: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	consumerApp.logger.Info("Starting consumer application")
	runErr := consumerApp.Run(ctx)
	stop()
	if runErr != nil {
		consumerApp.logger.Error("Consumer application exited with error", zap.Error(runErr))
	} else {
		consumerApp.logger.Info("Consumer application shut down gracefully")
	}
	cleanup()

	if runErr != nil {
		os.Exit(1)
	}
}
