package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"rental_billing/internal/conf"
	"rental_billing/internal/dao/mongodb"
	"rental_billing/internal/logger"
	"rental_billing/internal/provider"
)

var rootCmd = &cobra.Command{
	Use:   "rental_billing",
	Short: "Rental billing service",
	Long:  `Meter readings, monthly bills and payments for a rental property, dated on the Bikram Sambat calendar.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*conf.AppConfig, error) {
	confFile, _ := cmd.Flags().GetString("config")
	appConfig, err := conf.NewConfig(confFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	port, _ := cmd.Flags().GetInt("port")
	if port > 0 {
		appConfig.Port = port
	}

	return appConfig, nil
}

var apiCmd = &cobra.Command{
	Use:   "serve:api",
	Short: "Starts the HTTP API",
	Long:  `Ensures the MongoDB indexes, then starts the billing HTTP API and the outbox relay.`,
	Run: func(cmd *cobra.Command, args []string) {
		appConfig, err := loadConfig(cmd)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		app, cleanup, err := InitializeAPIApp(appConfig)
		if err != nil {
			log.Fatalf("failed to init api app: %v", err)
		}
		defer cleanup()

		if err := app.Run(); err != nil {
			log.Fatalf("failed to run api app: %v", err)
		}
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate:indexes",
	Short: "Creates the MongoDB indexes",
	Long:  `Creates the indexes the billing collections rely on, including the unique (room, period) indexes, without starting a server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appConfig, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		zapLogger, cleanupLogger, err := logger.NewLogger(appConfig.LogConfig, provider.ProvideAppMode(appConfig))
		if err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		defer cleanupLogger()

		client, cleanupDB, err := mongodb.NewMongoDB(appConfig.MongodbConfig, zapLogger)
		if err != nil {
			return err
		}
		defer cleanupDB()

		if _, err := provider.ProvideDatabase(client, appConfig.MongodbConfig, zapLogger); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.PersistentFlags().IntP("port", "p", 0, "Port for the server to listen on, overrides the value in the config file")
	rootCmd.PersistentFlags().StringP("config", "c", "internal/conf/config.yaml", "path to config file")
}
