//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"rental_billing/cmd/consumer/handlers"
	"rental_billing/internal/conf"
	"rental_billing/internal/dao/mongodb"
	"rental_billing/internal/dao/repository"
	"rental_billing/internal/logger"
	"rental_billing/internal/logic"
	"rental_billing/internal/mq/rabbitmq"
	"rental_billing/internal/provider"
	"rental_billing/internal/worker"
)

// provideHandlers collects all MessageHandlers into a slice.
func provideHandlers(activityHandler *handlers.ActivityHandler) []handlers.MessageHandler {
	return []handlers.MessageHandler{activityHandler}
}

func provideReadingReminder(monitor *logic.MonitorLogic, publisher *logic.BillingEventPublisher, cfg *conf.WorkerConfig, logger *zap.Logger) *worker.ReadingReminder {
	return worker.NewReadingReminder(monitor, publisher, cfg, logger)
}

func provideWorkers(reminder *worker.ReadingReminder) []worker.Worker {
	return []worker.Worker{reminder}
}

// InitializeConsumerApp creates the consumer application and its dependencies.
func InitializeConsumerApp(appConfig *conf.AppConfig) (*ConsumerApp, func(), error) {
	wire.Build(
		wire.FieldsOf(new(*conf.AppConfig), "LogConfig", "MongodbConfig", "RabbitMQConfig", "WorkerConfig", "BillingConfig"),
		provider.ProvideAppMode,

		logger.NewLogger,
		mongodb.NewMongoDB,
		provider.ProvideDatabase,
		provider.ProvideBillingEventTopic,

		mongodb.NewRoomDAO,
		wire.Bind(new(repository.RoomRepository), new(*mongodb.RoomDAO)),
		mongodb.NewReadingDAO,
		wire.Bind(new(repository.ReadingRepository), new(*mongodb.ReadingDAO)),
		mongodb.NewBillDAO,
		wire.Bind(new(repository.BillRepository), new(*mongodb.BillDAO)),
		mongodb.NewOutboxDAO,
		wire.Bind(new(repository.OutboxRepository), new(*mongodb.OutboxDAO)),
		mongodb.NewActivityDAO,
		wire.Bind(new(repository.ActivityRepository), new(*mongodb.ActivityDAO)),

		logic.NewBillingEventPublisher,
		logic.NewCalendarLogic,
		logic.NewMonitorLogic,
		logic.NewActivityLogic,

		rabbitmq.NewConsumer,
		provideReadingReminder,
		provideWorkers,

		handlers.NewActivityHandler,
		provideHandlers,

		NewConsumerApp,
	)
	return nil, nil, nil
}
