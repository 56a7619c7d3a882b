//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"rental_billing/internal/app"
	"rental_billing/internal/conf"
	"rental_billing/internal/dao/mongodb"
	"rental_billing/internal/dao/repository"
	"rental_billing/internal/db"
	"rental_billing/internal/limiter"
	"rental_billing/internal/logger"
	"rental_billing/internal/logic"
	"rental_billing/internal/middleware/http"
	"rental_billing/internal/provider"
	"rental_billing/internal/service"
	"rental_billing/internal/worker"
)

// repositoryProviders binds every DAO to its repository interface.
var repositoryProviders = wire.NewSet(
	mongodb.NewRoomDAO,
	wire.Bind(new(repository.RoomRepository), new(*mongodb.RoomDAO)),
	mongodb.NewTenantDAO,
	wire.Bind(new(repository.TenantRepository), new(*mongodb.TenantDAO)),
	mongodb.NewReadingDAO,
	wire.Bind(new(repository.ReadingRepository), new(*mongodb.ReadingDAO)),
	mongodb.NewBillDAO,
	wire.Bind(new(repository.BillRepository), new(*mongodb.BillDAO)),
	mongodb.NewPaymentLogDAO,
	wire.Bind(new(repository.PaymentLogRepository), new(*mongodb.PaymentLogDAO)),
	mongodb.NewRateConfigDAO,
	wire.Bind(new(repository.RateConfigRepository), new(*mongodb.RateConfigDAO)),
	mongodb.NewAuditLogDAO,
	wire.Bind(new(repository.AuditLogRepository), new(*mongodb.AuditLogDAO)),
	mongodb.NewOutboxDAO,
	wire.Bind(new(repository.OutboxRepository), new(*mongodb.OutboxDAO)),
	mongodb.NewActivityDAO,
	wire.Bind(new(repository.ActivityRepository), new(*mongodb.ActivityDAO)),
)

// baseProviders holds the components shared by every entrypoint.
var baseProviders = wire.NewSet(
	wire.FieldsOf(new(*conf.AppConfig), "LogConfig", "MongodbConfig", "WorkerConfig", "RabbitMQConfig", "RedisConfig", "RateLimiterConfig", "BillingConfig"),
	provider.ProvideAppMode,
	logger.NewLogger,
	mongodb.NewMongoDB,
	provider.ProvideDatabase,
	provider.ProvideMachineID,
	provider.ProvideBillSerialGenerator,
	provider.ProvideBillingEventTopic,
	provider.ProvideTransactionManager,
	repositoryProviders,
)

var logicProviders = wire.NewSet(
	logic.NewBillingEventPublisher,
	logic.NewCalendarLogic,
	logic.NewRateLogic,
	wire.Bind(new(logic.RateProvider), new(*logic.RateLogic)),
	logic.NewReadingLogic,
	logic.NewBillGenerator,
	logic.NewLedgerLogic,
	logic.NewBillQueryLogic,
	logic.NewMonitorLogic,
	logic.NewRoomLogic,
	logic.NewDashboardLogic,
)

func provideBillingService(bills *logic.BillQueryLogic, generator *logic.BillGenerator, ledger *logic.LedgerLogic, readings *logic.ReadingLogic, monitor *logic.MonitorLogic, tm db.TransactionManager, logger *zap.Logger) *service.BillingService {
	return service.NewBillingService(bills, generator, ledger, readings, monitor, tm, logger)
}

func provideRoomService(rooms *logic.RoomLogic, tm db.TransactionManager, logger *zap.Logger) *service.RoomService {
	return service.NewRoomService(rooms, tm, logger)
}

func provideSettingsService(rates *logic.RateLogic, calendar *logic.CalendarLogic, tm db.TransactionManager, logger *zap.Logger) *service.SettingsService {
	return service.NewSettingsService(rates, calendar, tm, logger)
}

func provideDashboardService(dashboard *logic.DashboardLogic, logger *zap.Logger) *service.DashboardService {
	return service.NewDashboardService(dashboard, logger)
}

// provideAPIWorkers relays the outbox from the API process.
func provideAPIWorkers(p *worker.OutboxProcessor) []worker.Worker {
	return []worker.Worker{p}
}

func InitializeAPIApp(appConfig *conf.AppConfig) (*app.App, func(), error) {
	wire.Build(
		baseProviders,
		logicProviders,
		wire.FieldsOf(new(*conf.AppConfig), "Port"),
		provider.ProvideRedisNamespace,
		provider.ProvideRedisClient,
		limiter.NewManager,
		provider.ProvidePublisher,
		worker.NewOutboxProcessor,
		provideAPIWorkers,
		provideBillingService,
		provideRoomService,
		provideSettingsService,
		provideDashboardService,
		app.NewServices,
		http.NewAuthMiddleware,
		app.NewRouter,
		app.NewApp,
	)
	return nil, nil, nil
}
