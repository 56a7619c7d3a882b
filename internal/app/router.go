package app

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"rental_billing/internal/limiter"
	httpmw "rental_billing/internal/middleware/http"
	"rental_billing/internal/service"
)

const (
	apiPrefix       = "/api/v1"
	generateTimeout = 60 * time.Second
)

// Services groups the HTTP services mounted by the router.
type Services struct {
	Billing   *service.BillingService
	Rooms     *service.RoomService
	Settings  *service.SettingsService
	Dashboard *service.DashboardService
}

func NewServices(billing *service.BillingService, rooms *service.RoomService, settings *service.SettingsService, dashboard *service.DashboardService) *Services {
	return &Services{Billing: billing, Rooms: rooms, Settings: settings, Dashboard: dashboard}
}

// NewRouter registers every route. All /api/v1 routes require an operator;
// every route shares one limiter and bill generation has its own policy.
func NewRouter(s *Services, auth httpmw.AuthMiddleware, limiterManager *limiter.Manager, logger *zap.Logger) http.Handler {
	logger = logger.Named("Router")
	mux := http.NewServeMux()

	defaultLimit := httpmw.CreateRateLimitMiddleware(limiterManager.Get(limiter.DefaultPolicy), logger)
	generateLimit := httpmw.CreateRateLimitMiddleware(limiterManager.Get(limiter.GenerateBillsPolicy), logger)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, httpmw.Chain(h, auth, defaultLimit, httpmw.Timeout(httpmw.DefaultRequestTimeout)))
	}
	route := func(method, path string) string {
		return method + " " + apiPrefix + path
	}

	// Billing
	b := s.Billing
	handle(route(http.MethodGet, "/billing/all-bills"), b.ListBills)
	handle(route(http.MethodGet, "/billing/readings-status/{month}/{year}"), b.ReadingsStatus)
	handle(route(http.MethodGet, "/billing/pending-readings/{month}/{year}"), b.PendingReadings)
	handle(route(http.MethodPost, "/billing/readings"), b.RecordReading)
	handle(route(http.MethodPatch, "/billing/readings/{id}"), b.UpdateReading)
	mux.Handle(route(http.MethodPost, "/billing/generate/{month}/{year}"),
		httpmw.Chain(http.HandlerFunc(b.GenerateBills), auth, defaultLimit, generateLimit, httpmw.Timeout(generateTimeout)))
	handle(route(http.MethodPatch, "/billing/pay/{billId}"), b.RecordPayment)
	handle(route(http.MethodPatch, "/billing/bill/{billId}"), b.CorrectBill)
	handle(route(http.MethodGet, "/billing/room-history/{roomId}"), b.RoomHistory)
	handle(route(http.MethodGet, "/billing/active-bill/{roomId}"), b.ActiveBill)
	handle(route(http.MethodGet, "/billing/work-logs"), b.WorkLogs)
	handle(route(http.MethodGet, "/billing/monitor"), b.Monitor)

	// Rooms and tenants
	r := s.Rooms
	handle(route(http.MethodGet, "/rooms"), r.ListRooms)
	handle(route(http.MethodPost, "/rooms"), r.CreateRoom)
	handle(route(http.MethodDelete, "/rooms/{id}"), r.DeleteRoom)
	handle(route(http.MethodPost, "/rooms/{id}/tenants"), r.AddTenant)
	handle(route(http.MethodPatch, "/rooms/tenants/{id}"), r.UpdateTenant)
	handle(route(http.MethodPatch, "/rooms/tenants/{id}/devices"), r.SetDeviceCount)
	handle(route(http.MethodDelete, "/rooms/tenants/{id}"), r.DeleteTenant)

	// Settings and calendar
	st := s.Settings
	handle(route(http.MethodGet, "/settings"), st.GetRates)
	handle(route(http.MethodPost, "/settings"), st.SetRates)
	handle(route(http.MethodGet, "/calendar/today"), st.Today)
	handle(route(http.MethodGet, "/calendar/years"), st.YearOptions)

	// Dashboard
	handle(route(http.MethodGet, "/dashboard/stats"), s.Dashboard.Stats)
	handle(route(http.MethodGet, "/dashboard/activity"), s.Dashboard.RecentActivity)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		service.WriteHttpSuccess(w, http.StatusOK, "ok")
	})

	return httpmw.Chain(mux, httpmw.RequestID, httpmw.AccessLog(logger), httpmw.Recover(logger))
}
