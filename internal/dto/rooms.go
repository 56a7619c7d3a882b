package dto

import (
	"github.com/shopspring/decimal"

	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

type TenantWithDue struct {
	*models.Tenant
	NextDue      bsdate.Date `json:"nextDue"`
	NextDueLabel string      `json:"nextDueLabel"`
}

type RoomWithTenants struct {
	*models.Room
	Tenants []*TenantWithDue `json:"tenants"`
}

type DashboardStats struct {
	Period            bsdate.Period   `json:"period"`
	TotalRooms        int64           `json:"totalRooms"`
	TotalTenants      int64           `json:"totalTenants"`
	Revenue           decimal.Decimal `json:"revenue"`
	TotalArrears      decimal.Decimal `json:"totalArrears"`
	OverdueAutomation int             `json:"overdueAutomation"`
	PendingBills      int64           `json:"pendingBills"`
	PendingReadings   int             `json:"pendingReadings"`
}
