package dto

import (
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

// ReadingStatus is one room's reading state for a period.
type ReadingStatus struct {
	Room            *models.Room    `json:"room"`
	Reading         *models.Reading `json:"reading"`
	PreviousReading *models.Reading `json:"previousReading"`
}

// OverdueRoom is a room whose bill generation has lapsed.
type OverdueRoom struct {
	Room         *models.Room  `json:"room"`
	LastBilled   bsdate.Period `json:"lastBilled"`
	MonthsBehind int           `json:"monthsBehind"`
}

type MonitorReport struct {
	Today  bsdate.Date   `json:"today"`
	Period bsdate.Period `json:"period"`
	// PendingGateOpen is true once today's BS day is past the threshold day.
	PendingGateOpen bool           `json:"pendingGateOpen"`
	Pending         []*models.Room `json:"pending"`
	Overdue         []OverdueRoom  `json:"overdue"`
}
