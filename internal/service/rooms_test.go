package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"rental_billing/internal/db"
	"rental_billing/internal/dto"
	"rental_billing/internal/logic"
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) CreateRoom(ctx context.Context, d *dto.CreateRoomRequest) (*models.Room, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomStore) ListRooms(ctx context.Context) ([]*dto.RoomWithTenants, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dto.RoomWithTenants), args.Error(1)
}

func (m *MockRoomStore) DeleteRoom(ctx context.Context, roomID primitive.ObjectID, operator *models.User) error {
	return m.Called(ctx, roomID, operator).Error(0)
}

func (m *MockRoomStore) AddTenant(ctx context.Context, d *dto.AddTenantRequest) (*models.Tenant, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockRoomStore) UpdateTenant(ctx context.Context, d *dto.UpdateTenantRequest) (*models.Tenant, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockRoomStore) SetDeviceCount(ctx context.Context, tenantID primitive.ObjectID, count int, operator *models.User) (*models.Tenant, error) {
	args := m.Called(ctx, tenantID, count, operator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockRoomStore) DeleteTenant(ctx context.Context, tenantID primitive.ObjectID, operator *models.User) error {
	return m.Called(ctx, tenantID, operator).Error(0)
}

func newRoomService(store *MockRoomStore) *RoomService {
	return NewRoomService(store, db.NewNoOpTransactionManager(), zap.NewNop())
}

func TestCreateRoom(t *testing.T) {
	store := new(MockRoomStore)
	store.On("CreateRoom", mock.Anything, mock.MatchedBy(func(d *dto.CreateRoomRequest) bool {
		return d.GetName() == "Room 1" && d.GetBaseRent().String() == "5000" &&
			d.GetWaterCharge() != nil && d.GetWaterCharge().String() == "150" && d.GetWasteCharge() == nil
	})).Return(&models.Room{Name: "Room 1"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms", strings.NewReader(`{"name":"Room 1","baseRent":5000,"waterCharge":"150"}`))
	rec := serve("POST /api/v1/rooms", newRoomService(store).CreateRoom, req, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	store.AssertExpectations(t)
}

func TestDeleteRoom(t *testing.T) {
	roomID := primitive.NewObjectID()

	t.Run("deleted", func(t *testing.T) {
		store := new(MockRoomStore)
		store.On("DeleteRoom", mock.Anything, roomID, testOperator).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/rooms/"+roomID.Hex(), nil)
		rec := serve("DELETE /api/v1/rooms/{id}", newRoomService(store).DeleteRoom, req, true)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		store.AssertExpectations(t)
	})

	t.Run("unknown room", func(t *testing.T) {
		store := new(MockRoomStore)
		store.On("DeleteRoom", mock.Anything, roomID, testOperator).
			Return(&logic.Error{Kind: logic.KindNotFound, Err: logic.ErrRoomNotFound})

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/rooms/"+roomID.Hex(), nil)
		rec := serve("DELETE /api/v1/rooms/{id}", newRoomService(store).DeleteRoom, req, true)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		store := new(MockRoomStore)
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/rooms/xyz", nil)
		rec := serve("DELETE /api/v1/rooms/{id}", newRoomService(store).DeleteRoom, req, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		store.AssertNotCalled(t, "DeleteRoom", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateTenant_PartialBody(t *testing.T) {
	tenantID := primitive.NewObjectID()
	store := new(MockRoomStore)
	store.On("UpdateTenant", mock.Anything, mock.MatchedBy(func(d *dto.UpdateTenantRequest) bool {
		return d.GetName() == nil && d.GetDeviceCount() == nil && d.GetDueDay() != nil && *d.GetDueDay() == 32
	})).Return(&models.Tenant{}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/rooms/tenants/"+tenantID.Hex(), strings.NewReader(`{"dueDay":32}`))
	rec := serve("PATCH /api/v1/rooms/tenants/{id}", newRoomService(store).UpdateTenant, req, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	store.AssertExpectations(t)
}

type fixedCalendar struct {
	today bsdate.Date
}

func (c fixedCalendar) Today() (bsdate.Date, error) { return c.today, nil }

func (c fixedCalendar) YearOptions() ([]int, error) { return bsdate.YearOptions(c.today.Year), nil }

func TestSettings_Today(t *testing.T) {
	svc := NewSettingsService(nil, fixedCalendar{today: bsdate.Date{Year: 2081, Month: 9, Day: 15}}, db.NewNoOpTransactionManager(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/today", nil)
	rec := serve("GET /api/v1/calendar/today", svc.Today, req, false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), "15 Poush 2081")
}
