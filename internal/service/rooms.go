package service

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"rental_billing/internal/db"
	"rental_billing/internal/dto"
	"rental_billing/internal/models"
)

type roomStore interface {
	CreateRoom(ctx context.Context, d *dto.CreateRoomRequest) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*dto.RoomWithTenants, error)
	DeleteRoom(ctx context.Context, roomID primitive.ObjectID, operator *models.User) error
	AddTenant(ctx context.Context, d *dto.AddTenantRequest) (*models.Tenant, error)
	UpdateTenant(ctx context.Context, d *dto.UpdateTenantRequest) (*models.Tenant, error)
	SetDeviceCount(ctx context.Context, tenantID primitive.ObjectID, count int, operator *models.User) (*models.Tenant, error)
	DeleteTenant(ctx context.Context, tenantID primitive.ObjectID, operator *models.User) error
}

type RoomService struct {
	rooms  roomStore
	tm     db.TransactionManager
	logger *zap.Logger
}

func NewRoomService(rooms roomStore, tm db.TransactionManager, logger *zap.Logger) *RoomService {
	return &RoomService{
		rooms:  rooms,
		tm:     tm,
		logger: logger.Named("RoomService"),
	}
}

func (s *RoomService) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.rooms.ListRooms(r.Context())
	if err != nil {
		writeLogicError(w, s.logger, "ListRooms", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, rooms)
}

type createRoomBody struct {
	Name        string              `json:"name"`
	BaseRent    decimal.Decimal     `json:"baseRent"`
	WaterCharge decimal.NullDecimal `json:"waterCharge"`
	WasteCharge decimal.NullDecimal `json:"wasteCharge"`
}

func (s *RoomService) CreateRoom(w http.ResponseWriter, r *http.Request) {
	operator, err := OperatorFrom(r.Context())
	if err != nil {
		WriteHttpError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var body createRoomBody
	if err := decodeJSON(r, &body); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	baseRent, err := toDecimal128("baseRent", body.BaseRent)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	water, err := optionalDecimal128("waterCharge", body.WaterCharge)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	waste, err := optionalDecimal128("wasteCharge", body.WasteCharge)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	d := dto.NewCreateRoomRequest(body.Name, baseRent, water, waste, operator)
	result, err := s.tm.WithTransaction(r.Context(), func(sessCtx context.Context) (interface{}, error) {
		return s.rooms.CreateRoom(sessCtx, d)
	})
	if err != nil {
		writeLogicError(w, s.logger, "CreateRoom", err)
		return
	}
	WriteHttpSuccess(w, http.StatusCreated, result)
}

// DeleteRoom removes the room with its tenants, readings, bills and payment logs.
func (s *RoomService) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	operator, err := OperatorFrom(r.Context())
	if err != nil {
		WriteHttpError(w, http.StatusUnauthorized, err.Error())
		return
	}
	roomID, err := pathObjectID(r, "id")
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	_, err = s.tm.WithTransaction(r.Context(), func(sessCtx context.Context) (interface{}, error) {
		return nil, s.rooms.DeleteRoom(sessCtx, roomID, operator)
	})
	if err != nil {
		writeLogicError(w, s.logger, "DeleteRoom", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addTenantBody struct {
	Name             string `json:"name"`
	DeviceCount      int    `json:"deviceCount"`
	DueDay           int    `json:"dueDay"`
	IsExistingTenant bool   `json:"isExistingTenant"`
}

func (s *RoomService) AddTenant(w http.ResponseWriter, r *http.Request) {
	operator, err := OperatorFrom(r.Context())
	if err != nil {
		WriteHttpError(w, http.StatusUnauthorized, err.Error())
		return
	}
	roomID, err := pathObjectID(r, "id")
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body addTenantBody
	if err := decodeJSON(r, &body); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	d := dto.NewAddTenantRequest(roomID, body.Name, body.DeviceCount, body.DueDay, body.IsExistingTenant, operator)
	result, err := s.tm.WithTransaction(r.Context(), func(sessCtx context.Context) (interface{}, error) {
		return s.rooms.AddTenant(sessCtx, d)
	})
	if err != nil {
		writeLogicError(w, s.logger, "AddTenant", err)
		return
	}
	WriteHttpSuccess(w, http.StatusCreated, result)
}

type updateTenantBody struct {
	Name        *string `json:"name"`
	DeviceCount *int    `json:"deviceCount"`
	DueDay      *int    `json:"dueDay"`
}

func (s *RoomService) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	operator, err := OperatorFrom(r.Context())
	if err != nil {
		WriteHttpError(w, http.StatusUnauthorized, err.Error())
		return
	}
	tenantID, err := pathObjectID(r, "id")
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body updateTenantBody
	if err := decodeJSON(r, &body); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	d := dto.NewUpdateTenantRequest(tenantID, body.Name, body.DeviceCount, body.DueDay, operator)
	result, err := s.tm.WithTransaction(r.Context(), func(sessCtx context.Context) (interface{}, error) {
		return s.rooms.UpdateTenant(sessCtx, d)
	})
	if err != nil {
		writeLogicError(w, s.logger, "UpdateTenant", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, result)
}

type deviceCountBody struct {
	DeviceCount int `json:"deviceCount"`
}

func (s *RoomService) SetDeviceCount(w http.ResponseWriter, r *http.Request) {
	operator, err := OperatorFrom(r.Context())
	if err != nil {
		WriteHttpError(w, http.StatusUnauthorized, err.Error())
		return
	}
	tenantID, err := pathObjectID(r, "id")
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body deviceCountBody
	if err := decodeJSON(r, &body); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.tm.WithTransaction(r.Context(), func(sessCtx context.Context) (interface{}, error) {
		return s.rooms.SetDeviceCount(sessCtx, tenantID, body.DeviceCount, operator)
	})
	if err != nil {
		writeLogicError(w, s.logger, "SetDeviceCount", err)
		return
	}
	WriteHttpSuccess(w, http.StatusOK, result)
}

func (s *RoomService) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	operator, err := OperatorFrom(r.Context())
	if err != nil {
		WriteHttpError(w, http.StatusUnauthorized, err.Error())
		return
	}
	tenantID, err := pathObjectID(r, "id")
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	_, err = s.tm.WithTransaction(r.Context(), func(sessCtx context.Context) (interface{}, error) {
		return nil, s.rooms.DeleteTenant(sessCtx, tenantID, operator)
	})
	if err != nil {
		writeLogicError(w, s.logger, "DeleteTenant", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
