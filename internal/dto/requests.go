package dto

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_billing/internal/constants"
	"rental_billing/internal/models"
	"rental_billing/pkg/bsdate"
)

// --- Readings ---

type RecordReadingRequest struct {
	roomID   primitive.ObjectID
	period   bsdate.Period
	units    primitive.Decimal128
	operator *models.User
}

func NewRecordReadingRequest(roomID primitive.ObjectID, period bsdate.Period, units primitive.Decimal128, operator *models.User) *RecordReadingRequest {
	return &RecordReadingRequest{roomID: roomID, period: period, units: units, operator: operator}
}

func (r *RecordReadingRequest) GetRoomID() primitive.ObjectID  { return r.roomID }
func (r *RecordReadingRequest) GetPeriod() bsdate.Period       { return r.period }
func (r *RecordReadingRequest) GetUnits() primitive.Decimal128 { return r.units }
func (r *RecordReadingRequest) GetOperator() *models.User      { return r.operator }

type UpdateReadingRequest struct {
	readingID primitive.ObjectID
	units     primitive.Decimal128
	operator  *models.User
}

func NewUpdateReadingRequest(readingID primitive.ObjectID, units primitive.Decimal128, operator *models.User) *UpdateReadingRequest {
	return &UpdateReadingRequest{readingID: readingID, units: units, operator: operator}
}

func (r *UpdateReadingRequest) GetReadingID() primitive.ObjectID { return r.readingID }
func (r *UpdateReadingRequest) GetUnits() primitive.Decimal128   { return r.units }
func (r *UpdateReadingRequest) GetOperator() *models.User        { return r.operator }

// --- Bills ---

type GenerateBillsRequest struct {
	period   bsdate.Period
	operator *models.User
}

func NewGenerateBillsRequest(period bsdate.Period, operator *models.User) *GenerateBillsRequest {
	return &GenerateBillsRequest{period: period, operator: operator}
}

func (r *GenerateBillsRequest) GetPeriod() bsdate.Period  { return r.period }
func (r *GenerateBillsRequest) GetOperator() *models.User { return r.operator }

type RecordPaymentRequest struct {
	billID      primitive.ObjectID
	amount      primitive.Decimal128
	paymentType constants.PaymentType
	remarks     string
	operator    *models.User
}

func NewRecordPaymentRequest(billID primitive.ObjectID, amount primitive.Decimal128, paymentType constants.PaymentType, remarks string, operator *models.User) *RecordPaymentRequest {
	return &RecordPaymentRequest{
		billID:      billID,
		amount:      amount,
		paymentType: paymentType,
		remarks:     remarks,
		operator:    operator,
	}
}

func (r *RecordPaymentRequest) GetBillID() primitive.ObjectID         { return r.billID }
func (r *RecordPaymentRequest) GetAmount() primitive.Decimal128       { return r.amount }
func (r *RecordPaymentRequest) GetPaymentType() constants.PaymentType { return r.paymentType }
func (r *RecordPaymentRequest) GetRemarks() string                    { return r.remarks }
func (r *RecordPaymentRequest) GetOperator() *models.User             { return r.operator }

// BillComponents carries the amounts a correction replaces. Nil fields are
// left as they are.
type BillComponents struct {
	RentAmount        *primitive.Decimal128
	ElectricityAmount *primitive.Decimal128
	WaterAmount       *primitive.Decimal128
	WasteAmount       *primitive.Decimal128
	InternetAmount    *primitive.Decimal128
	ServiceCharge     *primitive.Decimal128
	Arrears           *primitive.Decimal128
}

type CorrectBillRequest struct {
	billID     primitive.ObjectID
	components BillComponents
	operator   *models.User
}

func NewCorrectBillRequest(billID primitive.ObjectID, components BillComponents, operator *models.User) *CorrectBillRequest {
	return &CorrectBillRequest{billID: billID, components: components, operator: operator}
}

func (r *CorrectBillRequest) GetBillID() primitive.ObjectID { return r.billID }
func (r *CorrectBillRequest) GetComponents() BillComponents { return r.components }
func (r *CorrectBillRequest) GetOperator() *models.User     { return r.operator }

// --- Rates ---

type SetRatesRequest struct {
	internetPerDevice        primitive.Decimal128
	electricityPerUnit       primitive.Decimal128
	electricityServiceCharge primitive.Decimal128
	operator                 *models.User
}

func NewSetRatesRequest(internetPerDevice, electricityPerUnit, electricityServiceCharge primitive.Decimal128, operator *models.User) *SetRatesRequest {
	return &SetRatesRequest{
		internetPerDevice:        internetPerDevice,
		electricityPerUnit:       electricityPerUnit,
		electricityServiceCharge: electricityServiceCharge,
		operator:                 operator,
	}
}

func (r *SetRatesRequest) GetInternetPerDevice() primitive.Decimal128  { return r.internetPerDevice }
func (r *SetRatesRequest) GetElectricityPerUnit() primitive.Decimal128 { return r.electricityPerUnit }
func (r *SetRatesRequest) GetElectricityServiceCharge() primitive.Decimal128 {
	return r.electricityServiceCharge
}
func (r *SetRatesRequest) GetOperator() *models.User { return r.operator }

// --- Rooms and tenants ---

type CreateRoomRequest struct {
	name        string
	baseRent    primitive.Decimal128
	waterCharge *primitive.Decimal128
	wasteCharge *primitive.Decimal128
	operator    *models.User
}

func NewCreateRoomRequest(name string, baseRent primitive.Decimal128, waterCharge, wasteCharge *primitive.Decimal128, operator *models.User) *CreateRoomRequest {
	return &CreateRoomRequest{
		name:        name,
		baseRent:    baseRent,
		waterCharge: waterCharge,
		wasteCharge: wasteCharge,
		operator:    operator,
	}
}

func (r *CreateRoomRequest) GetName() string                       { return r.name }
func (r *CreateRoomRequest) GetBaseRent() primitive.Decimal128     { return r.baseRent }
func (r *CreateRoomRequest) GetWaterCharge() *primitive.Decimal128 { return r.waterCharge }
func (r *CreateRoomRequest) GetWasteCharge() *primitive.Decimal128 { return r.wasteCharge }
func (r *CreateRoomRequest) GetOperator() *models.User             { return r.operator }

type AddTenantRequest struct {
	roomID           primitive.ObjectID
	name             string
	deviceCount      int
	dueDay           int
	isExistingTenant bool
	operator         *models.User
}

func NewAddTenantRequest(roomID primitive.ObjectID, name string, deviceCount, dueDay int, isExistingTenant bool, operator *models.User) *AddTenantRequest {
	return &AddTenantRequest{
		roomID:           roomID,
		name:             name,
		deviceCount:      deviceCount,
		dueDay:           dueDay,
		isExistingTenant: isExistingTenant,
		operator:         operator,
	}
}

func (r *AddTenantRequest) GetRoomID() primitive.ObjectID { return r.roomID }
func (r *AddTenantRequest) GetName() string               { return r.name }
func (r *AddTenantRequest) GetDeviceCount() int           { return r.deviceCount }
func (r *AddTenantRequest) GetDueDay() int                { return r.dueDay }
func (r *AddTenantRequest) IsExistingTenant() bool        { return r.isExistingTenant }
func (r *AddTenantRequest) GetOperator() *models.User     { return r.operator }

// UpdateTenantRequest changes only the non-nil fields.
type UpdateTenantRequest struct {
	tenantID    primitive.ObjectID
	name        *string
	deviceCount *int
	dueDay      *int
	operator    *models.User
}

func NewUpdateTenantRequest(tenantID primitive.ObjectID, name *string, deviceCount, dueDay *int, operator *models.User) *UpdateTenantRequest {
	return &UpdateTenantRequest{
		tenantID:    tenantID,
		name:        name,
		deviceCount: deviceCount,
		dueDay:      dueDay,
		operator:    operator,
	}
}

func (r *UpdateTenantRequest) GetTenantID() primitive.ObjectID { return r.tenantID }
func (r *UpdateTenantRequest) GetName() *string                { return r.name }
func (r *UpdateTenantRequest) GetDeviceCount() *int            { return r.deviceCount }
func (r *UpdateTenantRequest) GetDueDay() *int                 { return r.dueDay }
func (r *UpdateTenantRequest) GetOperator() *models.User       { return r.operator }
