package fields

const (
	FieldObjectId  = "_id"
	FieldCreatedAt = "created_at"
	FieldCreatedBy = "created_by"
	FieldUpdatedAt = "updated_at"
	FieldUpdatedBy = "updated_by"
	FieldStatus    = "status"

	FieldRoomID = "room_id"
	FieldBillID = "bill_id"
	FieldMonth  = "month"
	FieldYear   = "year"

	FieldRoomName              = "name"
	FieldRoomBaseRent          = "base_rent"
	FieldRoomWaterCharge       = "water_charge"
	FieldRoomWasteCharge       = "waste_charge"
	FieldRoomPendingOnboarding = "pending_onboarding"

	FieldTenantName        = "name"
	FieldTenantDeviceCount = "device_count"
	FieldTenantDueDay      = "due_day"

	FieldReadingUnits = "units"

	FieldBillRentAmount        = "rent_amount"
	FieldBillElectricityAmount = "electricity_amount"
	FieldBillWaterAmount       = "water_amount"
	FieldBillWasteAmount       = "waste_amount"
	FieldBillInternetAmount    = "internet_amount"
	FieldBillServiceCharge     = "service_charge"
	FieldBillArrears           = "arrears"
	FieldBillTotalAmount       = "total_amount"
	FieldBillPaidAmount        = "paid_amount"
	FieldBillIsPaid            = "is_paid"

	FieldPaymentLogAmount      = "amount"
	FieldPaymentLogPaymentType = "payment_type"
)

// BillComponents are the amounts whose sum is a bill's total_amount.
var BillComponents = []string{
	FieldBillRentAmount,
	FieldBillElectricityAmount,
	FieldBillWaterAmount,
	FieldBillWasteAmount,
	FieldBillInternetAmount,
	FieldBillServiceCharge,
	FieldBillArrears,
}
