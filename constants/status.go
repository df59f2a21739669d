package constants

// Room status
const (
	RoomStatusVacant           = "VACANT"
	RoomStatusOccupied         = "OCCUPIED"
	RoomStatusReserved         = "RESERVED"
	RoomStatusUnderMaintenance = "UNDER_MAINTENANCE"
)

// Booking status
const (
	BookingStatusConfirmed  = "CONFIRMED"
	BookingStatusCheckedIn  = "CHECKED_IN"
	BookingStatusCheckedOut = "CHECKED_OUT"
	BookingStatusCancelled  = "CANCELLED"
)

// Booking source
const (
	BookingSourceWalkIn = "WALK_IN"
	BookingSourceOnline = "ONLINE"
)

// Payment mode
const (
	PaymentModeCash         = "CASH"
	PaymentModeMpesa        = "MPESA"
	PaymentModeAirtelMoney  = "AIRTEL_MONEY"
	PaymentModeTigoPesa     = "TIGO_PESA"
	PaymentModeBankTransfer = "BANK_TRANSFER"
	PaymentModeCard         = "CARD"
)

// Revenue sector
const (
	SectorRooms        = "rooms"
	SectorRestaurant   = "restaurant"
	SectorBar          = "bar"
	SectorHousekeeping = "housekeeping"
	SectorActivities   = "activities"
	SectorOther        = "other"
)

// Folio charge kind
const (
	ChargeKindRoom      = "ROOM"
	ChargeKindExtension = "EXTENSION"
	ChargeKindOther     = "OTHER"
)

// Staff role
const (
	RoleOwner        = "OWNER"
	RoleManager      = "MANAGER"
	RoleReceptionist = "RECEPTIONIST"
	RoleAccountant   = "ACCOUNTANT"
	RoleHousekeeper  = "HOUSEKEEPER"
)

// Audit action
const (
	AuditBookingCreated        = "booking_created"
	AuditBookingCheckedIn      = "booking_checked_in"
	AuditBookingCheckedOut     = "booking_checked_out"
	AuditBookingCancelled      = "booking_cancelled"
	AuditBookingRoomChanged    = "booking_room_changed"
	AuditBookingStayExtended   = "booking_stay_extended"
	AuditBookingStatusOverride = "booking_status_overridden"
	AuditPaymentAdded          = "payment_added"
	AuditChargeAdded           = "charge_added"
	AuditRoomStatusUpdated     = "room_status_updated"
	AuditTaxConfigUpdated      = "tax_config_updated"
)

var PaymentModes = []string{
	PaymentModeCash,
	PaymentModeMpesa,
	PaymentModeAirtelMoney,
	PaymentModeTigoPesa,
	PaymentModeBankTransfer,
	PaymentModeCard,
}

var Sectors = []string{
	SectorRooms,
	SectorRestaurant,
	SectorBar,
	SectorHousekeeping,
	SectorActivities,
	SectorOther,
}

// IsActiveBooking reports whether a booking in this status holds its room.
func IsActiveBooking(status string) bool {
	return status == BookingStatusConfirmed || status == BookingStatusCheckedIn
}
