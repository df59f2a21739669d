package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"frontoffice/constants"
	"frontoffice/dto"
	apperrors "frontoffice/errors"
	"frontoffice/models"
)

func TestCreateBookingReservesRoomAndPostsRoomCharge(t *testing.T) {
	e := newEngine(t)
	room := e.seedRoom(t, receptionist, "101", "50000")

	booking := e.book(t, receptionist, room.ID)

	if booking.Status != constants.BookingStatusConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", booking.Status)
	}
	if booking.Nights != 2 {
		t.Fatalf("nights = %d, want 2", booking.Nights)
	}
	if !booking.RoomAmount.Equal(dec("100000")) || !booking.TotalAmount.Equal(dec("100000")) {
		t.Fatalf("amounts = %s/%s, want 100000", booking.RoomAmount, booking.TotalAmount)
	}
	if !strings.HasPrefix(booking.FolioNumber, "FOL-") {
		t.Fatalf("folio number %q has no FOL- prefix", booking.FolioNumber)
	}
	if got := e.roomStatus(t, room.ID); got != constants.RoomStatusReserved {
		t.Fatalf("room status = %s, want RESERVED", got)
	}

	var charges []models.FolioCharge
	if err := e.db.Where("booking_id = ?", booking.ID).Find(&charges).Error; err != nil {
		t.Fatalf("load charges: %v", err)
	}
	if len(charges) != 1 || charges[0].Kind != constants.ChargeKindRoom || charges[0].Sector != constants.SectorRooms {
		t.Fatalf("charges = %+v, want one ROOM charge", charges)
	}
	if !e.sink.has(constants.AuditBookingCreated) {
		t.Fatalf("audit actions = %v, want %s", e.sink.actions(), constants.AuditBookingCreated)
	}
}

func TestBookingLifecycleScenario(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	room := e.seedRoom(t, receptionist, "101", "50000")
	booking := e.book(t, receptionist, room.ID)

	if _, err := e.bookings.CheckIn(ctx, receptionist, booking.ID); err != nil {
		t.Fatalf("check in: %v", err)
	}
	if got := e.roomStatus(t, room.ID); got != constants.RoomStatusOccupied {
		t.Fatalf("room status = %s, want OCCUPIED", got)
	}

	_, err := e.bookings.CreateBooking(ctx, receptionist, bookingRequest(room.ID))
	assertCode(t, err, apperrors.ErrRoomNotAvailable)

	cash := func(amount string) dto.PaymentRequest {
		return dto.PaymentRequest{Amount: dec(amount), Mode: constants.PaymentModeCash}
	}
	if _, err := e.folio.AddPayment(ctx, receptionist, booking.ID, cash("40000")); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	_, err = e.folio.AddPayment(ctx, receptionist, booking.ID, cash("70000"))
	assertCode(t, err, apperrors.ErrOverpayment)
	payment, err := e.folio.AddPayment(ctx, receptionist, booking.ID, cash("60000"))
	if err != nil {
		t.Fatalf("settling payment: %v", err)
	}
	if !strings.HasPrefix(payment.ReceiptNumber, "RCP-") {
		t.Fatalf("receipt number %q has no RCP- prefix", payment.ReceiptNumber)
	}

	summary, err := e.bookings.CheckOut(ctx, receptionist, booking.ID)
	if err != nil {
		t.Fatalf("check out: %v", err)
	}
	if !summary.Balance.IsZero() {
		t.Fatalf("balance = %s, want 0", summary.Balance)
	}
	if got := e.roomStatus(t, room.ID); got != constants.RoomStatusVacant {
		t.Fatalf("room status = %s, want VACANT", got)
	}

	_, err = e.bookings.CheckOut(ctx, receptionist, booking.ID)
	assertCode(t, err, apperrors.ErrInvalidTransition)
	_, err = e.bookings.Cancel(ctx, receptionist, booking.ID)
	assertCode(t, err, apperrors.ErrInvalidTransition)

	if got := e.reload(t, booking.ID).Status; got != constants.BookingStatusCheckedOut {
		t.Fatalf("status after rejected ops = %s, want CHECKED_OUT", got)
	}
}

func TestCancelReleasesRoomOnlyBeforeCheckIn(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	room := e.seedRoom(t, receptionist, "102", "30000")

	first := e.book(t, receptionist, room.ID)
	cancelled, err := e.bookings.Cancel(ctx, receptionist, first.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != constants.BookingStatusCancelled || cancelled.CancelledAt == nil {
		t.Fatalf("cancelled booking = %+v", cancelled)
	}
	if got := e.roomStatus(t, room.ID); got != constants.RoomStatusVacant {
		t.Fatalf("room status = %s, want VACANT", got)
	}
	if !e.reload(t, first.ID).TotalAmount.Equal(dec("60000")) {
		t.Fatalf("amounts of a cancelled booking must stay frozen")
	}

	second := e.book(t, receptionist, room.ID)
	if _, err := e.bookings.CheckIn(ctx, receptionist, second.ID); err != nil {
		t.Fatalf("check in: %v", err)
	}
	_, err = e.bookings.Cancel(ctx, receptionist, second.ID)
	assertCode(t, err, apperrors.ErrInvalidTransition)
	if got := e.roomStatus(t, room.ID); got != constants.RoomStatusOccupied {
		t.Fatalf("room status = %s, want OCCUPIED", got)
	}
}

func TestConcurrentCreateBookingClaimsRoomOnce(t *testing.T) {
	e := newEngine(t)
	room := e.seedRoom(t, receptionist, "201", "45000")

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		other     []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.bookings.CreateBooking(context.Background(), receptionist, bookingRequest(room.ID))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperrors.ErrRoomNotAvailable):
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	if len(other) > 0 {
		t.Fatalf("unexpected errors: %v", other)
	}
	if succeeded != 1 {
		t.Fatalf("succeeded = %d, want exactly 1", succeeded)
	}
	var active int64
	e.db.Model(&models.Booking{}).Where("room_id = ? AND status IN ?", room.ID,
		[]string{constants.BookingStatusConfirmed, constants.BookingStatusCheckedIn}).Count(&active)
	if active != 1 {
		t.Fatalf("active bookings = %d, want 1", active)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	room := e.seedRoom(t, receptionist, "301", "50000")

	tests := []struct {
		name string
		edit func(r *dto.CreateBookingRequest)
	}{
		{"checkout before checkin", func(r *dto.CreateBookingRequest) { r.CheckOut = "2023-12-31" }},
		{"same day", func(r *dto.CreateBookingRequest) { r.CheckOut = r.CheckIn }},
		{"bad date", func(r *dto.CreateBookingRequest) { r.CheckIn = "01/01/2024" }},
		{"missing guest", func(r *dto.CreateBookingRequest) { r.GuestName = "" }},
		{"bad phone", func(r *dto.CreateBookingRequest) { r.GuestPhone = "call me" }},
		{"unknown payment mode", func(r *dto.CreateBookingRequest) { r.PaymentMode = "BITCOIN" }},
		{"unknown source", func(r *dto.CreateBookingRequest) { r.Source = "FAX" }},
		{"negative total", func(r *dto.CreateBookingRequest) { v := dec("-1"); r.TotalAmount = &v }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := bookingRequest(room.ID)
			tt.edit(&req)
			_, err := e.bookings.CreateBooking(ctx, receptionist, req)
			assertCode(t, err, apperrors.ErrValidation)
		})
	}

	if got := e.roomStatus(t, room.ID); got != constants.RoomStatusVacant {
		t.Fatalf("room status = %s after rejected bookings, want VACANT", got)
	}
}

func TestCreateBookingRecomputesNightsFromDates(t *testing.T) {
	e := newEngine(t)
	room := e.seedRoom(t, receptionist, "302", "50000")

	req := bookingRequest(room.ID)
	req.Nights = 5
	booking, err := e.bookings.CreateBooking(context.Background(), receptionist, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if booking.Nights != 2 || !booking.RoomAmount.Equal(dec("100000")) {
		t.Fatalf("nights/amount = %d/%s, want 2/100000", booking.Nights, booking.RoomAmount)
	}
}

func TestCreateBookingTotalAmountOverride(t *testing.T) {
	e := newEngine(t)
	room := e.seedRoom(t, receptionist, "303", "50000")

	req := bookingRequest(room.ID)
	total := dec("80000")
	req.TotalAmount = &total
	booking, err := e.bookings.CreateBooking(context.Background(), receptionist, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !booking.RoomAmount.Equal(total) || !booking.TotalAmount.Equal(total) {
		t.Fatalf("amounts = %s/%s, want 80000", booking.RoomAmount, booking.TotalAmount)
	}
	if !booking.RatePerNight.Equal(dec("50000")) {
		t.Fatalf("rate = %s, want category rate 50000", booking.RatePerNight)
	}
}

func TestCreateBookingWalkInWithInitialPayment(t *testing.T) {
	e := newEngine(t)
	room := e.seedRoom(t, receptionist, "304", "50000")

	req := bookingRequest(room.ID)
	req.CheckInImmediately = true
	req.InitialPayment = &dto.PaymentRequest{Amount: dec("25000"), Mode: constants.PaymentModeMpesa, Reference: "QK12XY"}
	booking, err := e.bookings.CreateBooking(context.Background(), receptionist, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if booking.Status != constants.BookingStatusCheckedIn || booking.CheckedInAt == nil {
		t.Fatalf("booking = %+v, want CHECKED_IN with timestamp", booking)
	}
	if got := e.roomStatus(t, room.ID); got != constants.RoomStatusOccupied {
		t.Fatalf("room status = %s, want OCCUPIED", got)
	}

	folio, err := e.folio.GetFolio(context.Background(), receptionist, booking.ID)
	if err != nil {
		t.Fatalf("folio: %v", err)
	}
	if !folio.TotalPayments.Equal(dec("25000")) || !folio.Balance.Equal(dec("75000")) {
		t.Fatalf("payments/balance = %s/%s, want 25000/75000", folio.TotalPayments, folio.Balance)
	}
	for _, action := range []string{constants.AuditBookingCreated, constants.AuditBookingCheckedIn, constants.AuditPaymentAdded} {
		if !e.sink.has(action) {
			t.Fatalf("audit actions = %v, missing %s", e.sink.actions(), action)
		}
	}
}

func TestCreateBookingRollsBackOnOverpayingInitialPayment(t *testing.T) {
	e := newEngine(t)
	room := e.seedRoom(t, receptionist, "305", "50000")

	req := bookingRequest(room.ID)
	req.InitialPayment = &dto.PaymentRequest{Amount: dec("100000.01"), Mode: constants.PaymentModeCash}
	_, err := e.bookings.CreateBooking(context.Background(), receptionist, req)
	assertCode(t, err, apperrors.ErrOverpayment)

	var count int64
	e.db.Model(&models.Booking{}).Count(&count)
	if count != 0 {
		t.Fatalf("bookings = %d, want rollback to 0", count)
	}
	if got := e.roomStatus(t, room.ID); got != constants.RoomStatusVacant {
		t.Fatalf("room status = %s, want VACANT after rollback", got)
	}
}

func TestCreateBookingRejectsMaintenanceRoomAndOtherTenant(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	room := e.seedRoom(t, receptionist, "306", "50000")

	if _, err := e.rooms.UpdateRoomStatus(ctx, manager, room.ID, constants.RoomStatusUnderMaintenance); err != nil {
		t.Fatalf("maintenance: %v", err)
	}
	_, err := e.bookings.CreateBooking(ctx, receptionist, bookingRequest(room.ID))
	assertCode(t, err, apperrors.ErrRoomNotAvailable)

	_, err = e.bookings.CreateBooking(ctx, otherTenant, bookingRequest(room.ID))
	assertCode(t, err, apperrors.ErrNotFound)
}

func TestCheckInRequiresConfirmedBooking(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	room := e.seedRoom(t, receptionist, "307", "50000")
	booking := e.book(t, receptionist, room.ID)

	if _, err := e.bookings.CheckIn(ctx, receptionist, booking.ID); err != nil {
		t.Fatalf("check in: %v", err)
	}
	_, err := e.bookings.CheckIn(ctx, receptionist, booking.ID)
	assertCode(t, err, apperrors.ErrInvalidTransition)

	_, err = e.bookings.CheckIn(ctx, otherTenant, booking.ID)
	assertCode(t, err, apperrors.ErrNotFound)
}

func TestCheckOutReportsOutstandingBalance(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	room := e.seedRoom(t, receptionist, "308", "50000")
	booking := e.book(t, receptionist, room.ID)

	_, err := e.bookings.CheckOut(ctx, receptionist, booking.ID)
	assertCode(t, err, apperrors.ErrInvalidTransition)

	if _, err := e.bookings.CheckIn(ctx, receptionist, booking.ID); err != nil {
		t.Fatalf("check in: %v", err)
	}
	summary, err := e.bookings.CheckOut(ctx, receptionist, booking.ID)
	if err != nil {
		t.Fatalf("check out: %v", err)
	}
	if !summary.Balance.Equal(dec("100000")) || summary.Status != constants.BookingStatusCheckedOut {
		t.Fatalf("summary = %+v, want balance 100000", summary)
	}
}

func TestChangeRoomKeepsRoomStatusCoherent(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	from := e.seedRoom(t, receptionist, "401", "50000")
	to := e.seedRoom(t, receptionist, "402", "70000")
	busy := e.seedRoom(t, receptionist, "403", "50000")
	e.book(t, receptionist, busy.ID)

	booking := e.book(t, receptionist, from.ID)
	moved, err := e.bookings.ChangeRoom(ctx, receptionist, booking.ID, to.ID)
	if err != nil {
		t.Fatalf("change room: %v", err)
	}
	if moved.RoomID != to.ID {
		t.Fatalf("room id = %d, want %d", moved.RoomID, to.ID)
	}
	if got := e.roomStatus(t, from.ID); got != constants.RoomStatusVacant {
		t.Fatalf("old room = %s, want VACANT", got)
	}
	if got := e.roomStatus(t, to.ID); got != constants.RoomStatusReserved {
		t.Fatalf("new room = %s, want RESERVED", got)
	}
	if !e.reload(t, booking.ID).TotalAmount.Equal(dec("100000")) {
		t.Fatalf("a room change must not reprice the stay")
	}

	if _, err := e.bookings.CheckIn(ctx, receptionist, booking.ID); err != nil {
		t.Fatalf("check in: %v", err)
	}
	if _, err := e.bookings.ChangeRoom(ctx, receptionist, booking.ID, from.ID); err != nil {
		t.Fatalf("change room back: %v", err)
	}
	if got := e.roomStatus(t, from.ID); got != constants.RoomStatusOccupied {
		t.Fatalf("room after move of checked-in guest = %s, want OCCUPIED", got)
	}
	if got := e.roomStatus(t, to.ID); got != constants.RoomStatusVacant {
		t.Fatalf("vacated room = %s, want VACANT", got)
	}

	_, err = e.bookings.ChangeRoom(ctx, receptionist, booking.ID, busy.ID)
	assertCode(t, err, apperrors.ErrRoomNotAvailable)
	_, err = e.bookings.ChangeRoom(ctx, receptionist, booking.ID, from.ID)
	assertCode(t, err, apperrors.ErrValidation)

	foreign := e.seedRoom(t, otherTenant, "401", "50000")
	_, err = e.bookings.ChangeRoom(ctx, receptionist, booking.ID, foreign.ID)
	assertCode(t, err, apperrors.ErrNotFound)
}

func TestExtendStayChargesExtraNights(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	room := e.seedRoom(t, receptionist, "501", "50000")
	booking := e.book(t, receptionist, room.ID)

	extended, err := e.bookings.ExtendStay(ctx, receptionist, booking.ID, "2024-01-04")
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if extended.Nights != 3 {
		t.Fatalf("nights = %d, want 3", extended.Nights)
	}
	if !extended.TotalAmount.Equal(dec("150000")) || !extended.RoomAmount.Equal(dec("150000")) {
		t.Fatalf("amounts = %s/%s, want 150000", extended.RoomAmount, extended.TotalAmount)
	}

	_, err = e.bookings.ExtendStay(ctx, receptionist, booking.ID, "2024-01-02")
	assertCode(t, err, apperrors.ErrValidation)

	var extensions int64
	e.db.Model(&models.FolioCharge{}).Where("booking_id = ? AND kind = ?", booking.ID, constants.ChargeKindExtension).Count(&extensions)
	if extensions != 1 {
		t.Fatalf("extension charges = %d, want 1", extensions)
	}
}

func TestOverrideStatusIsManagerOnlyAndLeavesRoom(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	room := e.seedRoom(t, receptionist, "601", "50000")
	booking := e.book(t, receptionist, room.ID)

	_, err := e.bookings.OverrideStatus(ctx, receptionist, booking.ID, constants.BookingStatusCancelled, "duplicate")
	assertCode(t, err, apperrors.ErrForbidden)
	_, err = e.bookings.OverrideStatus(ctx, manager, booking.ID, constants.BookingStatusCancelled, "")
	assertCode(t, err, apperrors.ErrValidation)
	_, err = e.bookings.OverrideStatus(ctx, manager, booking.ID, "LOST", "typo")
	assertCode(t, err, apperrors.ErrValidation)

	overridden, err := e.bookings.OverrideStatus(ctx, manager, booking.ID, constants.BookingStatusCancelled, "duplicate entry")
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	if overridden.Status != constants.BookingStatusCancelled {
		t.Fatalf("status = %s, want CANCELLED", overridden.Status)
	}
	if got := e.roomStatus(t, room.ID); got != constants.RoomStatusReserved {
		t.Fatalf("room status = %s, override must not touch the room", got)
	}
	if !e.sink.has(constants.AuditBookingStatusOverride) {
		t.Fatalf("audit actions = %v, want override event", e.sink.actions())
	}
}

func TestListBookingsFiltersAndPaginates(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	for _, number := range []string{"701", "702", "703"} {
		room := e.seedRoom(t, receptionist, number, "10000")
		e.book(t, receptionist, room.ID)
	}
	foreign := e.seedRoom(t, otherTenant, "701", "10000")
	e.book(t, otherTenant, foreign.ID)

	bookings, total, err := e.bookings.ListBookings(ctx, receptionist, dto.BookingFilter{PageQuery: dto.PageQuery{Page: 1, Limit: 2}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(bookings) != 2 {
		t.Fatalf("total/len = %d/%d, want 3/2", total, len(bookings))
	}

	bookings, total, err = e.bookings.ListBookings(ctx, receptionist, dto.BookingFilter{Status: constants.BookingStatusCheckedIn})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if total != 0 || len(bookings) != 0 {
		t.Fatalf("checked-in bookings = %d, want 0", total)
	}
}

func TestAuditSinkFailureDoesNotFailOperation(t *testing.T) {
	e := newEngine(t)
	e.sink.err = errors.New("sink offline")
	room := e.seedRoom(t, receptionist, "801", "50000")

	booking := e.book(t, receptionist, room.ID)
	if _, err := e.bookings.CheckIn(context.Background(), receptionist, booking.ID); err != nil {
		t.Fatalf("check in with failing audit sink: %v", err)
	}
	if got := e.reload(t, booking.ID).Status; got != constants.BookingStatusCheckedIn {
		t.Fatalf("status = %s, want CHECKED_IN", got)
	}
}
