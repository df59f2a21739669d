package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"frontoffice/constants"
	"frontoffice/dto"
	apperrors "frontoffice/errors"
	"frontoffice/models"

	"gorm.io/gorm"
)

func TestCreateCategoryRejectsNegativePrice(t *testing.T) {
	e := newEngine(t)
	_, err := e.rooms.CreateCategory(context.Background(), manager, dto.CategoryRequest{Name: "Suite", PricePerNight: dec("-1")})
	assertCode(t, err, apperrors.ErrValidation)

	_, err = e.rooms.CreateCategory(context.Background(), manager, dto.CategoryRequest{PricePerNight: dec("10")})
	assertCode(t, err, apperrors.ErrValidation)
}

func TestUpdateCategoryRepricesFutureBookingsOnly(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	room := e.seedRoom(t, manager, "101", "50000")
	booking := e.book(t, receptionist, room.ID)

	category, err := e.rooms.UpdateCategory(ctx, manager, room.CategoryID, dto.CategoryRequest{Name: "Deluxe", PricePerNight: dec("65000")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !category.PricePerNight.Equal(dec("65000")) || category.Name != "Deluxe" {
		t.Fatalf("category = %+v", category)
	}
	if !e.reload(t, booking.ID).RoomAmount.Equal(dec("100000")) {
		t.Fatalf("existing booking was repriced")
	}

	_, err = e.rooms.UpdateCategory(ctx, otherTenant, room.CategoryID, dto.CategoryRequest{Name: "Hijack", PricePerNight: dec("1")})
	assertCode(t, err, apperrors.ErrNotFound)
}

func TestCreateRoomUniquePerBranch(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	room := e.seedRoom(t, manager, "101", "50000")

	_, err := e.rooms.CreateRoom(ctx, manager, dto.RoomRequest{CategoryID: room.CategoryID, RoomNumber: "101"})
	assertCode(t, err, apperrors.ErrConflict)

	otherBranch := manager
	otherBranch.BranchID = 2
	again, err := e.rooms.CreateRoom(ctx, otherBranch, dto.RoomRequest{CategoryID: room.CategoryID, RoomNumber: "101"})
	if err != nil {
		t.Fatalf("same number in another branch: %v", err)
	}
	if again.Status != constants.RoomStatusVacant || again.BranchID != 2 {
		t.Fatalf("room = %+v", again)
	}

	_, err = e.rooms.CreateRoom(ctx, otherTenant, dto.RoomRequest{CategoryID: room.CategoryID, RoomNumber: "900"})
	assertCode(t, err, apperrors.ErrNotFound)
}

func TestCreateRoomLosingInsertRaceIsConflict(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	category, err := e.rooms.CreateCategory(ctx, manager, dto.CategoryRequest{Name: "Standard", PricePerNight: dec("50000")})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	// another writer commits room 201 after our duplicate count has passed
	raced := false
	err = e.db.Callback().Create().Before("gorm:create").Register("test:competing_room", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "rooms" {
			return
		}
		raced = true
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO rooms (business_id, branch_id, category_id, room_number, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			manager.BusinessID, manager.BranchID, category.ID, "201", constants.RoomStatusVacant, time.Now().UTC(), time.Now().UTC())
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = e.rooms.CreateRoom(ctx, manager, dto.RoomRequest{CategoryID: category.ID, RoomNumber: "201"})
	if !raced {
		t.Fatal("competing insert did not run")
	}
	assertCode(t, err, apperrors.ErrConflict)
}

func TestIsDuplicateKey(t *testing.T) {
	e := newEngine(t)
	row := models.Room{BusinessID: 1, BranchID: 1, CategoryID: 1, RoomNumber: "301", Status: constants.RoomStatusVacant}
	if err := e.db.Create(&row).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	dup := row
	dup.ID = 0
	err := e.db.Create(&dup).Error
	if !isDuplicateKey(err) {
		t.Fatalf("isDuplicateKey(%v) = false", err)
	}
	if isDuplicateKey(nil) || isDuplicateKey(gorm.ErrRecordNotFound) {
		t.Fatal("unrelated errors reported as duplicates")
	}
	if !isDuplicateKey(errors.New(`ERROR: duplicate key value violates unique constraint "idx_rooms_business_branch_number" (SQLSTATE 23505)`)) {
		t.Fatal("postgres duplicate not recognized")
	}
}

func TestListRoomsScopesToBranch(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	first := e.seedRoom(t, manager, "101", "50000")
	e.seedRoom(t, manager, "102", "50000")
	otherBranch := manager
	otherBranch.BranchID = 2
	e.seedRoom(t, otherBranch, "201", "50000")
	e.book(t, receptionist, first.ID)

	rooms, err := e.rooms.ListRooms(ctx, receptionist, dto.RoomFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("rooms = %d, want 2 in branch 1", len(rooms))
	}

	reserved, err := e.rooms.ListRooms(ctx, receptionist, dto.RoomFilter{Status: constants.RoomStatusReserved})
	if err != nil {
		t.Fatalf("list reserved: %v", err)
	}
	if len(reserved) != 1 || reserved[0].ID != first.ID {
		t.Fatalf("reserved rooms = %+v", reserved)
	}

	inBranch2, err := e.rooms.ListRooms(ctx, receptionist, dto.RoomFilter{BranchID: 2})
	if err != nil {
		t.Fatalf("list branch 2: %v", err)
	}
	if len(inBranch2) != 1 {
		t.Fatalf("branch 2 rooms = %d, want 1", len(inBranch2))
	}
}

func TestUpdateRoomStatusMaintenanceToggle(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	room := e.seedRoom(t, manager, "101", "50000")

	_, err := e.rooms.UpdateRoomStatus(ctx, manager, room.ID, "BROKEN")
	assertCode(t, err, apperrors.ErrValidation)
	_, err = e.rooms.UpdateRoomStatus(ctx, manager, room.ID, "")
	assertCode(t, err, apperrors.ErrValidation)
	_, err = e.rooms.UpdateRoomStatus(ctx, manager, room.ID, constants.RoomStatusOccupied)
	assertCode(t, err, apperrors.ErrInvalidTransition)
	_, err = e.rooms.UpdateRoomStatus(ctx, manager, room.ID, constants.RoomStatusReserved)
	assertCode(t, err, apperrors.ErrInvalidTransition)

	updated, err := e.rooms.UpdateRoomStatus(ctx, manager, room.ID, constants.RoomStatusUnderMaintenance)
	if err != nil {
		t.Fatalf("to maintenance: %v", err)
	}
	if updated.Status != constants.RoomStatusUnderMaintenance {
		t.Fatalf("status = %s", updated.Status)
	}
	if !e.sink.has(constants.AuditRoomStatusUpdated) {
		t.Fatalf("audit actions = %v, want room status event", e.sink.actions())
	}
	if _, err := e.rooms.UpdateRoomStatus(ctx, manager, room.ID, constants.RoomStatusVacant); err != nil {
		t.Fatalf("back to vacant: %v", err)
	}
	if got := e.roomStatus(t, room.ID); got != constants.RoomStatusVacant {
		t.Fatalf("status = %s, want VACANT", got)
	}
}

func TestUpdateRoomStatusRefusesHeldRoom(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	room := e.seedRoom(t, manager, "101", "50000")
	e.book(t, receptionist, room.ID)

	_, err := e.rooms.UpdateRoomStatus(ctx, manager, room.ID, constants.RoomStatusUnderMaintenance)
	assertCode(t, err, apperrors.ErrConflict)
	_, err = e.rooms.UpdateRoomStatus(ctx, manager, room.ID, constants.RoomStatusVacant)
	assertCode(t, err, apperrors.ErrConflict)
	if got := e.roomStatus(t, room.ID); got != constants.RoomStatusReserved {
		t.Fatalf("status = %s, want RESERVED", got)
	}
}

func TestDeleteCategoryAndRoomInUse(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	room := e.seedRoom(t, manager, "101", "50000")

	err := e.rooms.DeleteCategory(ctx, manager, room.CategoryID)
	assertCode(t, err, apperrors.ErrConflict)

	booking := e.book(t, receptionist, room.ID)
	if _, err := e.bookings.Cancel(ctx, receptionist, booking.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	err = e.rooms.DeleteRoom(ctx, manager, room.ID)
	assertCode(t, err, apperrors.ErrConflict)

	spare := e.seedRoom(t, manager, "102", "40000")
	if err := e.rooms.DeleteRoom(ctx, manager, spare.ID); err != nil {
		t.Fatalf("delete unused room: %v", err)
	}
	if err := e.rooms.DeleteCategory(ctx, manager, spare.CategoryID); err != nil {
		t.Fatalf("delete unused category: %v", err)
	}
	var left int64
	e.db.Model(&models.RoomCategory{}).Count(&left)
	if left != 1 {
		t.Fatalf("categories = %d, want 1", left)
	}

	_, err = e.rooms.GetRoom(ctx, manager, spare.ID)
	assertCode(t, err, apperrors.ErrNotFound)
}
