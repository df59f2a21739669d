package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"frontoffice/constants"
	"frontoffice/dto"
	"frontoffice/models"
	"frontoffice/services/logger"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	receptionist = models.Actor{BusinessID: 1, BranchID: 1, ActorID: 10, Role: constants.RoleReceptionist}
	manager      = models.Actor{BusinessID: 1, BranchID: 1, ActorID: 11, Role: constants.RoleManager}
	otherTenant  = models.Actor{BusinessID: 2, BranchID: 7, ActorID: 20, Role: constants.RoleManager}
)

// newTestDB opens a private in-memory SQLite database. One connection means
// transactions run one after another. forUpdate is a no-op on sqlite, so concurrency
// tests here prove the conditional room claim, not postgres row locks; the locking
// clause itself is checked as generated SQL in tx_test.go.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type recordingSink struct {
	mu     sync.Mutex
	events []models.AuditEvent
	err    error
}

func (s *recordingSink) Emit(_ context.Context, e models.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Action)
	}
	return out
}

func (s *recordingSink) has(action string) bool {
	for _, a := range s.actions() {
		if a == action {
			return true
		}
	}
	return false
}

type engine struct {
	db       *gorm.DB
	sink     *recordingSink
	rooms    *RoomService
	folio    *FolioService
	bookings *BookingService
	tax      *TaxService
	revenue  *RevenueService
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	db := newTestDB(t)
	sink := &recordingSink{}
	log := logger.NewDefaultLogger(logger.ErrorLevel)
	auditor := NewAuditor(sink, log)
	tx := NewTransactor(db, 10*time.Second)

	folio := NewFolioService(FolioServiceOptions{Tx: tx, Auditor: auditor, Logger: log})
	tax := NewTaxService(TaxServiceOptions{Tx: tx, Auditor: auditor, Logger: log})
	return &engine{
		db:       db,
		sink:     sink,
		rooms:    NewRoomService(RoomServiceOptions{Tx: tx, Auditor: auditor, Logger: log}),
		folio:    folio,
		bookings: NewBookingService(BookingServiceOptions{Tx: tx, Folio: folio, Auditor: auditor, Logger: log}),
		tax:      tax,
		revenue:  NewRevenueService(RevenueServiceOptions{Tx: tx, Tax: tax, Logger: log}),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (e *engine) seedRoom(t *testing.T, actor models.Actor, number, price string) *models.Room {
	t.Helper()
	ctx := context.Background()
	category, err := e.rooms.CreateCategory(ctx, actor, dto.CategoryRequest{Name: "Standard " + number, PricePerNight: dec(price)})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	room, err := e.rooms.CreateRoom(ctx, actor, dto.RoomRequest{CategoryID: category.ID, RoomNumber: number})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	return room
}

func (e *engine) roomStatus(t *testing.T, roomID uint) string {
	t.Helper()
	var room models.Room
	if err := e.db.First(&room, roomID).Error; err != nil {
		t.Fatalf("load room %d: %v", roomID, err)
	}
	return room.Status
}

func (e *engine) reload(t *testing.T, bookingID uint) *models.Booking {
	t.Helper()
	var b models.Booking
	if err := e.db.First(&b, bookingID).Error; err != nil {
		t.Fatalf("load booking %d: %v", bookingID, err)
	}
	return &b
}

func bookingRequest(roomID uint) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RoomID:    roomID,
		GuestName: "Amina Juma",
		CheckIn:   "2024-01-01",
		CheckOut:  "2024-01-03",
		Nights:    2,
	}
}

func (e *engine) book(t *testing.T, actor models.Actor, roomID uint) *models.Booking {
	t.Helper()
	b, err := e.bookings.CreateBooking(context.Background(), actor, bookingRequest(roomID))
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}

func assertCode(t *testing.T, err error, target error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}
