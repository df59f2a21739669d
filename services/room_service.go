package services

import (
	"context"
	"strings"

	"frontoffice/constants"
	"frontoffice/dto"
	apperrors "frontoffice/errors"
	"frontoffice/models"
	"frontoffice/services/logger"
	"frontoffice/validator"

	"gorm.io/gorm"
)

type RoomServiceInterface interface {
	CreateCategory(ctx context.Context, actor models.Actor, req dto.CategoryRequest) (*models.RoomCategory, error)
	UpdateCategory(ctx context.Context, actor models.Actor, id uint, req dto.CategoryRequest) (*models.RoomCategory, error)
	ListCategories(ctx context.Context, actor models.Actor) ([]models.RoomCategory, error)
	DeleteCategory(ctx context.Context, actor models.Actor, id uint) error
	CreateRoom(ctx context.Context, actor models.Actor, req dto.RoomRequest) (*models.Room, error)
	GetRoom(ctx context.Context, actor models.Actor, id uint) (*models.Room, error)
	ListRooms(ctx context.Context, actor models.Actor, filter dto.RoomFilter) ([]models.Room, error)
	UpdateRoomStatus(ctx context.Context, actor models.Actor, roomID uint, next string) (*models.Room, error)
	DeleteRoom(ctx context.Context, actor models.Actor, roomID uint) error
}

type RoomServiceOptions struct {
	Tx      *Transactor
	Auditor *Auditor
	Logger  logger.Logger
}

// RoomService manages room categories, rooms and the maintenance toggle.
// OCCUPIED/RESERVED are never written here; only BookingService claims rooms.
type RoomService struct {
	tx      *Transactor
	auditor *Auditor
	logger  logger.Logger
}

func NewRoomService(opts RoomServiceOptions) *RoomService {
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &RoomService{tx: opts.Tx, auditor: opts.Auditor, logger: opts.Logger}
}

func validateCategory(req dto.CategoryRequest) error {
	if err := validator.Struct(req); err != nil {
		return err
	}
	return validator.ValidateNonNegative("pricePerNight", req.PricePerNight)
}

func (s *RoomService) CreateCategory(ctx context.Context, actor models.Actor, req dto.CategoryRequest) (*models.RoomCategory, error) {
	if err := validateCategory(req); err != nil {
		return nil, err
	}
	category := &models.RoomCategory{
		BusinessID:    actor.BusinessID,
		Name:          strings.TrimSpace(req.Name),
		PricePerNight: req.PricePerNight.Round(2),
		Description:   req.Description,
	}
	if err := s.tx.DB(ctx).Create(category).Error; err != nil {
		return nil, apperrors.Database("failed to create room category", err)
	}
	s.logger.Info("business %d created room category %d (%s)", actor.BusinessID, category.ID, category.Name)
	return category, nil
}

func (s *RoomService) UpdateCategory(ctx context.Context, actor models.Actor, id uint, req dto.CategoryRequest) (*models.RoomCategory, error) {
	if err := validateCategory(req); err != nil {
		return nil, err
	}
	var category models.RoomCategory
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("id = ? AND business_id = ?", id, actor.BusinessID).
			First(&category).Error; err != nil {
			return notFoundOr(err, "room category", id)
		}
		category.Name = strings.TrimSpace(req.Name)
		category.PricePerNight = req.PricePerNight.Round(2)
		category.Description = req.Description
		if err := tx.Save(&category).Error; err != nil {
			return apperrors.Database("failed to update room category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *RoomService) ListCategories(ctx context.Context, actor models.Actor) ([]models.RoomCategory, error) {
	var categories []models.RoomCategory
	if err := s.tx.DB(ctx).Where("business_id = ?", actor.BusinessID).
		Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Database("failed to list room categories", err)
	}
	return categories, nil
}

func (s *RoomService) DeleteCategory(ctx context.Context, actor models.Actor, id uint) error {
	return s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var category models.RoomCategory
		if err := forUpdate(tx).Where("id = ? AND business_id = ?", id, actor.BusinessID).
			First(&category).Error; err != nil {
			return notFoundOr(err, "room category", id)
		}
		var rooms int64
		if err := tx.Model(&models.Room{}).Where("category_id = ?", id).Count(&rooms).Error; err != nil {
			return apperrors.Database("failed to count rooms", err)
		}
		if rooms > 0 {
			return apperrors.Conflict("room category %d is used by %d room(s)", id, rooms)
		}
		if err := tx.Delete(&category).Error; err != nil {
			return apperrors.Database("failed to delete room category", err)
		}
		return nil
	})
}

func (s *RoomService) CreateRoom(ctx context.Context, actor models.Actor, req dto.RoomRequest) (*models.Room, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	room := &models.Room{
		BusinessID: actor.BusinessID,
		BranchID:   actor.BranchID,
		CategoryID: req.CategoryID,
		RoomNumber: strings.TrimSpace(req.RoomNumber),
		RoomName:   req.RoomName,
		Floor:      req.Floor,
		Status:     constants.RoomStatusVacant,
	}
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var category models.RoomCategory
		if err := tx.Where("id = ? AND business_id = ?", req.CategoryID, actor.BusinessID).
			First(&category).Error; err != nil {
			return notFoundOr(err, "room category", req.CategoryID)
		}
		var dup int64
		if err := tx.Model(&models.Room{}).
			Where("business_id = ? AND branch_id = ? AND room_number = ?", actor.BusinessID, actor.BranchID, room.RoomNumber).
			Count(&dup).Error; err != nil {
			return apperrors.Database("failed to check room number", err)
		}
		if dup > 0 {
			return apperrors.Conflict("room number %s already exists in this branch", room.RoomNumber)
		}
		// a concurrent create can still win between the count and the insert
		if err := tx.Create(room).Error; err != nil {
			if isDuplicateKey(err) {
				return apperrors.Conflict("room number %s already exists in this branch", room.RoomNumber)
			}
			return apperrors.Database("failed to create room", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("business %d branch %d created room %s (id %d)", actor.BusinessID, actor.BranchID, room.RoomNumber, room.ID)
	return room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, actor models.Actor, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.tx.DB(ctx).Where("id = ? AND business_id = ?", id, actor.BusinessID).
		First(&room).Error; err != nil {
		return nil, notFoundOr(err, "room", id)
	}
	return &room, nil
}

func (s *RoomService) ListRooms(ctx context.Context, actor models.Actor, filter dto.RoomFilter) ([]models.Room, error) {
	branchID := filter.BranchID
	if branchID == 0 {
		branchID = actor.BranchID
	}
	query := s.tx.DB(ctx).Where("business_id = ? AND branch_id = ?", actor.BusinessID, branchID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	var rooms []models.Room
	if err := query.Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, apperrors.Database("failed to list rooms", err)
	}
	return rooms, nil
}

// UpdateRoomStatus is the maintenance toggle. Only VACANT <-> UNDER_MAINTENANCE is legal.
func (s *RoomService) UpdateRoomStatus(ctx context.Context, actor models.Actor, roomID uint, next string) (*models.Room, error) {
	if err := (&models.Room{Status: next}).ValidateStatus(); err != nil {
		return nil, err
	}
	if next != constants.RoomStatusVacant && next != constants.RoomStatusUnderMaintenance {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidTransition,
			"room status "+next+" can only be set by a booking transition", nil)
	}

	var (
		room     models.Room
		previous string
	)
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("id = ? AND business_id = ?", roomID, actor.BusinessID).
			First(&room).Error; err != nil {
			return notFoundOr(err, "room", roomID)
		}
		previous = room.Status
		if room.IsHeld() {
			return apperrors.Conflict("room %d is %s under an active booking", room.ID, room.Status)
		}
		if room.Status == next {
			return nil
		}
		if err := tx.Model(&room).Update("status", next).Error; err != nil {
			return apperrors.Database("failed to update room status", err)
		}
		room.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	if previous != next {
		s.auditor.Record(ctx, models.NewAuditEvent(actor, constants.AuditRoomStatusUpdated, "room", room.ID,
			map[string]interface{}{"from": previous, "to": next, "roomNumber": room.RoomNumber}))
	}
	return &room, nil
}

func (s *RoomService) DeleteRoom(ctx context.Context, actor models.Actor, roomID uint) error {
	return s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var room models.Room
		if err := forUpdate(tx).Where("id = ? AND business_id = ?", roomID, actor.BusinessID).
			First(&room).Error; err != nil {
			return notFoundOr(err, "room", roomID)
		}
		var bookings int64
		if err := tx.Model(&models.Booking{}).Where("room_id = ?", roomID).Count(&bookings).Error; err != nil {
			return apperrors.Database("failed to count bookings", err)
		}
		if bookings > 0 {
			return apperrors.Conflict("room %d is referenced by %d booking(s)", roomID, bookings)
		}
		if err := tx.Delete(&room).Error; err != nil {
			return apperrors.Database("failed to delete room", err)
		}
		return nil
	})
}
