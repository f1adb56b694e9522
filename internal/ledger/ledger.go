// Package ledger keeps the per-room inventory counts: total, booked and
// available rooms. Searches always hit the store; nothing is cached.
package ledger

import (
	"context" // Request scoping for queries
	"errors"  // Sentinel errors
	"fmt"     // Error wrapping

	"dorm_booking/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrNoRoomsAvailable = errors.New("no rooms available")
	ErrInvalidCounts    = errors.New("invalid room counts")
)

// Filter narrows a room search. Zero fields are ignored; set fields combine with AND.
type Filter struct {
	RoomType     string // Exact room type
	Building     *int   // Building number
	Floor        *int   // Floor number
	AvailableNow bool   // Only rooms with available_rooms > 0
}

// Ledger reads and updates room inventory
type Ledger struct {
	db *gorm.DB
}

// New returns a Ledger backed by db
func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Search returns the rooms matching every set field of f
func (l *Ledger) Search(ctx context.Context, f Filter) ([]domain.Room, error) {
	query := l.db.WithContext(ctx).Model(&domain.Room{}) // Start building the query
	if f.RoomType != "" {
		query = query.Where("room_type = ?", f.RoomType) // Filter by type
	}
	if f.Building != nil {
		query = query.Where("building = ?", *f.Building) // Filter by building
	}
	if f.Floor != nil {
		query = query.Where("floor_number = ?", *f.Floor) // Filter by floor
	}
	if f.AvailableNow {
		query = query.Where("available_rooms > ?", 0) // Only rooms free right now
	}
	var rooms []domain.Room
	if err := query.Order("building, floor_number, id").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("search rooms: %w", err)
	}
	return rooms, nil
}

// Get loads one room
func (l *Ledger) Get(ctx context.Context, id uint) (*domain.Room, error) {
	return Get(l.db.WithContext(ctx), id)
}

// Get loads one room using tx, so callers inside a transaction see their own writes
func Get(tx *gorm.DB, id uint) (*domain.Room, error) {
	var room domain.Room
	if err := tx.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("load room %d: %w", id, err)
	}
	return &room, nil
}

// Create stores a new room with available_rooms derived from the other counts
func (l *Ledger) Create(ctx context.Context, room *domain.Room) error {
	if room.TotalRooms < 0 || room.BookedRooms < 0 || room.BookedRooms > room.TotalRooms {
		return ErrInvalidCounts
	}
	room.AvailableRooms = room.TotalRooms - room.BookedRooms // Keep the invariant from the start
	return l.db.WithContext(ctx).Create(room).Error
}

// Reserve moves one room from available to booked. It must run inside the
// caller's transaction so the count change commits together with the status change.
func Reserve(tx *gorm.DB, roomID uint) error {
	res := tx.Model(&domain.Room{}).
		Where("id = ? AND available_rooms > ?", roomID, 0).
		Updates(map[string]any{
			"booked_rooms":    gorm.Expr("booked_rooms + ?", 1),
			"available_rooms": gorm.Expr("available_rooms - ?", 1),
		})
	if res.Error != nil {
		return fmt.Errorf("reserve room %d: %w", roomID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the room is gone or it is full
		if _, err := Get(tx, roomID); err != nil {
			return err
		}
		return ErrNoRoomsAvailable
	}
	return nil
}

// Audit returns every room whose counts break available = total - booked
func (l *Ledger) Audit(ctx context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	err := l.db.WithContext(ctx).
		Where("available_rooms <> total_rooms - booked_rooms").
		Order("id").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("audit rooms: %w", err)
	}
	return rooms, nil
}

// Rebalance rewrites available_rooms from the other two counts for one room
func (l *Ledger) Rebalance(ctx context.Context, roomID uint) error {
	tx := l.db.WithContext(ctx)
	if _, err := Get(tx, roomID); err != nil {
		return err
	}
	err := tx.Model(&domain.Room{}).
		Where("id = ?", roomID).
		Update("available_rooms", gorm.Expr("total_rooms - booked_rooms")).Error
	if err != nil {
		return fmt.Errorf("rebalance room %d: %w", roomID, err)
	}
	return nil
}
