package ledger

import (
	"context"
	"testing"

	"dorm_booking/internal/db/dbtest"
	"dorm_booking/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func intPtr(v int) *int { return &v }

func seedRooms(t *testing.T, l *Ledger) []domain.Room {
	t.Helper()
	rooms := []domain.Room{
		{Building: 1, RoomType: "Single", FloorNumber: 1, Description: "a", TotalRooms: 4, ImageURL: "a.jpg"},
		{Building: 1, RoomType: "Double", FloorNumber: 2, Description: "b", TotalRooms: 2, BookedRooms: 2, ImageURL: "b.jpg"},
		{Building: 2, RoomType: "Double", FloorNumber: 2, Description: "c", TotalRooms: 3, BookedRooms: 1, ImageURL: "c.jpg"},
	}
	for i := range rooms {
		require.NoError(t, l.Create(context.Background(), &rooms[i]))
	}
	return rooms
}

func TestCreateDerivesAvailability(t *testing.T) {
	l := New(dbtest.Open(t))
	rooms := seedRooms(t, l)

	assert.Equal(t, 4, rooms[0].AvailableRooms)
	assert.Equal(t, 0, rooms[1].AvailableRooms)
	assert.Equal(t, 2, rooms[2].AvailableRooms)

	err := l.Create(context.Background(), &domain.Room{TotalRooms: 1, BookedRooms: 2})
	assert.ErrorIs(t, err, ErrInvalidCounts)
}

func TestSearchFiltersCompose(t *testing.T) {
	l := New(dbtest.Open(t))
	seedRooms(t, l)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"no filters", Filter{}, 3},
		{"type", Filter{RoomType: "Double"}, 2},
		{"type and building", Filter{RoomType: "Double", Building: intPtr(2)}, 1},
		{"floor", Filter{Floor: intPtr(2)}, 2},
		{"available now", Filter{AvailableNow: true}, 2},
		{"type and available", Filter{RoomType: "Double", AvailableNow: true}, 1},
		{"no match", Filter{Building: intPtr(9)}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rooms, err := l.Search(ctx, tc.filter)
			require.NoError(t, err)
			assert.Len(t, rooms, tc.want)
		})
	}
}

func TestSearchIsParameterized(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	injected := "Double' OR '1'='1"
	mock.ExpectQuery(`SELECT \* FROM .rooms. WHERE room_type = \? AND building = \? AND available_rooms > \?`).
		WithArgs(injected, 2, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "building", "room_type"}))

	rooms, err := New(gdb).Search(context.Background(), Filter{RoomType: injected, Building: intPtr(2), AvailableNow: true})
	require.NoError(t, err)
	assert.Empty(t, rooms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve(t *testing.T) {
	gdb := dbtest.Open(t)
	l := New(gdb)
	rooms := seedRooms(t, l)

	require.NoError(t, Reserve(gdb, rooms[2].ID))
	room, err := l.Get(context.Background(), rooms[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, room.BookedRooms)
	assert.Equal(t, 1, room.AvailableRooms)
	assert.True(t, room.Balanced())

	assert.ErrorIs(t, Reserve(gdb, rooms[1].ID), ErrNoRoomsAvailable)
	assert.ErrorIs(t, Reserve(gdb, 999), ErrRoomNotFound)
}

func TestAuditAndRebalance(t *testing.T) {
	gdb := dbtest.Open(t)
	l := New(gdb)
	rooms := seedRooms(t, l)
	ctx := context.Background()

	require.NoError(t, gdb.Model(&domain.Room{}).Where("id = ?", rooms[0].ID).Update("available_rooms", 1).Error)

	broken, err := l.Audit(ctx)
	require.NoError(t, err)
	require.Len(t, broken, 1)
	assert.Equal(t, rooms[0].ID, broken[0].ID)

	require.NoError(t, l.Rebalance(ctx, rooms[0].ID))
	broken, err = l.Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, broken)

	assert.ErrorIs(t, l.Rebalance(ctx, 999), ErrRoomNotFound)
}

func TestGetMissingRoom(t *testing.T) {
	_, err := New(dbtest.Open(t)).Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
