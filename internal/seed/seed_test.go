package seed

import (
	"context"
	"strings"
	"testing"

	"dorm_booking/internal/db/dbtest"
	"dorm_booking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const doc = `
rooms:
  - id: 5
    building: 2
    room_type: Double
    floor: 3
    description: Corner room
    total_rooms: 4
    booked_rooms: 1
    image_url: /static/double.jpg
templates:
  - status: Application Approved
    subject: "Approved: [Room Type]"
    body: "<p>Dear [Student Name]</p>"
staff:
  - user_id: 9001
    first_name: Grace
    last_name: Hopper
    email: grace@uni.edu
    role: Admin
    password: correct-horse
`

func TestLoadAndApply(t *testing.T) {
	gdb := dbtest.Open(t)
	f, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	sum, err := Apply(context.Background(), gdb, f)
	require.NoError(t, err)
	assert.Equal(t, Summary{Rooms: 1, Templates: 1, Staff: 1}, sum)

	var room domain.Room
	require.NoError(t, gdb.First(&room, 5).Error)
	assert.Equal(t, 3, room.AvailableRooms)

	var u domain.User
	require.NoError(t, gdb.Where("user_id = ?", 9001).First(&u).Error)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("correct-horse")))

	// A second run only refreshes templates
	sum, err = Apply(context.Background(), gdb, f)
	require.NoError(t, err)
	assert.Equal(t, Summary{Templates: 1, Skipped: 2}, sum)
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown status", "templates:\n  - status: Rejected\n    subject: s\n    body: b\n"},
		{"student staff", "staff:\n  - user_id: 1\n    role: student\n"},
		{"unknown field", "rooms:\n  - colour: blue\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestCreateStaffRejectsDuplicates(t *testing.T) {
	gdb := dbtest.Open(t)
	s := Staff{UserID: 9001, FirstName: "Grace", LastName: "Hopper", Email: "grace@uni.edu", Role: "IT", Password: "correct-horse"}
	_, err := CreateStaff(context.Background(), gdb, s)
	require.NoError(t, err)

	s.UserID = 9002
	_, err = CreateStaff(context.Background(), gdb, s)
	assert.ErrorIs(t, err, ErrUserExists)

	s.Email, s.Password = "other@uni.edu", "short"
	_, err = CreateStaff(context.Background(), gdb, s)
	assert.Error(t, err)
}
