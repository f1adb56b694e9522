package domain

// Room Model. One row describes a group of identical rooms on a floor.
type Room struct {
	ID             uint   `gorm:"primaryKey"`         // Primary key
	Building       int    `gorm:"not null"`           // Dormitory building number
	RoomType       string `gorm:"size:50;not null"`   // Single, double, suite...
	FloorNumber    int    `gorm:"not null"`           // Floor within the building
	Description    string `gorm:"type:text;not null"` // Free-text description
	TotalRooms     int    `gorm:"not null"`           // Rooms of this kind in total
	BookedRooms    int    `gorm:"not null;default:0"` // Rooms already booked
	AvailableRooms int    `gorm:"not null"`           // Rooms still free
	ImageURL       string `gorm:"size:255;not null"`  // Image shown in search results
}

// HasAvailability reports whether at least one room can still be given out
func (r Room) HasAvailability() bool {
	return r.AvailableRooms > 0
}

// Balanced reports whether available = total - booked holds
func (r Room) Balanced() bool {
	return r.AvailableRooms == r.TotalRooms-r.BookedRooms
}
