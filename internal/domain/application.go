package domain

import "time" // Timestamps

// Status is the position of an Application in the booking workflow
type Status string

const (
	StatusPending       Status = "Pending"
	StatusApproved      Status = "Application Approved"
	StatusPaymentReview Status = "Payment Under Review"
	StatusRoomBooked    Status = "Room Booked"
)

// Statuses lists the workflow states in progression order
var Statuses = []Status{StatusPending, StatusApproved, StatusPaymentReview, StatusRoomBooked}

// ParseStatus converts a submitted status string into a Status
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Terminal reports whether no further transition leaves this status
func (s Status) Terminal() bool {
	return s == StatusRoomBooked
}

// Step is the zero-based position of s in Statuses, or -1
func (s Status) Step() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Application Model
type Application struct {
	ID                     uint      `gorm:"primaryKey"`         // Primary key
	StudentID              int64     `gorm:"index;not null"`     // University ID of the applicant
	FirstName              string    `gorm:"size:100;not null"`  // Applicant first name
	LastName               string    `gorm:"size:100;not null"`  // Applicant last name
	MiddleName             string    `gorm:"size:100"`           // Optional middle name
	Email                  string    `gorm:"size:150;not null"`  // Contact email
	Telephone              string    `gorm:"size:15;not null"`   // Contact number
	Gender                 string    `gorm:"size:10;not null"`   // Gender
	EducationLevel         string    `gorm:"size:50;not null"`   // Undergraduate, postgraduate...
	ProgramType            string    `gorm:"size:50;not null"`   // Full time, part time...
	ReasonForApplying      string    `gorm:"type:text;not null"` // Justification
	CoCurricularActivities string    `gorm:"type:text"`          // Optional activities
	Agreement              bool      `gorm:"not null"`           // Terms accepted
	RoomID                 *uint     `gorm:"index"`              // Foreign key to Room
	Room                   *Room     `gorm:"foreignKey:RoomID"`  // Requested room
	Status                 Status    `gorm:"size:50;index"`      // Workflow status
	CreatedAt              time.Time // Submission time
	UpdatedAt              time.Time // Last change
}

// RoomIDValue returns the room id or 0 when the application has none
func (a Application) RoomIDValue() uint {
	if a.RoomID == nil {
		return 0
	}
	return *a.RoomID
}

// ApplicantName joins the applicant's first and last name
func (a Application) ApplicantName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
