package domain

import "strings" // String joining for display names

// Role identifies which endpoints a user may reach
type Role string

const (
	RoleStudent Role = "student" // Applies for rooms
	RoleAdmin   Role = "Admin"   // Approves applications, manages templates
	RoleIT      Role = "IT"      // Same privileges as Admin
)

// ParseRole converts a stored or submitted role string into a Role
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleAdmin, RoleIT:
		return Role(s), true
	}
	return "", false
}

// IsStaff reports whether the role may approve applications
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleIT
}

// User Model
type User struct {
	ID         uint   `gorm:"primaryKey"`                       // Primary key
	UserID     int64  `gorm:"uniqueIndex;not null"`             // University ID used to log in
	FirstName  string `gorm:"column:fname;size:150;not null"`   // First name
	LastName   string `gorm:"column:lname;size:150;not null"`   // Last name
	MiddleName string `gorm:"size:100"`                         // Optional middle name
	Email      string `gorm:"uniqueIndex;size:150;not null"`    // Unique email
	Telephone  string `gorm:"size:15"`                          // Contact number
	Role       Role   `gorm:"column:usertype;size:20;not null"` // student, Admin or IT
	Password   string `gorm:"size:150;not null" json:"-"`       // Hashed password
}

// FullName joins the non-empty name parts
func (u User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.FirstName, u.MiddleName, u.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
