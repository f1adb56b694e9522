// Package seed loads rooms, email templates and staff accounts from a YAML file.
package seed

import (
	"context" // Request scoping
	"errors"  // Sentinel errors
	"fmt"     // Error wrapping
	"io"      // Seed file input

	"dorm_booking/internal/domain" // Importing domain models
	"dorm_booking/internal/ledger" // Room creation
	"dorm_booking/internal/notify" // Template upserts

	"github.com/sirupsen/logrus" // Structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gopkg.in/yaml.v3"           // Seed file decoding
	"gorm.io/gorm"               // GORM ORM library
)

// ErrUserExists is returned when a staff ID or email is already registered
var ErrUserExists = errors.New("user already exists")

// File is the seed document
type File struct {
	Rooms     []Room     `yaml:"rooms"`
	Templates []Template `yaml:"templates"`
	Staff     []Staff    `yaml:"staff"`
}

// Room is one inventory row; available rooms are derived
type Room struct {
	ID          uint   `yaml:"id"`
	Building    int    `yaml:"building"`
	RoomType    string `yaml:"room_type"`
	FloorNumber int    `yaml:"floor"`
	Description string `yaml:"description"`
	TotalRooms  int    `yaml:"total_rooms"`
	BookedRooms int    `yaml:"booked_rooms"`
	ImageURL    string `yaml:"image_url"`
}

// Template is the email sent when an application reaches Status
type Template struct {
	Status  string `yaml:"status"`
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

// Staff is an Admin or IT account
type Staff struct {
	UserID    int64  `yaml:"user_id"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Role      string `yaml:"role"`
	Password  string `yaml:"password"`
}

// Summary counts what Apply wrote
type Summary struct {
	Rooms     int
	Templates int
	Staff     int
	Skipped   int
}

// Load decodes and checks a seed document
func Load(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	for i, t := range f.Templates {
		if _, ok := domain.ParseStatus(t.Status); !ok {
			return nil, fmt.Errorf("template %d: unknown status %q", i, t.Status)
		}
	}
	for i, s := range f.Staff {
		if role, ok := domain.ParseRole(s.Role); !ok || !role.IsStaff() {
			return nil, fmt.Errorf("staff %d: role must be Admin or IT, got %q", i, s.Role)
		}
	}
	return &f, nil
}

// Apply writes the document. Rooms whose ID already exists and staff already
// registered are skipped; templates are upserted by status.
func Apply(ctx context.Context, db *gorm.DB, f *File) (Summary, error) {
	var sum Summary
	rooms := ledger.New(db)
	for _, r := range f.Rooms {
		if r.ID != 0 {
			if _, err := rooms.Get(ctx, r.ID); err == nil {
				sum.Skipped++
				continue
			} else if !errors.Is(err, ledger.ErrRoomNotFound) {
				return sum, err
			}
		}
		room := domain.Room{
			ID: r.ID, Building: r.Building, RoomType: r.RoomType, FloorNumber: r.FloorNumber,
			Description: r.Description, TotalRooms: r.TotalRooms, BookedRooms: r.BookedRooms, ImageURL: r.ImageURL,
		}
		if err := rooms.Create(ctx, &room); err != nil {
			return sum, fmt.Errorf("room %d/%s: %w", r.Building, r.RoomType, err)
		}
		sum.Rooms++
	}

	templates := notify.NewTemplateStore(db)
	for _, t := range f.Templates {
		status, _ := domain.ParseStatus(t.Status)
		if err := templates.Save(ctx, &domain.EmailTemplate{Status: status, Subject: t.Subject, Body: t.Body}); err != nil {
			return sum, err
		}
		sum.Templates++
	}

	for _, s := range f.Staff {
		_, err := CreateStaff(ctx, db, s)
		if errors.Is(err, ErrUserExists) {
			sum.Skipped++
			continue
		}
		if err != nil {
			return sum, err
		}
		sum.Staff++
	}
	logrus.WithFields(logrus.Fields{
		"rooms": sum.Rooms, "templates": sum.Templates, "staff": sum.Staff, "skipped": sum.Skipped,
	}).Info("Seed applied")
	return sum, nil
}

// CreateStaff registers an Admin or IT account with a bcrypt-hashed password
func CreateStaff(ctx context.Context, db *gorm.DB, s Staff) (*domain.User, error) {
	role, ok := domain.ParseRole(s.Role)
	if !ok || !role.IsStaff() {
		return nil, fmt.Errorf("role must be Admin or IT, got %q", s.Role)
	}
	if len(s.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	var count int64
	err := db.WithContext(ctx).Model(&domain.User{}).
		Where("user_id = ? OR email = ?", s.UserID, s.Email).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{
		UserID: s.UserID, FirstName: s.FirstName, LastName: s.LastName,
		Email: s.Email, Role: role, Password: string(hash),
	}
	if err := db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("create staff %d: %w", s.UserID, err)
	}
	return &u, nil
}
