// Package workflow implements the application lifecycle: submission, edits,
// approval, receipt upload and the final booking confirmation.
//
//	Pending -> Application Approved -> Payment Under Review -> Room Booked
//
// Each operation checks its preconditions before writing anything, and writes
// that span more than one row run in a single transaction.
package workflow

import (
	"context" // Request scoping
	"errors"  // Error classification
	"fmt"     // Error wrapping
	"io"      // Receipt content

	"dorm_booking/internal/domain"   // Importing domain models
	"dorm_booking/internal/ledger"   // Room inventory
	"dorm_booking/internal/metrics"  // Transition counters
	"dorm_booking/internal/notify"   // Status emails
	"dorm_booking/internal/receipts" // Receipt naming

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// ReceiptStore persists uploaded receipts
type ReceiptStore interface {
	Replace(prefix, ext string, r io.Reader) (string, error)
	Remove(name string) error
}

// Notifier sends status emails
type Notifier interface {
	Notify(ctx context.Context, n notify.Notice) error
}

// Outcome is the result of a staff transition. NotifyErr is set when the
// status email could not be prepared; the transition itself has committed.
type Outcome struct {
	Application domain.Application
	Room        domain.Room
	NotifyErr   error
}

// Service runs workflow operations against the store
type Service struct {
	db       *gorm.DB
	receipts ReceiptStore
	notifier Notifier
}

// NewService wires the workflow to its collaborators
func NewService(db *gorm.DB, receipts ReceiptStore, notifier Notifier) *Service {
	return &Service{db: db, receipts: receipts, notifier: notifier}
}

// Submit creates a Pending application for roomID filed by the student callerID
func (s *Service) Submit(ctx context.Context, callerID int64, roomID uint, form ApplicationForm) (*domain.Application, error) {
	db := s.db.WithContext(ctx)
	if _, err := ledger.Get(db, roomID); err != nil {
		return nil, err
	}

	errs := ValidationErrors{}
	for k, v := range form.Validate(callerID) {
		errs[k] = v
	}
	exists, err := applicationExists(db, callerID, roomID)
	if err != nil {
		return nil, err
	}
	if exists {
		errs["room"] = MsgAlreadyApplied
	}
	if len(errs) > 0 {
		return nil, errs
	}

	app := domain.Application{StudentID: callerID, RoomID: &roomID, Status: domain.StatusPending}
	form.apply(&app)
	err = db.Transaction(func(tx *gorm.DB) error {
		// Re-check inside the transaction to narrow the double-submit window
		exists, err := applicationExists(tx, callerID, roomID)
		if err != nil {
			return err
		}
		if exists {
			return ValidationErrors{"room": MsgAlreadyApplied}
		}
		return tx.Create(&app).Error
	})
	if err != nil {
		var verrs ValidationErrors
		if errors.As(err, &verrs) {
			return nil, verrs
		}
		return nil, fmt.Errorf("create application: %w", err)
	}

	metrics.Transitions.WithLabelValues(string(ActionSubmit)).Inc()
	logrus.WithFields(logrus.Fields{
		"application_id": app.ID,
		"student_id":     callerID,
		"room_id":        roomID,
		"status":         app.Status,
	}).Info("Application submitted")
	return &app, nil
}

// Edit overwrites the student's application for roomID with form
func (s *Service) Edit(ctx context.Context, callerID int64, roomID uint, form ApplicationForm) (*domain.Application, error) {
	db := s.db.WithContext(ctx)
	app, err := s.FindForStudentRoom(ctx, callerID, roomID)
	if err != nil {
		return nil, err
	}
	if !ValidTransition(ActionEdit, app.Status) {
		return nil, ErrInvalidState
	}
	if errs := form.Validate(callerID); len(errs) > 0 {
		return nil, errs
	}

	form.apply(app)
	app.Room = nil // Only the application row is written
	if err := db.Save(app).Error; err != nil {
		return nil, fmt.Errorf("update application %d: %w", app.ID, err)
	}

	metrics.Transitions.WithLabelValues(string(ActionEdit)).Inc()
	logrus.WithFields(logrus.Fields{
		"application_id": app.ID,
		"student_id":     callerID,
		"room_id":        roomID,
	}).Info("Application updated")
	return app, nil
}

// Approve moves a Pending application to Application Approved and emails the applicant.
// The room must still have availability; ledger counts are not changed here.
func (s *Service) Approve(ctx context.Context, staff domain.User, applicationID, roomID uint) (*Outcome, error) {
	var out Outcome
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		app, err := loadApplication(tx, applicationID)
		if err != nil {
			return err
		}
		room, err := ledger.Get(tx, roomID)
		if err != nil {
			return err
		}
		if app.RoomIDValue() != roomID {
			return ErrRoomMismatch
		}
		if !room.HasAvailability() {
			return ErrNoRoomsAvailable
		}
		if !ValidTransition(ActionApprove, app.Status) {
			return ErrInvalidState
		}
		if err := setStatus(tx, app, domain.StatusApproved); err != nil {
			return err
		}
		out.Application, out.Room = *app, *room
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Transitions.WithLabelValues(string(ActionApprove)).Inc()
	logrus.WithFields(logrus.Fields{
		"application_id": applicationID,
		"room_id":        roomID,
		"approved_by":    staff.UserID,
	}).Info("Application approved")

	out.NotifyErr = s.notify(ctx, out, staff.FullName())
	return &out, nil
}

// UploadReceipt stores a payment receipt for the caller's application and
// moves it to Payment Under Review. It returns the stored file name.
func (s *Service) UploadReceipt(ctx context.Context, callerID int64, applicationID uint, filename string, r io.Reader) (*domain.Application, string, error) {
	ext, ok := receipts.Extension(filename)
	if !ok {
		return nil, "", ErrUnsupportedReceipt
	}
	db := s.db.WithContext(ctx)
	app, err := loadApplication(db, applicationID)
	if err != nil {
		return nil, "", err
	}
	if app.StudentID != callerID {
		return nil, "", ErrNotOwner
	}
	if !ValidTransition(ActionUploadReceipt, app.Status) {
		return nil, "", ErrInvalidState
	}

	stored, err := s.receipts.Replace(receipts.Prefix(app.StudentID, app.RoomIDValue(), app.ID), ext, r)
	if err != nil {
		return nil, "", fmt.Errorf("store receipt: %w", err)
	}
	if err := setStatus(db, app, domain.StatusPaymentReview); err != nil {
		entry := logrus.WithFields(logrus.Fields{"application_id": app.ID, "file": stored})
		if rmErr := s.receipts.Remove(stored); rmErr != nil {
			entry.WithError(rmErr).Error("Orphaned receipt left after failed status update")
		} else {
			entry.Warn("Discarded receipt after failed status update")
		}
		return nil, "", err
	}

	metrics.Transitions.WithLabelValues(string(ActionUploadReceipt)).Inc()
	logrus.WithFields(logrus.Fields{
		"application_id": app.ID,
		"student_id":     callerID,
		"file":           stored,
	}).Info("Payment receipt uploaded")
	return app, stored, nil
}

// ConfirmBooking books the room of an application under payment review.
// The ledger reservation and the status change commit together.
func (s *Service) ConfirmBooking(ctx context.Context, staffName string, applicationID uint) (*Outcome, error) {
	var out Outcome
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		app, err := loadApplication(tx, applicationID)
		if err != nil {
			return err
		}
		if !ValidTransition(ActionConfirmBooking, app.Status) {
			return ErrInvalidState
		}
		if app.RoomID == nil {
			return ErrRoomNotFound
		}
		if err := ledger.Reserve(tx, *app.RoomID); err != nil {
			return err
		}
		if err := setStatus(tx, app, domain.StatusRoomBooked); err != nil {
			return err
		}
		room, err := ledger.Get(tx, *app.RoomID)
		if err != nil {
			return err
		}
		out.Application, out.Room = *app, *room
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Transitions.WithLabelValues(string(ActionConfirmBooking)).Inc()
	logrus.WithFields(logrus.Fields{
		"application_id":  applicationID,
		"room_id":         out.Room.ID,
		"available_rooms": out.Room.AvailableRooms,
	}).Info("Room booked")

	out.NotifyErr = s.notify(ctx, out, staffName)
	return &out, nil
}

// Get loads one application with its room
func (s *Service) Get(ctx context.Context, id uint) (*domain.Application, error) {
	var app domain.Application
	if err := s.db.WithContext(ctx).Preload("Room").First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("load application %d: %w", id, err)
	}
	return &app, nil
}

// FindForStudentRoom loads the student's application for a room
func (s *Service) FindForStudentRoom(ctx context.Context, studentID int64, roomID uint) (*domain.Application, error) {
	var app domain.Application
	err := s.db.WithContext(ctx).Preload("Room").
		Where("student_id = ? AND room_id = ?", studentID, roomID).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("load application: %w", err)
	}
	return &app, nil
}

// ListForStudent returns the student's applications, oldest first, with rooms.
// A non-zero roomID narrows the list to that room.
func (s *Service) ListForStudent(ctx context.Context, studentID int64, roomID uint) ([]domain.Application, error) {
	query := s.db.WithContext(ctx).Preload("Room").Where("student_id = ?", studentID)
	if roomID != 0 {
		query = query.Where("room_id = ?", roomID)
	}
	var apps []domain.Application
	if err := query.Order("id").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

func (s *Service) notify(ctx context.Context, out Outcome, staffName string) error {
	if s.notifier == nil {
		return nil
	}
	err := s.notifier.Notify(ctx, notify.Notice{
		Status:    out.Application.Status,
		Recipient: out.Application.Email,
		Vars: notify.Vars{
			StudentName: out.Application.ApplicantName(),
			RoomType:    out.Room.RoomType,
			StaffName:   staffName,
		},
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"application_id": out.Application.ID,
			"status":         out.Application.Status,
			"error":          err.Error(),
		}).Warn("Status email not sent")
	}
	return err
}

func loadApplication(tx *gorm.DB, id uint) (*domain.Application, error) {
	var app domain.Application
	if err := tx.First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("load application %d: %w", id, err)
	}
	return &app, nil
}

func applicationExists(tx *gorm.DB, studentID int64, roomID uint) (bool, error) {
	var count int64
	err := tx.Model(&domain.Application{}).
		Where("student_id = ? AND room_id = ?", studentID, roomID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check existing application: %w", err)
	}
	return count > 0, nil
}

func setStatus(tx *gorm.DB, app *domain.Application, to domain.Status) error {
	from := app.Status
	if err := tx.Model(app).Update("status", to).Error; err != nil {
		return fmt.Errorf("set status of application %d: %w", app.ID, err)
	}
	app.Status = to
	logrus.WithFields(logrus.Fields{
		"application_id": app.ID,
		"from":           from,
		"to":             to,
	}).Debug("Status changed")
	return nil
}
