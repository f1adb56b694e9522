package notify

import (
	"context" // Request scoping for queries
	"errors"  // Sentinel errors
	"fmt"     // Error wrapping
	"html"    // Escaping values placed in HTML bodies
	"strings" // Placeholder substitution

	"dorm_booking/internal/domain" // Importing domain models

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Upsert support
)

// Placeholders recognised in template subjects and bodies
const (
	PlaceholderStudent  = "[Student Name]"
	PlaceholderRoomType = "[Room Type]"
	PlaceholderStaff    = "[Your Name]"
)

var ErrTemplateNotFound = errors.New("email template not found")

// Vars are the values substituted into a template
type Vars struct {
	StudentName string
	RoomType    string
	StaffName   string
}

// Render substitutes the placeholders of s with v
func Render(s string, v Vars) string {
	r := strings.NewReplacer(
		PlaceholderStudent, v.StudentName,
		PlaceholderRoomType, v.RoomType,
		PlaceholderStaff, v.StaffName,
	)
	return r.Replace(s)
}

// RenderHTML is Render for HTML bodies; substituted values are escaped
// while the template's own markup is kept.
func RenderHTML(s string, v Vars) string {
	return Render(s, Vars{
		StudentName: html.EscapeString(v.StudentName),
		RoomType:    html.EscapeString(v.RoomType),
		StaffName:   html.EscapeString(v.StaffName),
	})
}

// TemplateStore persists email templates, one per status
type TemplateStore struct {
	db *gorm.DB
}

// NewTemplateStore returns a TemplateStore backed by db
func NewTemplateStore(db *gorm.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// Get loads the template for status
func (s *TemplateStore) Get(ctx context.Context, status domain.Status) (*domain.EmailTemplate, error) {
	var tpl domain.EmailTemplate
	if err := s.db.WithContext(ctx).Where("status = ?", status).First(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("load template %q: %w", status, err)
	}
	return &tpl, nil
}

// Save creates the template for tpl.Status or overwrites its subject and body
func (s *TemplateStore) Save(ctx context.Context, tpl *domain.EmailTemplate) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "status"}},
		DoUpdates: clause.AssignmentColumns([]string{"subject", "body"}),
	}).Create(tpl).Error
	if err != nil {
		return fmt.Errorf("save template %q: %w", tpl.Status, err)
	}
	return nil
}

// List returns every template ordered by status
func (s *TemplateStore) List(ctx context.Context) ([]domain.EmailTemplate, error) {
	var tpls []domain.EmailTemplate
	if err := s.db.WithContext(ctx).Order("status").Find(&tpls).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return tpls, nil
}
