package workflow

import (
	"context" // Request scoping
	"fmt"     // Error wrapping
	"strings" // LIKE escaping

	"dorm_booking/internal/domain" // Importing domain models
)

// Criteria filters the staff application search. Zero fields are ignored.
type Criteria struct {
	StudentID int64         // Exact student ID
	RoomID    uint          // Exact room
	Status    domain.Status // Exact status
	Name      string        // Substring of first or last name
	Email     string        // Substring of email
}

// "!" escapes LIKE wildcards; unlike backslash it needs no quoting in MySQL
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Search returns applications matching every set field of c, newest first
func (s *Service) Search(ctx context.Context, c Criteria) ([]domain.Application, error) {
	query := s.db.WithContext(ctx).Preload("Room") // Start building the query
	if c.StudentID != 0 {
		query = query.Where("student_id = ?", c.StudentID)
	}
	if c.RoomID != 0 {
		query = query.Where("room_id = ?", c.RoomID)
	}
	if c.Status != "" {
		query = query.Where("status = ?", c.Status)
	}
	if c.Name != "" {
		pattern := contains(c.Name)
		query = query.Where("(first_name LIKE ? ESCAPE '!' OR last_name LIKE ? ESCAPE '!')", pattern, pattern)
	}
	if c.Email != "" {
		query = query.Where("email LIKE ? ESCAPE '!'", contains(c.Email))
	}
	var apps []domain.Application
	if err := query.Order("id desc").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("search applications: %w", err)
	}
	return apps, nil
}
