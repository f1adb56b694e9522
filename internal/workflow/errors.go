package workflow

import (
	"errors"  // Sentinel errors
	"sort"    // Stable field order
	"strings" // Message joining

	"dorm_booking/internal/ledger" // Ledger sentinels
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrRoomNotFound        = ledger.ErrRoomNotFound
	ErrNoRoomsAvailable    = ledger.ErrNoRoomsAvailable
	ErrRoomMismatch        = errors.New("application is for a different room")
	ErrInvalidState        = errors.New("invalid application state")
	ErrNotOwner            = errors.New("application belongs to another student")
	ErrUnsupportedReceipt  = errors.New("unsupported receipt format")
)

// ValidationErrors maps form field names to messages shown next to the field
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
