package workflow

import "dorm_booking/internal/domain" // Status values

// Action names a workflow operation on an existing application
type Action string

const (
	ActionSubmit         Action = "submit"
	ActionEdit           Action = "edit"
	ActionApprove        Action = "approve"
	ActionUploadReceipt  Action = "upload_receipt"
	ActionConfirmBooking Action = "confirm_booking"
)

// Edits and receipt uploads are open until the booking is final
var transitionMap = map[Action][]domain.Status{
	ActionEdit:           openStatuses(),
	ActionApprove:        {domain.StatusPending},
	ActionUploadReceipt:  openStatuses(),
	ActionConfirmBooking: {domain.StatusPaymentReview},
}

// openStatuses lists every status an application can still leave
func openStatuses() []domain.Status {
	var open []domain.Status
	for _, s := range domain.Statuses {
		if !s.Terminal() {
			open = append(open, s)
		}
	}
	return open
}

// ValidTransition reports whether action may run on an application in fromStatus
func ValidTransition(action Action, fromStatus domain.Status) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}
