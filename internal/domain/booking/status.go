package booking

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCompleted, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

func InitialStatus() Status {
	return StatusPending
}

func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted || s == StatusCancelled
}

// ActiveStatuses are the statuses that hold a guide's slot.
func ActiveStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed)}
}
