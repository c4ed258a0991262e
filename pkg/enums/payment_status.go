package enums

import "fmt"

// PaymentStatus maps to the payment_status enum in Postgres.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusProcessing,
	PaymentStatusCompleted,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

// String implements fmt.Stringer.
func (s PaymentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical payment_status enum.
func (s PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CountsTowardTotal reports whether a pledge in this state appears in
// read-time stats and public pledge listings ({pending, completed}).
// Distinct from HoldsFunds, which governs the running total.
func (s PaymentStatus) CountsTowardTotal() bool {
	return s == PaymentStatusPending || s == PaymentStatusCompleted
}

// ReleasesFunds reports whether entering this state returns the pledge amount
// to the campaign's remaining balance.
func (s PaymentStatus) ReleasesFunds() bool {
	return s == PaymentStatusFailed || s == PaymentStatusRefunded
}

// HoldsFunds reports whether a pledge in this state is still carried in the
// campaign's running total. Every pledge increments the total on creation and
// keeps holding it until a transition into failed or refunded gives it back.
func (s PaymentStatus) HoldsFunds() bool {
	return !s.ReleasesFunds()
}

// ParsePaymentStatus converts raw input into PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
