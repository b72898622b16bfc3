package enums

import "fmt"

// PaymentStatus is the manually toggled payment state of a member order.
type PaymentStatus string

const (
	PaymentStatusNotPaid PaymentStatus = "NOT_PAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusNotPaid,
	PaymentStatusPartial,
	PaymentStatusPaid,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// Next returns the following state in the NOT_PAID → PARTIAL → PAID cycle.
func (p PaymentStatus) Next() PaymentStatus {
	switch p {
	case PaymentStatusNotPaid:
		return PaymentStatusPartial
	case PaymentStatusPartial:
		return PaymentStatusPaid
	default:
		return PaymentStatusNotPaid
	}
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
