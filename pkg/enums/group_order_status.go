package enums

import "fmt"

// GroupOrderStatus tracks the lifecycle of a group order.
type GroupOrderStatus string

const (
	GroupOrderStatusDraft     GroupOrderStatus = "DRAFT"
	GroupOrderStatusOpen      GroupOrderStatus = "OPEN"
	GroupOrderStatusClosed    GroupOrderStatus = "CLOSED"
	GroupOrderStatusDelivered GroupOrderStatus = "DELIVERED"
)

// Lifecycle order. Transitions are strictly forward, one step at a time.
var groupOrderStatusSequence = []GroupOrderStatus{
	GroupOrderStatusDraft,
	GroupOrderStatusOpen,
	GroupOrderStatusClosed,
	GroupOrderStatusDelivered,
}

// String implements fmt.Stringer.
func (s GroupOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known GroupOrderStatus.
func (s GroupOrderStatus) IsValid() bool {
	for _, candidate := range groupOrderStatusSequence {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether target is the immediate next lifecycle step.
func (s GroupOrderStatus) CanTransitionTo(target GroupOrderStatus) bool {
	for i, candidate := range groupOrderStatusSequence {
		if candidate != s {
			continue
		}
		return i+1 < len(groupOrderStatusSequence) && groupOrderStatusSequence[i+1] == target
	}
	return false
}

// ParseGroupOrderStatus converts raw input into a GroupOrderStatus.
func ParseGroupOrderStatus(value string) (GroupOrderStatus, error) {
	for _, candidate := range groupOrderStatusSequence {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid group order status %q", value)
}
