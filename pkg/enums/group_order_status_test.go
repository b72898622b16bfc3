package enums

import "testing"

func TestGroupOrderStatusTransitionsAreForwardOnly(t *testing.T) {
	allowed := map[GroupOrderStatus]GroupOrderStatus{
		GroupOrderStatusDraft:  GroupOrderStatusOpen,
		GroupOrderStatusOpen:   GroupOrderStatusClosed,
		GroupOrderStatusClosed: GroupOrderStatusDelivered,
	}

	all := []GroupOrderStatus{
		GroupOrderStatusDraft,
		GroupOrderStatusOpen,
		GroupOrderStatusClosed,
		GroupOrderStatusDelivered,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from] == to
			if got := from.CanTransitionTo(to); got != want {
				t.Fatalf("%s -> %s: expected %v, got %v", from, to, want, got)
			}
		}
	}
}

func TestGroupOrderStatusDeliveredIsTerminal(t *testing.T) {
	for _, to := range []GroupOrderStatus{
		GroupOrderStatusDraft,
		GroupOrderStatusOpen,
		GroupOrderStatusClosed,
		GroupOrderStatusDelivered,
	} {
		if GroupOrderStatusDelivered.CanTransitionTo(to) {
			t.Fatalf("DELIVERED should not transition to %s", to)
		}
	}
}

func TestParseGroupOrderStatus(t *testing.T) {
	if _, err := ParseGroupOrderStatus("OPEN"); err != nil {
		t.Fatalf("OPEN should parse: %v", err)
	}
	if _, err := ParseGroupOrderStatus("open"); err == nil {
		t.Fatalf("statuses are case sensitive")
	}
	if _, err := ParseGroupOrderStatus("ARCHIVED"); err == nil {
		t.Fatalf("unknown status should fail")
	}
}

func TestPaymentStatusCycle(t *testing.T) {
	if PaymentStatusNotPaid.Next() != PaymentStatusPartial {
		t.Fatalf("NOT_PAID should advance to PARTIAL")
	}
	if PaymentStatusPartial.Next() != PaymentStatusPaid {
		t.Fatalf("PARTIAL should advance to PAID")
	}
	if PaymentStatusPaid.Next() != PaymentStatusNotPaid {
		t.Fatalf("PAID should cycle back to NOT_PAID")
	}
}
