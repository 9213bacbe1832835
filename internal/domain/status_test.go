package domain

import "testing"

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		event Event
		from  Status
		to    Status
	}{
		{EventPay, StatusPendingPayment, StatusPendingShipment},
		{EventShip, StatusPendingShipment, StatusPendingReceipt},
		{EventReceive, StatusPendingReceipt, StatusCompleted},
		{EventCancel, StatusPendingPayment, StatusCancelled},
	}
	for _, tc := range cases {
		from, to, ok := Transition(tc.event)
		if !ok {
			t.Fatalf("expected %s to be a known event", tc.event)
		}
		if from != tc.from || to != tc.to {
			t.Fatalf("event %s: expected %s -> %s, got %s -> %s", tc.event, tc.from, tc.to, from, to)
		}
	}
}

func TestTransitionUnknownEvent(t *testing.T) {
	if _, _, ok := Transition(EventAmendReceiver); ok {
		t.Fatalf("amend receiver must not be a status transition")
	}
	if _, _, ok := Transition(Event("refund")); ok {
		t.Fatalf("unknown event must not resolve")
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		if !s.Terminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
	}
	for _, s := range []Status{StatusPendingPayment, StatusPendingShipment, StatusPendingReceipt} {
		if s.Terminal() {
			t.Fatalf("expected %s to be non-terminal", s)
		}
	}
}

func TestValid(t *testing.T) {
	if !StatusPendingPayment.Valid() {
		t.Fatalf("expected PENDING_PAYMENT to be valid")
	}
	if Status("SHIPPED").Valid() {
		t.Fatalf("expected unknown status to be invalid")
	}
}
