package domain

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPendingPayment  Status = "PENDING_PAYMENT"
	StatusPendingShipment Status = "PENDING_SHIPMENT"
	StatusPendingReceipt  Status = "PENDING_RECEIPT"
	StatusCompleted       Status = "COMPLETED"
	StatusCancelled       Status = "CANCELLED"
)

// Event names a lifecycle trigger invoked by the surrounding system.
type Event string

const (
	EventPay     Event = "pay"
	EventShip    Event = "ship"
	EventReceive Event = "receive"
	EventCancel  Event = "cancel"

	// EventAmendReceiver is not a status transition; it names the
	// receiver-correction operation for error reporting.
	EventAmendReceiver Event = "amend receiver of"
)

var transitions = map[Event]struct{ From, To Status }{
	EventPay:     {StatusPendingPayment, StatusPendingShipment},
	EventShip:    {StatusPendingShipment, StatusPendingReceipt},
	EventReceive: {StatusPendingReceipt, StatusCompleted},
	EventCancel:  {StatusPendingPayment, StatusCancelled},
}

// Transition returns the single legal from/to pair for an event. Events are
// never legal from more than one status, so an order in any other status
// must reject the event.
func Transition(e Event) (from, to Status, ok bool) {
	t, ok := transitions[e]
	return t.From, t.To, ok
}

// Terminal reports whether no further transition is defined from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingPayment, StatusPendingShipment, StatusPendingReceipt, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
