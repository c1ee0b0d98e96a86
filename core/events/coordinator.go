package events

const (
	// KindStateChanged identifies coordinator state transitions.
	KindStateChanged Kind = "coordinator.state_changed"
)

// StateChanged carries the previous and current coordinator state names.
type StateChanged struct {
	Base
	From string
	To   string
}

// NewStateChanged creates a state transition event.
func NewStateChanged(from, to string) StateChanged {
	return StateChanged{Base: NewBase(KindStateChanged), From: from, To: to}
}
