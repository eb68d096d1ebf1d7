package booking

// Status represents where a booking is in its lifecycle.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// validTransitions defines the lifecycle state machine. Accept/reject are a
// one-shot host decision; cancellation stays open for any non-terminal state.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:  {StatusCancelled},
	StatusRejected:  {},
	StatusCancelled: {},
}

func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// Active reports whether the booking still holds (or may come to hold) its
// dates; only active bookings participate in collision checks.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusAccepted
}

func (s Status) String() string {
	return string(s)
}
