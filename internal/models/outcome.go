package models

// Sink names used in logs and submission history.
const (
	SinkQueue  = "queue"
	SinkLedger = "ledger"
)

// Outcome is the non-error result of recording an entity into a sink.
type Outcome int

const (
	Added Outcome = iota + 1
	AlreadyPresent
	WrongYear
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case AlreadyPresent:
		return "already_present"
	case WrongYear:
		return "wrong_year"
	default:
		return ""
	}
}
