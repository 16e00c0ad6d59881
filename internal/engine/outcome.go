package engine

// Outcome describes what a single request did.
type Outcome int

const (
	Ignored Outcome = iota
	Blocked
	Skipped
	Duplicate
	Spawned
	Unresolved
	Unrenderable
	Emitted
	Exhausted
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Blocked:
		return "blocked"
	case Skipped:
		return "skipped"
	case Duplicate:
		return "duplicate"
	case Spawned:
		return "spawned"
	case Unresolved:
		return "unresolved"
	case Unrenderable:
		return "unrenderable"
	case Emitted:
		return "emitted"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}
