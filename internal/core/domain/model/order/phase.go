package order

// Phase tells whether a transition hook runs for the status being left or the
// status being entered.
type Phase int

const (
	PhaseExit Phase = iota + 1
	PhaseEnter
)

func (p Phase) String() string {
	switch p {
	case PhaseExit:
		return "exit"
	case PhaseEnter:
		return "enter"
	default:
		return "unknown"
	}
}
