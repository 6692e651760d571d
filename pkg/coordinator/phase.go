package coordinator

// Phase is a coordinator's lifecycle state.
//
//	Uninitialized -> Active -> ClosingInteractive | ClosingSystem -> Disposed
type Phase int32

const (
	Uninitialized Phase = iota
	Active
	ClosingInteractive
	ClosingSystem
	Disposed
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case ClosingInteractive:
		return "closing(interactive)"
	case ClosingSystem:
		return "closing(system)"
	case Disposed:
		return "disposed"
	}
	return "unknown"
}
