package wifi

// State is the manager's view of network connectivity.
type State int

const (
	// StateDisconnected is the initial state, and the state after a lost link is detected.
	StateDisconnected State = iota

	// StateConnecting means an attempt sequence is in progress.
	StateConnecting

	// StateConnected means the last attempt sequence succeeded and the link has not been seen down since.
	StateConnected

	// StateFailed means the last attempt sequence exhausted its retry budget.
	StateFailed
)

// UnassignedAddress is returned by Address whenever the link is not connected.
const UnassignedAddress = "0.0.0.0"

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Recorder receives connection lifecycle observations, typically for metrics.
// ObserveState follows the held State; ObserveLinkUp follows every live check,
// so it also reports a link that came back without a reconnect.
type Recorder interface {
	ObserveAttempt()
	ObserveResult(connected bool)
	ObserveState(state string)
	ObserveLinkUp(up bool)
}

type noopRecorder struct{}

func (noopRecorder) ObserveAttempt()     {}
func (noopRecorder) ObserveResult(bool)  {}
func (noopRecorder) ObserveState(string) {}
func (noopRecorder) ObserveLinkUp(bool)  {}
