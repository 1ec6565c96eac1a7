package turnip

// State is the lifecycle state of a task.
type State uint32

const (
	// Spawned, waiting for its first Tick.
	Pending State = iota
	// Currently executing its script.
	Running
	// Parked on a suspension point.
	Suspended
	// The script returned without error.
	Completed
	// Cancelled by itself, a parent, a wait, or the host.
	Cancelled
	// The script returned an error or panicked.
	Faulted
)

var stateNames = [...]string{
	Pending:   "pending",
	Running:   "running",
	Suspended: "suspended",
	Completed: "completed",
	Cancelled: "cancelled",
	Faulted:   "faulted",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// IsTerminal reports whether s is Completed, Cancelled or Faulted.
func (s State) IsTerminal() bool {
	return s == Completed || s == Cancelled || s == Faulted
}
