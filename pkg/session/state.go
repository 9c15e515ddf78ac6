package session

// ConnState tracks the lifecycle of the managed channel.
type ConnState int

const (
	StateIdle ConnState = iota
	StateConnecting
	StateOpen
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Status is the connectivity view exposed to hosts.
type Status string

const (
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// Indicator is derived from ConnState; it is never stored independently.
// ManualReconnectAvailable is always true: the automatic attempt cap does not
// apply to ForceReconnect.
type Indicator struct {
	Status                   Status
	ManualReconnectAvailable bool
}

func indicatorFor(s ConnState) Indicator {
	ind := Indicator{ManualReconnectAvailable: true}
	switch s {
	case StateOpen:
		ind.Status = StatusConnected
	case StateClosed:
		ind.Status = StatusDisconnected
	default:
		ind.Status = StatusConnecting
	}
	return ind
}
