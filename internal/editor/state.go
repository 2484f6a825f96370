package editor

type State int

const (
	Idle State = iota
	Running
	SampleShown
	SampleFailed
	Submitting
	AllPassed
	SomeFailed
)

var stateNames = [...]string{
	Idle:         "idle",
	Running:      "running",
	SampleShown:  "sample-shown",
	SampleFailed: "sample-failed",
	Submitting:   "submitting",
	AllPassed:    "all-passed",
	SomeFailed:   "some-failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Pending reports whether a judge call started from this state is still
// outstanding.
func (s State) Pending() bool {
	return s == Running || s == Submitting
}
