package tts

// StateType represents the synthesis lifecycle state.
type StateType int

const (
	// StateIdle indicates no request has been made yet.
	StateIdle StateType = iota
	// StateInFlight indicates a synthesis request is outstanding.
	StateInFlight
	// StateAudioReady indicates the last request produced audio.
	StateAudioReady
	// StateErrorShown indicates the last request failed.
	StateErrorShown
)

// String returns the string representation of the state.
func (s StateType) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFlight:
		return "synthesizing"
	case StateAudioReady:
		return "audio ready"
	case StateErrorShown:
		return "error"
	default:
		return "unknown"
	}
}

// StateMachine manages state transitions for synthesis requests.
type StateMachine struct {
	current     StateType
	transitions map[StateType][]StateType
	onEnter     map[StateType]func()
}

// NewStateMachine creates a new state machine with valid transitions.
// Overlapping requests are allowed, so in-flight may re-enter itself.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateIdle,
		transitions: map[StateType][]StateType{
			StateIdle:       {StateInFlight},
			StateInFlight:   {StateInFlight, StateAudioReady, StateErrorShown},
			StateAudioReady: {StateInFlight, StateIdle},
			StateErrorShown: {StateInFlight, StateIdle},
		},
		onEnter: make(map[StateType]func()),
	}
}

// Transition attempts to transition to the specified state.
func (sm *StateMachine) Transition(to StateType) bool {
	valid := false
	for _, state := range sm.transitions[sm.current] {
		if state == to {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}

	sm.current = to

	if enterFn, ok := sm.onEnter[to]; ok && enterFn != nil {
		enterFn()
	}
	return true
}

// Current returns the current state.
func (sm *StateMachine) Current() StateType {
	return sm.current
}

// OnEnter registers a callback for entering a state.
func (sm *StateMachine) OnEnter(state StateType, fn func()) {
	sm.onEnter[state] = fn
}
