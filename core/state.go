package orchestration

// State is the single coordinator state. Listening and Speaking are distinct
// values, so the coordinator can never be in both at once.
type State int32

const (
	StateIdle State = iota
	StateListening
	// StateStoppingForDispatch is held from a wake match until the session
	// confirms it has stopped.
	StateStoppingForDispatch
	// StateBackoffWait is held while a restart is scheduled.
	StateBackoffWait
	StateSpeaking
	StateClosed
)

var stateNames = map[State]string{
	StateIdle:                "idle",
	StateListening:           "listening",
	StateStoppingForDispatch: "stopping_for_dispatch",
	StateBackoffWait:         "backoff_wait",
	StateSpeaking:            "speaking",
	StateClosed:              "closed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

var allowedTransitions = map[State][]State{
	StateIdle:                {StateListening, StateBackoffWait, StateSpeaking, StateClosed},
	StateListening:           {StateStoppingForDispatch, StateBackoffWait, StateSpeaking, StateClosed},
	StateStoppingForDispatch: {StateIdle, StateBackoffWait, StateSpeaking, StateClosed},
	StateBackoffWait:         {StateIdle, StateListening, StateSpeaking, StateClosed},
	StateSpeaking:            {StateIdle, StateClosed},
	StateClosed:              {},
}

func canTransition(from, to State) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func parseState(name string) (State, bool) {
	for state, stateName := range stateNames {
		if stateName == name {
			return state, true
		}
	}
	return 0, false
}
