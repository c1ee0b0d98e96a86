package orchestration

import (
	"strings"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/events"
)

// WakeWordFilter matches transcripts that contain the wake phrase anywhere,
// ignoring case.
type WakeWordFilter struct {
	phrase string
}

func NewWakeWordFilter(phrase string) WakeWordFilter {
	return WakeWordFilter{phrase: strings.ToLower(strings.TrimSpace(phrase))}
}

// Matches reports whether transcript contains the wake phrase. An empty
// phrase never matches.
func (f WakeWordFilter) Matches(transcript string) bool {
	if f.phrase == "" {
		return false
	}
	return strings.Contains(strings.ToLower(transcript), f.phrase)
}

func (f WakeWordFilter) Phrase() string {
	return f.phrase
}

// handleResult runs on the coordinator queue for every recognition result.
// Only final results seen while listening are considered; on a match the
// session is stopped and the whole trimmed transcript is sent to the reasoner.
func (o *Orchestrator) handleResult(transcript string, isFinal bool) {
	if !isFinal || o.currentState() != StateListening {
		return
	}

	transcript = strings.TrimSpace(transcript)
	if !o.wakeWord.Matches(transcript) {
		return
	}

	wakeCounter.Add(o.baseContext, 1)
	o.transition(StateStoppingForDispatch)
	o.lifecycle.requestStop()

	o.emit(events.NewListeningChanged(false))
	o.emit(events.NewWakeMatched(transcript))
	o.emit(events.NewUserTextUpdated(transcript))

	o.dispatcher.submit(transcript)
}
