package speechtotext

import "context"

// Recognizer is a continuous speech recognition session that can be started
// and stopped repeatedly. Session events are delivered through the callbacks
// in [RecognitionOptions].
type Recognizer interface {
	// Start begins a new session. It returns [ErrAlreadyActive] if a session
	// is still running.
	Start(ctx context.Context, opts ...RecognitionOption) error
	// Stop halts the active session. EndCallback follows once it has stopped.
	Stop() error
}
