package events

const (
	KindListeningChanged  Kind = "recognition.listening_changed"
	KindRecognitionFailed Kind = "recognition.failed"
	KindWakeMatched       Kind = "recognition.wake_matched"
)

type ListeningChanged struct {
	Base
	Listening bool
}

func NewListeningChanged(listening bool) ListeningChanged {
	return ListeningChanged{Base: NewBase(KindListeningChanged), Listening: listening}
}

// RecognitionFailed carries the error kind reported by the recognition
// session.
type RecognitionFailed struct {
	Base
	Reason string
}

func NewRecognitionFailed(reason string) RecognitionFailed {
	return RecognitionFailed{Base: NewBase(KindRecognitionFailed), Reason: reason}
}

type WakeMatched struct {
	Base
	Transcript string
}

func NewWakeMatched(transcript string) WakeMatched {
	return WakeMatched{Base: NewBase(KindWakeMatched), Transcript: transcript}
}
