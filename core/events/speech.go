package events

const (
	KindUtteranceStarted Kind = "speech.utterance_started"
	KindUtteranceEnded   Kind = "speech.utterance_ended"
)

type UtteranceStarted struct {
	Base
	UtteranceID string
	Text        string
}

func NewUtteranceStarted(utteranceID, text string) UtteranceStarted {
	return UtteranceStarted{Base: NewBase(KindUtteranceStarted), UtteranceID: utteranceID, Text: text}
}

type UtteranceEnded struct {
	Base
	UtteranceID string
}

func NewUtteranceEnded(utteranceID string) UtteranceEnded {
	return UtteranceEnded{Base: NewBase(KindUtteranceEnded), UtteranceID: utteranceID}
}
