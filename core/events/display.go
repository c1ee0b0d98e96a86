package events

const (
	KindUserTextUpdated      Kind = "display.user_text_updated"
	KindAssistantTextUpdated Kind = "display.assistant_text_updated"
)

type UserTextUpdated struct {
	Base
	Text string
}

func NewUserTextUpdated(text string) UserTextUpdated {
	return UserTextUpdated{Base: NewBase(KindUserTextUpdated), Text: text}
}

type AssistantTextUpdated struct {
	Base
	Text string
}

func NewAssistantTextUpdated(text string) AssistantTextUpdated {
	return AssistantTextUpdated{Base: NewBase(KindAssistantTextUpdated), Text: text}
}
