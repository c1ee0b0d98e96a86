package orchestration

import events "github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts OrchestrateOptions) eventEmitter {
	return func(event events.Event) {
		if opts.onEvent != nil {
			opts.onEvent(event)
		}

		switch typedEvent := event.(type) {
		case events.StateChanged:
			if opts.onStateChanged != nil {
				from, _ := parseState(typedEvent.From)
				to, _ := parseState(typedEvent.To)
				opts.onStateChanged(from, to)
			}
		case events.ListeningChanged:
			if opts.onListeningChanged != nil {
				opts.onListeningChanged(typedEvent.Listening)
			}
		case events.UserTextUpdated:
			if opts.onUserText != nil {
				opts.onUserText(typedEvent.Text)
			}
		case events.AssistantTextUpdated:
			if opts.onAssistantText != nil {
				opts.onAssistantText(typedEvent.Text)
			}
		case events.CommandReceived:
			if opts.onCommand != nil {
				opts.onCommand(typedEvent.Command)
			}
		case events.CommandFailed:
			if opts.onError != nil {
				opts.onError(typedEvent.Err)
			}
		}
	}
}
