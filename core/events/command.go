package events

import "github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/commands"

const (
	KindCommandReceived Kind = "command.received"
	KindCommandFailed   Kind = "command.failed"
)

type CommandReceived struct {
	Base
	Command commands.Command
}

func NewCommandReceived(command commands.Command) CommandReceived {
	return CommandReceived{Base: NewBase(KindCommandReceived), Command: command}
}

// CommandFailed carries the error returned by the reasoner for a transcript.
type CommandFailed struct {
	Base
	Transcript string
	Err        error
}

func NewCommandFailed(transcript string, err error) CommandFailed {
	return CommandFailed{Base: NewBase(KindCommandFailed), Transcript: transcript, Err: err}
}
