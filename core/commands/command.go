package commands

import "github.com/google/uuid"

// Command is the structured answer of the reasoning service for one
// transcript. It is dispatched exactly once.
type Command struct {
	// ID is assigned on receipt and only used for tracing.
	ID string `json:"-"`

	Type      string `json:"type"`
	UserInput string `json:"userInput"`
	Response  string `json:"response"`
}

func New(commandType, userInput, response string) *Command {
	return &Command{
		ID:        uuid.NewString(),
		Type:      commandType,
		UserInput: userInput,
		Response:  response,
	}
}

func (c Command) Kind() Kind {
	return ParseKind(c.Type)
}
