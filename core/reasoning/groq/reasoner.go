// Package groq reasons about transcripts with a Groq hosted model, asking for
// the command as structured JSON output.
package groq

import (
	"context"
	"fmt"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/commands"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/reasoning"
)

const (
	defaultURL   = "https://api.groq.com/openai/v1/chat/completions"
	DefaultModel = "openai/gpt-oss-20b"
)

type Reasoner struct {
	apiKey  string
	model   string
	url     string
	persona reasoning.Persona
}

type ReasonerOption func(*Reasoner)

func WithModel(model string) ReasonerOption {
	return func(r *Reasoner) {
		if model != "" {
			r.model = model
		}
	}
}

func WithURL(url string) ReasonerOption {
	return func(r *Reasoner) {
		if url != "" {
			r.url = url
		}
	}
}

func WithPersona(persona reasoning.Persona) ReasonerOption {
	return func(r *Reasoner) { r.persona = persona }
}

func NewReasoner(apiKey string, opts ...ReasonerOption) *Reasoner {
	r := &Reasoner{
		apiKey: apiKey,
		model:  DefaultModel,
		url:    defaultURL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reasoner) Reason(ctx context.Context, transcript string) (*commands.Command, error) {
	systemPrompt, err := reasoning.SystemPrompt(r.persona)
	if err != nil {
		return nil, err
	}

	answer, err := promptJSONSchema(ctx, r.url, r.apiKey, r.model, transcript, systemPrompt, commandSchema{})
	if err != nil {
		return nil, fmt.Errorf("failed to prompt groq: %w", err)
	}
	if answer.Type == "" {
		return nil, fmt.Errorf("%w: missing type", reasoning.ErrMalformedCommand)
	}

	return &commands.Command{
		Type:      answer.Type,
		UserInput: answer.UserInput,
		Response:  answer.Response,
	}, nil
}

// commandSchema is the output schema sent to the model. The allowed types are
// filled in from the command table when the schema is reflected.
type commandSchema struct {
	Type      string `json:"type" jsonschema:"description=Intent of the user"`
	UserInput string `json:"userInput" jsonschema:"description=What the user asked for without the assistant name"`
	Response  string `json:"response" jsonschema:"description=Short reply to read out loud"`
}
