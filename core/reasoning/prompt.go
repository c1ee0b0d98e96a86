// Package reasoning holds what the reasoner backends share: the assistant
// persona prompt and the parsing of the command the model answers with.
package reasoning

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/commands"
)

//go:embed persona.tmpl
var personaTemplate string

var persona = template.Must(template.New("persona").Parse(personaTemplate))

var ErrMalformedCommand = errors.New("malformed command")

type Persona struct {
	AssistantName string
	CreatorName   string
	UserName      string
}

const DefaultCreatorName = "Danish"

// SystemPrompt renders the instructions given to a model before the
// transcript.
func SystemPrompt(p Persona) (string, error) {
	if p.AssistantName == "" {
		p.AssistantName = "Jarvis"
	}
	if p.CreatorName == "" {
		p.CreatorName = DefaultCreatorName
	}

	var prompt bytes.Buffer
	if err := persona.Execute(&prompt, p); err != nil {
		return "", fmt.Errorf("failed to render persona prompt: %w", err)
	}
	return prompt.String(), nil
}

// ParseCommand decodes a model answer into a command. Answers wrapped in a
// markdown code fence are unwrapped first.
func ParseCommand(content string) (*commands.Command, error) {
	content = Unfence(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty answer", ErrMalformedCommand)
	}

	var command commands.Command
	if err := json.Unmarshal([]byte(content), &command); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCommand, err)
	}
	if command.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedCommand)
	}
	return &command, nil
}

// Unfence strips a markdown code fence, or any prose around a JSON object.
func Unfence(content string) string {
	split := strings.Split(content, "```")
	if len(split) > 2 {
		content = split[1]
		if rest, ok := strings.CutPrefix(content, "json"); ok {
			content = rest
		}
	} else if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start >= 0 && end > start {
		content = content[start : end+1]
	}
	return strings.TrimSpace(content)
}
