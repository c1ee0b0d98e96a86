// Package gemini reasons about transcripts with Gemini, constraining the
// answer with a response schema.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/commands"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/reasoning"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

var errEmptyAnswer = errors.New("gemini returned no candidates")

type Reasoner struct {
	client  *genai.Client
	model   string
	persona reasoning.Persona
}

type reasonerConfig struct {
	model   string
	baseURL string
	persona reasoning.Persona
}

type ReasonerOption func(*reasonerConfig)

func WithModel(model string) ReasonerOption {
	return func(c *reasonerConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(baseURL string) ReasonerOption {
	return func(c *reasonerConfig) { c.baseURL = baseURL }
}

func WithPersona(persona reasoning.Persona) ReasonerOption {
	return func(c *reasonerConfig) { c.persona = persona }
}

func NewReasoner(ctx context.Context, apiKey string, opts ...ReasonerOption) (*Reasoner, error) {
	config := reasonerConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(&config)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		HTTPOptions: genai.HTTPOptions{BaseURL: config.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Reasoner{client: client, model: config.model, persona: config.persona}, nil
}

func (r *Reasoner) Reason(ctx context.Context, transcript string) (*commands.Command, error) {
	ctx, span := tracer.Start(ctx, "prompt gemini")
	defer span.End()
	span.SetAttributes(attribute.String("request.model", r.model))

	fail := func(err error) (*commands.Command, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	systemPrompt, err := reasoning.SystemPrompt(r.persona)
	if err != nil {
		return fail(err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(systemPrompt)}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    commandSchema(),
	}
	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{genai.NewPartFromText(transcript)}},
	}

	resp, err := r.client.Models.GenerateContent(ctx, r.model, contents, config)
	if err != nil {
		return fail(fmt.Errorf("failed to generate content: %w", err))
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return fail(errEmptyAnswer)
	}

	var answer strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		answer.WriteString(part.Text)
	}
	if reason := resp.Candidates[0].FinishReason; reason != "" && reason != genai.FinishReasonStop {
		logger.Warn("gemini answer did not finish cleanly", "finish_reason", string(reason))
	}

	command, err := reasoning.ParseCommand(answer.String())
	if err != nil {
		return fail(fmt.Errorf("failed to parse gemini answer: %w", err))
	}
	return command, nil
}

func commandSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"type":      {Type: genai.TypeString, Enum: commands.Types(), Description: "Intent of the user"},
			"userInput": {Type: genai.TypeString, Description: "What the user asked for without the assistant name"},
			"response":  {Type: genai.TypeString, Description: "Short reply to read out loud"},
		},
		Required:         []string{"type", "userInput", "response"},
		PropertyOrdering: []string{"type", "userInput", "response"},
	}
}
