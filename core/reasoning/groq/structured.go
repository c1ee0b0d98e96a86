package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/commands"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/reasoning"
	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var errNoChoices = errors.New("response has no choices")

func promptJSONSchema[T any](
	ctx context.Context,
	url string,
	apiKey string,
	model string,
	prompt string,
	systemPrompt string,
	outputSchema T,
) (*T, error) {
	ctx, span := tracer.Start(ctx, "prompt llm structured")
	defer span.End()

	fail := func(err error) (*T, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	messages := []message{
		{Role: messageRoleSystem, Content: systemPrompt},
		{Role: messageRoleUser, Content: prompt},
	}

	schema := reflectSchema(outputSchema)
	reqBody := schemaRequestBody{
		Model:    model,
		Messages: messages,
		ResponseFormat: &chatResponseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchema{
				Name:   reflect.TypeOf(outputSchema).Name(),
				Schema: schema,
				Strict: true,
			},
		},
	}

	span.SetAttributes(attribute.String("request.model", model))
	if schemaString, err := schema.MarshalJSON(); err == nil {
		span.SetAttributes(attribute.String("request.schema", string(schemaString)))
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fail(fmt.Errorf("error marshalling JSON: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return fail(fmt.Errorf("error creating HTTP request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	span.SetAttributes(attribute.String("request.url", req.URL.String()))
	client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	resp, err := client.Do(req)
	if err != nil {
		return fail(fmt.Errorf("error sending request: %w", err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, err := io.ReadAll(resp.Body); err == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}
		return fail(fmt.Errorf("non-OK HTTP status: %s", resp.Status))
	}

	var responseBody schemaResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&responseBody); err != nil {
		return fail(fmt.Errorf("error decoding response body: %w", err))
	}
	if len(responseBody.Choices) == 0 {
		return fail(errNoChoices)
	}
	if responseBody.Usage != nil {
		span.SetAttributes(attribute.Int("usage.total_tokens", responseBody.Usage.TotalTokens))
	}

	// models occasionally wrap the JSON in a code fence even in strict mode
	content := reasoning.Unfence(responseBody.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &outputSchema); err != nil {
		return fail(fmt.Errorf("error unmarshalling response: %w: %w", reasoning.ErrMalformedCommand, err))
	}

	return &outputSchema, nil
}

func reflectSchema(outputSchema any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true, Anonymous: true}
	schema := reflector.Reflect(outputSchema)
	schema.Version = ""

	if typeSchema, ok := schema.Properties.Get("type"); ok {
		for _, commandType := range commands.Types() {
			typeSchema.Enum = append(typeSchema.Enum, commandType)
		}
	}
	return schema
}

const (
	messageRoleSystem = "system"
	messageRoleUser   = "user"
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type schemaRequestBody struct {
	Model          string              `json:"model"`
	Messages       []message           `json:"messages"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	// Name identifies the schema in the response.
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Schema      *jsonschema.Schema `json:"schema"`
	// Strict enforces the schema upon the generated content.
	Strict bool `json:"strict"`
}

type schemaResponseBody struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role,omitempty"`
			Content string `json:"content,omitempty"`
		} `json:"message"`
		FinishReason *string `json:"finish_reason,omitempty"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
