package groq

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/reasoning"
)

type capturedRequest struct {
	Model          string    `json:"model"`
	Messages       []message `json:"messages"`
	ResponseFormat struct {
		Type       string `json:"type"`
		JSONSchema struct {
			Name   string          `json:"name"`
			Strict bool            `json:"strict"`
			Schema json.RawMessage `json:"schema"`
		} `json:"json_schema"`
	} `json:"response_format"`
}

func newGroqServer(t *testing.T, content string, captured *capturedRequest) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer token, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
			t.Errorf("expected JSON request, got %v", err)
		}

		answer, _ := json.Marshal(content)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":` + string(answer) + `}}],"usage":{"total_tokens":42}}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestReasonRequestsStructuredCommand(t *testing.T) {
	var captured capturedRequest
	server := newGroqServer(t, `{"type":"youtube-search","userInput":"cats","response":"Here are videos"}`, &captured)

	reasoner := NewReasoner("test-key",
		WithURL(server.URL),
		WithModel("test-model"),
		WithPersona(reasoning.Persona{AssistantName: "Jarvis", UserName: "Asha"}),
	)
	command, err := reasoner.Reason(t.Context(), "jarvis search cats on youtube")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if command.Type != "youtube-search" || command.UserInput != "cats" || command.Response != "Here are videos" {
		t.Fatalf("expected decoded command, got %+v", command)
	}

	if captured.Model != "test-model" {
		t.Fatalf("expected model test-model, got %q", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != messageRoleSystem || captured.Messages[1].Content != "jarvis search cats on youtube" {
		t.Fatalf("expected system prompt and transcript, got %+v", captured.Messages)
	}
	if !strings.Contains(captured.Messages[0].Content, "named Jarvis") {
		t.Fatalf("expected persona prompt, got %q", captured.Messages[0].Content)
	}
	if captured.ResponseFormat.Type != "json_schema" || !captured.ResponseFormat.JSONSchema.Strict {
		t.Fatalf("expected strict json schema response format, got %+v", captured.ResponseFormat)
	}
	schema := string(captured.ResponseFormat.JSONSchema.Schema)
	for _, want := range []string{`"userInput"`, `"youtube-play"`, `"weather-show"`} {
		if !strings.Contains(schema, want) {
			t.Fatalf("expected schema to contain %s, got %s", want, schema)
		}
	}
}

func TestReasonUnwrapsFencedAnswer(t *testing.T) {
	var captured capturedRequest
	server := newGroqServer(t, "```json\n{\"type\":\"get-day\",\"userInput\":\"day\",\"response\":\"Today is Tuesday\"}\n```", &captured)

	command, err := NewReasoner("test-key", WithURL(server.URL)).Reason(t.Context(), "jarvis what day is it")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if command.Type != "get-day" || command.Response != "Today is Tuesday" {
		t.Fatalf("expected decoded command, got %+v", command)
	}
	if captured.Model != DefaultModel {
		t.Fatalf("expected default model, got %q", captured.Model)
	}
}

func TestReasonRejectsMalformedAnswer(t *testing.T) {
	var captured capturedRequest
	server := newGroqServer(t, `{"response":"no type here"}`, &captured)

	_, err := NewReasoner("test-key", WithURL(server.URL)).Reason(t.Context(), "jarvis hello")
	if !errors.Is(err, reasoning.ErrMalformedCommand) {
		t.Fatalf("expected malformed command error, got %v", err)
	}
}

func TestReasonReportsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewReasoner("test-key", WithURL(server.URL)).Reason(t.Context(), "jarvis hello")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status error, got %v", err)
	}
}
