package gemini

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/reasoning"
)

func newGeminiServer(t *testing.T, answer string) (*httptest.Server, *map[string]any) {
	t.Helper()

	captured := map[string]any{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent") {
			t.Errorf("expected generateContent call, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("expected JSON request, got %v", err)
		}

		text, _ := json.Marshal(answer)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":` + string(text) + `}]},"finishReason":"STOP"}]}`))
	}))
	t.Cleanup(server.Close)
	return server, &captured
}

func TestReasonUsesResponseSchema(t *testing.T) {
	server, captured := newGeminiServer(t, `{"type":"google-search","userInput":"go generics","response":"Here's what I found"}`)

	reasoner, err := NewReasoner(t.Context(), "test-key", WithBaseURL(server.URL), WithModel("test-model"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	command, err := reasoner.Reason(t.Context(), "jarvis google go generics")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if command.Type != "google-search" || command.UserInput != "go generics" {
		t.Fatalf("expected decoded command, got %+v", command)
	}

	request, _ := json.Marshal(*captured)
	for _, want := range []string{`"application/json"`, `"youtube-search"`, "jarvis google go generics", "named Jarvis"} {
		if !strings.Contains(string(request), want) {
			t.Fatalf("expected request to contain %s, got %s", want, request)
		}
	}
}

func TestReasonRejectsMalformedAnswer(t *testing.T) {
	server, _ := newGeminiServer(t, "I am not sure what you mean")

	reasoner, err := NewReasoner(t.Context(), "test-key", WithBaseURL(server.URL), WithModel("test-model"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = reasoner.Reason(t.Context(), "jarvis hmm")
	if !errors.Is(err, reasoning.ErrMalformedCommand) {
		t.Fatalf("expected malformed command error, got %v", err)
	}
}

func TestCommandSchemaListsEveryType(t *testing.T) {
	schema := commandSchema()

	if got := len(schema.Properties["type"].Enum); got != 12 {
		t.Fatalf("expected 12 command types, got %d", got)
	}
	if len(schema.Required) != 3 {
		t.Fatalf("expected all fields to be required, got %v", schema.Required)
	}
}
