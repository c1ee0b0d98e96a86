package commands

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Action performs the side effect of a command.
type Action func(ctx context.Context, command Command) error

// Registry maps command kinds to actions. A missing entry is not an error.
type Registry struct {
	actions map[Kind]Action
}

func NewRegistry() *Registry {
	return &Registry{actions: map[Kind]Action{}}
}

// NewDefaultRegistry registers the URL actions for every kind in the URL
// table, opening pages through opener.
func NewDefaultRegistry(opener Opener) *Registry {
	r := NewRegistry()
	for kind := range urlTemplates {
		r.Register(kind, OpenURLAction(kind, opener))
	}
	return r
}

// Register sets the action for kind. Registration is expected to happen
// before the registry is shared.
func (r *Registry) Register(kind Kind, action Action) {
	if action == nil || kind == KindUnhandled {
		return
	}
	if r.actions == nil {
		r.actions = map[Kind]Action{}
	}
	r.actions[kind] = action
}

func (r *Registry) Lookup(kind Kind) (Action, bool) {
	if r == nil {
		return nil, false
	}
	action, ok := r.actions[kind]
	return action, ok
}

// urlTemplates holds the page each kind opens. {q} is replaced with the
// percent-encoded user input.
var urlTemplates = map[Kind]string{
	KindGoogleSearch:   "https://www.google.com/search?q={q}",
	KindCalculatorOpen: "https://www.google.com/search?q=calculator",
	KindInstagramOpen:  "https://www.instagram.com/",
	KindFacebookOpen:   "https://www.facebook.com/",
	KindWeatherShow:    "https://www.google.com/search?q=weather",
	KindYoutubeSearch:  "https://www.youtube.com/results?search_query={q}",
	KindYoutubePlay:    "https://www.youtube.com/results?search_query={q}",
}

// ResolveURL returns the page a command of the given kind opens.
func ResolveURL(kind Kind, userInput string) (string, bool) {
	template, ok := urlTemplates[kind]
	if !ok {
		return "", false
	}
	return strings.ReplaceAll(template, "{q}", encodeQueryComponent(userInput)), true
}

// uriComponentUnreserved restores the characters encodeURIComponent leaves
// as they are but url.QueryEscape encodes.
var uriComponentUnreserved = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeQueryComponent percent-encodes s for use as a query value the way
// encodeURIComponent does.
func encodeQueryComponent(s string) string {
	return uriComponentUnreserved.Replace(url.QueryEscape(s))
}

func OpenURLAction(kind Kind, opener Opener) Action {
	return func(ctx context.Context, command Command) error {
		target, ok := ResolveURL(kind, command.UserInput)
		if !ok {
			return fmt.Errorf("no url for command type %q", kind)
		}
		if err := opener.Open(ctx, target); err != nil {
			return fmt.Errorf("failed to open %s: %w", target, err)
		}
		return nil
	}
}
