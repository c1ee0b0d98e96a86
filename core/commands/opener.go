package commands

import (
	"context"

	"github.com/pkg/browser"
)

// Opener opens a page in a new browsing context.
type Opener interface {
	Open(ctx context.Context, url string) error
}

type OpenerFunc func(ctx context.Context, url string) error

func (f OpenerFunc) Open(ctx context.Context, url string) error { return f(ctx, url) }

// BrowserOpener opens pages in the system's default browser.
type BrowserOpener struct{}

func (BrowserOpener) Open(_ context.Context, url string) error {
	return browser.OpenURL(url)
}
