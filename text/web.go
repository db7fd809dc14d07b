package text

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/httpclient"
)

// WebFontSystem is the browser text system. Besides the FontSystem
// operations it can fetch fonts by URL through an HTTP client.
type WebFontSystem struct {
	*FontSystem
	client httpclient.Client
}

// NewWebFontSystem creates a web text system with the Go Regular font
// registered. A nil client fails every URL load with
// httpclient.ErrNoClient.
func NewWebFontSystem(locale language.Tag, client httpclient.Client) (*WebFontSystem, error) {
	fs, err := newDefaultFontSystem(locale)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = httpclient.FakeClient{}
	}
	return &WebFontSystem{FontSystem: fs, client: client}, nil
}

// LoadFontFromURL fetches a TTF/OTF font and registers it. Non-2xx
// responses fail with an *httpclient.StatusError.
func (s *WebFontSystem) LoadFontFromURL(ctx context.Context, url string) error {
	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("text: fetch font %s: %w", url, err)
	}
	if err := resp.CheckStatus(url); err != nil {
		return fmt.Errorf("text: fetch font: %w", err)
	}
	if err := s.AddFonts([][]byte{resp.Body}); err != nil {
		return fmt.Errorf("text: font %s: %w", url, err)
	}
	ggweb.Logger().Info("text: font loaded", "url", url, "bytes", len(resp.Body))
	return nil
}

var (
	_ TextSystem    = (*WebFontSystem)(nil)
	_ URLFontLoader = (*WebFontSystem)(nil)
)
