package transport

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// AdWordsScope is the OAuth scope of the Google Ads API.
const AdWordsScope = "https://www.googleapis.com/auth/adwords"

// TokenProvider returns an Authorization header value for direct API calls.
type TokenProvider interface {
	Authorization(ctx context.Context) (string, error)
}

// GoogleTokenProvider uses Application Default Credentials. The token source is
// resolved on first use so the proxy flow never needs credentials.
type GoogleTokenProvider struct {
	once   sync.Once
	source oauth2.TokenSource
	err    error
}

func NewGoogleTokenProvider() *GoogleTokenProvider {
	return &GoogleTokenProvider{}
}

func (p *GoogleTokenProvider) Authorization(ctx context.Context) (string, error) {
	p.once.Do(func() {
		p.source, p.err = google.DefaultTokenSource(context.WithoutCancel(ctx), AdWordsScope)
	})
	if p.err != nil {
		return "", fmt.Errorf("google credentials: %w", p.err)
	}
	return authorizationFrom(p.source)
}

// StaticTokenProvider wraps a fixed token source, e.g. oauth2.StaticTokenSource.
type StaticTokenProvider struct {
	Source oauth2.TokenSource
}

func (p StaticTokenProvider) Authorization(context.Context) (string, error) {
	return authorizationFrom(p.Source)
}

func authorizationFrom(source oauth2.TokenSource) (string, error) {
	tok, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("fetch token: %w", err)
	}
	return tok.Type() + " " + tok.AccessToken, nil
}
