// OAuth token provider for the YouTube Data API
//
// Credentials are provisioned out of band as a long-lived refresh token; the
// provider performs silent renewal only, never a browser consent flow.
package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/desertthunder/tagsync/internal/shared"
	"golang.org/x/oauth2"
)

const (
	googleTokenURL = "https://oauth2.googleapis.com/token"

	// youtubeScope grants tag updates on the channel's own videos.
	youtubeScope = "https://www.googleapis.com/auth/youtube.force-ssl"

	// expiryMargin is how long before expiry a cached token stops being served.
	expiryMargin = 60 * time.Second
)

// TokenProvider exchanges a configured refresh token for access tokens at the
// Google token endpoint and caches the result until shortly before expiry.
//
// It implements [oauth2.TokenSource] so the YouTube client consumes it
// directly. A mutex serializes renewal: callers arriving during a refresh
// block and then reuse the fresh token instead of issuing duplicate exchanges.
type TokenProvider struct {
	config       *oauth2.Config
	refreshToken string
	httpClient   *http.Client

	mu    sync.Mutex
	token *oauth2.Token
	now   func() time.Time
}

// NewTokenProvider creates a provider for the given OAuth client credentials
// and refresh token.
func NewTokenProvider(clientID, clientSecret, refreshToken string) (*TokenProvider, error) {
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("%w: youtube client_id, client_secret, and refresh_token", shared.ErrMissingCredentials)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       []string{youtubeScope},
		Endpoint: oauth2.Endpoint{
			TokenURL: googleTokenURL,
		},
	}

	return &TokenProvider{
		config:       config,
		refreshToken: refreshToken,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		now:          time.Now,
	}, nil
}

// Token returns a valid access token, refreshing when the cache is empty or
// inside the expiry margin. Implements [oauth2.TokenSource].
func (p *TokenProvider) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != nil && p.token.Expiry.Sub(p.now()) > expiryMargin {
		tok := *p.token
		return &tok, nil
	}

	tok, err := p.refresh()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	// Google occasionally rotates refresh tokens on exchange.
	if tok.RefreshToken != "" {
		p.refreshToken = tok.RefreshToken
	}
	p.token = tok

	cp := *tok
	return &cp, nil
}

// Invalidate drops the cached token so the next Token call refreshes.
//
// The update client calls this after the platform rejects credentials,
// before its single retry.
func (p *TokenProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = nil
}

// refresh exchanges the refresh token at the token endpoint. The caller holds
// the mutex.
func (p *TokenProvider) refresh() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	source := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: p.refreshToken})
	return source.Token()
}
