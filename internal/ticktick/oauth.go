package ticktick

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// TickTick OAuth2 endpoints.
const (
	authURL  = "https://ticktick.com/oauth/authorize"
	tokenURL = "https://ticktick.com/oauth/token"
)

// Credentials holds everything needed to authenticate against TickTick:
// the OAuth application credentials plus the account username/password for
// the session API.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Username     string
	Password     string
}

// oauthConfig returns the OAuth2 configuration for the TickTick Open API.
func oauthConfig(creds Credentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Scopes:       []string{"tasks:read", "tasks:write"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}
}

// AuthCodeURL returns the URL the user must open in a browser to authorize
// the application.
func AuthCodeURL(creds Credentials) string {
	return oauthConfig(creds).AuthCodeURL("state")
}

// HasToken reports whether a cached OAuth token exists at cachePath.
func HasToken(cachePath string) bool {
	_, err := loadToken(cachePath)
	return err == nil
}

// SaveToken exchanges an authorization code for a token and caches it at
// cachePath.
func SaveToken(ctx context.Context, creds Credentials, authCode, cachePath string) error {
	conf := oauthConfig(creds)

	tok, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	return writeToken(cachePath, tok)
}

// TokenSource returns an OAuth2 token source backed by the cached token.
// Refreshed tokens are written back to the cache so later processes reuse
// them.
func TokenSource(ctx context.Context, creds Credentials, cachePath string) (oauth2.TokenSource, error) {
	tok, err := loadToken(cachePath)
	if err != nil {
		return nil, fmt.Errorf("no valid TickTick OAuth token found: %w", err)
	}

	conf := oauthConfig(creds)
	return &cachingTokenSource{
		base:      conf.TokenSource(ctx, tok),
		cachePath: cachePath,
		last:      tok,
	}, nil
}

// cachingTokenSource persists refreshed tokens back to the cache file.
// Token is called from concurrent request paths, so the compare-and-persist
// of last is mutex-guarded.
type cachingTokenSource struct {
	base      oauth2.TokenSource
	cachePath string

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *cachingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || tok.AccessToken != s.last.AccessToken {
		s.last = tok
		// Cache write failures are not fatal; the token is still valid
		// for this process.
		_ = writeToken(s.cachePath, tok)
	}
	return tok, nil
}

func loadToken(cachePath string) (*oauth2.Token, error) {
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid token cache: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token cache has no access token")
	}
	return &tok, nil
}

func writeToken(cachePath string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o700); err != nil {
		return fmt.Errorf("failed to create token cache directory: %w", err)
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(cachePath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}
