// Package google wraps the Google OAuth and Calendar APIs used to read the
// events of connected accounts.
package google

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// TokenUpdateFunc is called with a token the source refreshed.
type TokenUpdateFunc = func(token *oauth2.Token) error

// OAuthClient builds consent URLs, exchanges codes and produces
// authenticated HTTP clients for stored tokens.
type OAuthClient struct {
	config *oauth2.Config
}

// NewOAuthClient creates an OAuthClient requesting read-only calendar access
// and the account email.
func NewOAuthClient(clientID, clientSecret, redirectURL string) *OAuthClient {
	return &OAuthClient{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				calendar.CalendarReadonlyScope,
				oauth2api.UserinfoEmailScope,
			},
		},
	}
}

// AuthCodeURL returns the consent page URL. Offline access with a forced
// consent prompt makes Google return a refresh token on every connection.
func (c *OAuthClient) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code for a token.
func (c *OAuthClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return token, nil
}

// Email looks up the email address of the account owning token.
func (c *OAuthClient) Email(ctx context.Context, token *oauth2.Token) (string, error) {
	srv, err := oauth2api.NewService(ctx, option.WithTokenSource(c.config.TokenSource(ctx, token)))
	if err != nil {
		return "", fmt.Errorf("unable to create userinfo service: %w", err)
	}
	info, err := srv.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get userinfo: %w", err)
	}
	return info.Email, nil
}

// Client returns an HTTP client authorized with token. onRefresh, when set,
// receives every refreshed token so it can be persisted.
func (c *OAuthClient) Client(ctx context.Context, token *oauth2.Token, onRefresh TokenUpdateFunc) *http.Client {
	src := &notifyTokenSource{
		src:      c.config.TokenSource(ctx, token),
		current:  token,
		callback: onRefresh,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(token, src))
}

type notifyTokenSource struct {
	mu       sync.Mutex
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.callback != nil && (s.current == nil || s.current.AccessToken != t.AccessToken) {
		s.current = t
		if err := s.callback(t); err != nil {
			log.Printf("[Google] Failed to persist refreshed token: %v", err)
		}
	}
	return t, nil
}
