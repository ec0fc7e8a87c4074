package usecase

import (
	"context"
	"errors"
	"net/http"

	"daystart-backend/internal/auth/domain"

	"golang.org/x/oauth2"
)

var (
	ErrInvalidState       = errors.New("invalid or expired oauth state")
	ErrMissingCode        = errors.New("no code provided")
	ErrMissingEmail       = errors.New("google account has no email")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrOAuthNotConfigured = errors.New("google oauth is not configured")
)

// ConnectionUsecase manages the Google accounts connected to the app
type ConnectionUsecase interface {
	// AuthURL returns the Google consent URL with a signed state
	AuthURL() (string, error)

	// HandleCallback verifies the state, exchanges the code and stores the connection
	HandleCallback(ctx context.Context, code, state string) (*domain.Connection, error)

	// IsAuthenticated reports whether at least one account is connected
	IsAuthenticated() (bool, error)

	// ListConnections returns every connected account
	ListConnections() ([]*domain.Connection, error)

	// ConnectedEmails returns the emails of the connected accounts
	ConnectedEmails() ([]string, error)

	// Disconnect removes one account
	Disconnect(email string) error

	// DisconnectAll removes every account
	DisconnectAll() error

	// HTTPClient returns a client authorized as conn that persists refreshed tokens
	HTTPClient(ctx context.Context, conn *domain.Connection) *http.Client
}

// OAuthProvider is the Google OAuth surface the usecase depends on.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Email(ctx context.Context, token *oauth2.Token) (string, error)
	Client(ctx context.Context, token *oauth2.Token, onRefresh func(*oauth2.Token) error) *http.Client
}
