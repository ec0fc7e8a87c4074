package usecase

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"daystart-backend/internal/auth/domain"
	"daystart-backend/internal/auth/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const stateTTL = 10 * time.Minute

// connectionUsecase implements ConnectionUsecase
type connectionUsecase struct {
	connRepo repository.ConnectionRepository
	oauth    OAuthProvider
	secret   []byte
	now      func() time.Time
}

// NewConnectionUsecase creates a new instance of connectionUsecase
func NewConnectionUsecase(connRepo repository.ConnectionRepository, oauth OAuthProvider, stateSecret string) ConnectionUsecase {
	return &connectionUsecase{
		connRepo: connRepo,
		oauth:    oauth,
		secret:   []byte(stateSecret),
		now:      time.Now,
	}
}

func (u *connectionUsecase) AuthURL() (string, error) {
	if u.oauth == nil {
		return "", ErrOAuthNotConfigured
	}
	state, err := u.signState()
	if err != nil {
		return "", err
	}
	return u.oauth.AuthCodeURL(state), nil
}

func (u *connectionUsecase) HandleCallback(ctx context.Context, code, state string) (*domain.Connection, error) {
	if u.oauth == nil {
		return nil, ErrOAuthNotConfigured
	}
	if code == "" {
		return nil, ErrMissingCode
	}
	if err := u.verifyState(state); err != nil {
		return nil, err
	}

	token, err := u.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	email, err := u.oauth.Email(ctx, token)
	if err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingEmail
	}

	conn, err := u.connRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		conn = &domain.Connection{Email: email}
	}
	conn.SetToken(token)

	if err := u.connRepo.Upsert(conn); err != nil {
		return nil, fmt.Errorf("save connection: %w", err)
	}

	log.Printf("[Auth] Connected Google account %s", email)
	return conn, nil
}

func (u *connectionUsecase) IsAuthenticated() (bool, error) {
	count, err := u.connRepo.Count()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (u *connectionUsecase) ListConnections() ([]*domain.Connection, error) {
	conns, err := u.connRepo.FindAll()
	if err != nil {
		return nil, err
	}
	if conns == nil {
		conns = []*domain.Connection{}
	}
	return conns, nil
}

func (u *connectionUsecase) ConnectedEmails() ([]string, error) {
	conns, err := u.connRepo.FindAll()
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(conns))
	for _, c := range conns {
		emails = append(emails, c.Email)
	}
	return emails, nil
}

func (u *connectionUsecase) Disconnect(email string) error {
	conn, err := u.connRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if conn == nil {
		return ErrConnectionNotFound
	}
	log.Printf("[Auth] Disconnecting Google account %s", email)
	return u.connRepo.Delete(email)
}

func (u *connectionUsecase) DisconnectAll() error {
	log.Printf("[Auth] Disconnecting all Google accounts")
	return u.connRepo.DeleteAll()
}

func (u *connectionUsecase) HTTPClient(ctx context.Context, conn *domain.Connection) *http.Client {
	email := conn.Email
	return u.oauth.Client(ctx, conn.Token(), func(t *oauth2.Token) error {
		stored, err := u.connRepo.FindByEmail(email)
		if err != nil {
			return err
		}
		if stored == nil {
			// Disconnected while the request was in flight.
			return nil
		}
		stored.SetToken(t)
		log.Printf("[Auth] Persisting refreshed token for %s", email)
		return u.connRepo.Upsert(stored)
	})
}

func (u *connectionUsecase) signState() (string, error) {
	now := u.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   "google-connect",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(u.secret)
}

func (u *connectionUsecase) verifyState(state string) error {
	if state == "" {
		return ErrInvalidState
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(state, claims, func(token *jwt.Token) (interface{}, error) {
		return u.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(u.now),
		jwt.WithSubject("google-connect"),
	)
	if err != nil || !token.Valid {
		return ErrInvalidState
	}
	return nil
}
