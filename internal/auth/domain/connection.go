package domain

import (
	"time"

	"golang.org/x/oauth2"
)

// Connection is a Google account whose calendars are merged into the timeline.
type Connection struct {
	Email        string    `json:"email" gorm:"primaryKey"`
	AccessToken  string    `json:"-" gorm:"type:text"`
	RefreshToken string    `json:"-" gorm:"type:text"`
	TokenType    string    `json:"-"`
	Expiry       time.Time `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Token rebuilds the OAuth token stored on the connection.
func (c *Connection) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
		Expiry:       c.Expiry,
	}
}

// SetToken copies t onto the connection. An empty refresh token keeps the
// stored one, since Google only returns it on consent.
func (c *Connection) SetToken(t *oauth2.Token) {
	c.AccessToken = t.AccessToken
	if t.RefreshToken != "" {
		c.RefreshToken = t.RefreshToken
	}
	c.TokenType = t.TokenType
	c.Expiry = t.Expiry
}
