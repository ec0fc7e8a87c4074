package domain

import "time"

// Kind is the visual flavour of a notification.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
)

// Notification is an in-app message. Non-persistent ones expire on their own.
type Notification struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Type       Kind       `json:"type"`
	Persistent bool       `json:"persistent"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether n should no longer be listed at now.
func (n *Notification) Expired(now time.Time) bool {
	return n.ExpiresAt != nil && !now.Before(*n.ExpiresAt)
}

// ParseKind maps a free-form kind onto a known one, defaulting to info.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindSuccess, KindWarning:
		return Kind(s)
	}
	return KindInfo
}
