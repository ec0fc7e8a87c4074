// Package notification collects the in-app notifications raised by the focus
// cycle, the briefing and the nightly prompt, and fans them out to browser
// streams and registered push devices.
package notification

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"daystart-backend/internal/notification/domain"
	"daystart-backend/internal/notification/repository"
	"daystart-backend/pkg/fcm"

	"github.com/google/uuid"
)

// DefaultTTL is how long a non-persistent notification stays listed.
const DefaultTTL = 5 * time.Second

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPushDisabled         = errors.New("push notifications are not configured")
)

// Broadcaster pushes events to open browser streams.
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

// Pusher delivers push notifications to devices.
type Pusher interface {
	SendToDevices(ctx context.Context, tokens []string, push fcm.Push) ([]string, error)
}

// Service keeps the current notifications in memory.
type Service struct {
	mu    sync.Mutex
	items []*domain.Notification
	ttl   time.Duration
	now   func() time.Time

	broadcaster Broadcaster
	deviceRepo  repository.DeviceTokenRepository
	pusher      Pusher
	appURL      string
	wg          sync.WaitGroup
}

// NewService creates a Service. broadcaster may be nil.
func NewService(broadcaster Broadcaster) *Service {
	return &Service{
		ttl:         DefaultTTL,
		now:         time.Now,
		broadcaster: broadcaster,
	}
}

// SetPush enables push delivery to the devices stored in deviceRepo.
func (s *Service) SetPush(deviceRepo repository.DeviceTokenRepository, pusher Pusher, appURL string) {
	s.deviceRepo = deviceRepo
	s.pusher = pusher
	s.appURL = appURL
}

// Notify publishes a notification. kind is one of info, success or warning.
func (s *Service) Notify(title, message, kind string, persistent bool) {
	s.Publish(title, message, domain.ParseKind(kind), persistent)
}

// Publish stores a notification and fans it out.
func (s *Service) Publish(title, message string, kind domain.Kind, persistent bool) *domain.Notification {
	now := s.now()
	n := &domain.Notification{
		ID:         uuid.New().String(),
		Title:      title,
		Message:    message,
		Type:       kind,
		Persistent: persistent,
		CreatedAt:  now,
	}
	if !persistent {
		expires := now.Add(s.ttl)
		n.ExpiresAt = &expires
	}

	s.mu.Lock()
	s.pruneLocked(now)
	s.items = append(s.items, n)
	s.mu.Unlock()

	log.Printf("[Notification] %s: %s", title, message)
	if s.broadcaster != nil {
		s.broadcaster.Broadcast("notification", n)
	}
	s.push(n)
	return n
}

// List returns the notifications that have not expired, oldest first.
func (s *Service) List() []*domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	out := make([]*domain.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Dismiss removes a notification.
func (s *Service) Dismiss(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			if s.broadcaster != nil {
				s.broadcaster.Broadcast("notification_dismissed", map[string]string{"id": id})
			}
			return nil
		}
	}
	return ErrNotificationNotFound
}

// RegisterDevice stores a push token.
func (s *Service) RegisterDevice(token, deviceInfo string) error {
	if s.deviceRepo == nil {
		return ErrPushDisabled
	}
	return s.deviceRepo.SaveToken(token, deviceInfo)
}

// UnregisterDevice removes a push token.
func (s *Service) UnregisterDevice(token string) error {
	if s.deviceRepo == nil {
		return ErrPushDisabled
	}
	return s.deviceRepo.DeleteToken(token)
}

// Wait blocks until pending push deliveries finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) pruneLocked(now time.Time) {
	kept := s.items[:0]
	for _, n := range s.items {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = kept
}

func (s *Service) push(n *domain.Notification) {
	if s.pusher == nil || s.deviceRepo == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		tokens, err := s.deviceRepo.ListTokens()
		if err != nil {
			log.Printf("[Notification] Error listing device tokens: %v", err)
			return
		}
		if len(tokens) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		failed, err := s.pusher.SendToDevices(ctx, tokens, fcm.Push{
			Title: n.Title,
			Body:  n.Message,
			Data: map[string]string{
				"type":            "notification",
				"notification_id": n.ID,
				"kind":            string(n.Type),
			},
			Link: s.appURL,
		})
		if err != nil {
			log.Printf("[Notification] Error sending push: %v", err)
			return
		}

		for _, token := range failed {
			if err := s.deviceRepo.DeleteToken(token); err != nil {
				log.Printf("[Notification] Error removing stale device token: %v", err)
			}
		}
	}()
}
