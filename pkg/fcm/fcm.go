// Package fcm sends web push notifications through Firebase Cloud Messaging.
package fcm

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client wraps the Firebase messaging client
type Client struct {
	messagingClient *messaging.Client
}

// NewClient creates a new FCM client from a service account credentials file
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Println("[FCM] Client initialized successfully")
	return &Client{messagingClient: messagingClient}, nil
}

// Push is the content of one push notification
type Push struct {
	Title string
	Body  string
	Data  map[string]string
	// Link is opened when the notification is clicked
	Link string
}

// SendToDevices sends a push to every token and returns the tokens that were rejected
func (c *Client) SendToDevices(ctx context.Context, tokens []string, push Push) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	webpush := &messaging.WebpushConfig{
		Notification: &messaging.WebpushNotification{
			Title: push.Title,
			Body:  push.Body,
			Icon:  "/favicon.svg",
		},
	}
	if push.Link != "" {
		webpush.FCMOptions = &messaging.WebpushFCMOptions{Link: push.Link}
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: push.Title,
			Body:  push.Body,
		},
		Data:    push.Data,
		Webpush: webpush,
	}

	response, err := c.messagingClient.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
	}

	log.Printf("[FCM] Multicast sent: %d success, %d failures", response.SuccessCount, response.FailureCount)

	var failedTokens []string
	for i, resp := range response.Responses {
		if !resp.Success {
			failedTokens = append(failedTokens, tokens[i])
			log.Printf("[FCM] Failed to send to token %s: %v", shorten(tokens[i]), resp.Error)
		}
	}
	return failedTokens, nil
}

func shorten(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}
