// Package services provides external service integrations and technical concerns like notifications
package services

import (
	"context"
	"fmt"
	"log"

	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/models"
)

// NotificationService hands persisted notification records to a delivery
// provider. Delivery mechanics (push/SMS transport, retries, receipts) live
// behind the provider; the core only emits the abstract request.
type NotificationService interface {
	Dispatch(ctx context.Context, notification models.Notification) error
}

// PushProvider is the delivery backend for user notifications
type PushProvider interface {
	Push(ctx context.Context, userID, title, body string) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	provider PushProvider
}

// NewNotificationService creates a new notification service
func NewNotificationService(provider PushProvider) NotificationService {
	return &NotificationServiceImpl{provider: provider}
}

// Dispatch forwards the notification to the configured provider
func (s *NotificationServiceImpl) Dispatch(ctx context.Context, notification models.Notification) error {
	if s.provider == nil {
		return fmt.Errorf("push provider not configured")
	}
	if notification.UserID == "" {
		return fmt.Errorf("notification has no recipient")
	}

	return s.provider.Push(ctx, notification.UserID, notification.Title, notification.Body)
}

type MockPushProvider struct{}

func NewMockPushProvider() PushProvider {
	return &MockPushProvider{}
}

func (p *MockPushProvider) Push(_ context.Context, userID, title, body string) error {
	log.Printf("Notification pushed to %s [%s]: %s", userID, title, body)
	return nil
}
