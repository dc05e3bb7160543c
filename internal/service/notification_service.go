package service

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vitaplan/health-app/internal/domain"
	"vitaplan/health-app/internal/notify"
	"vitaplan/health-app/internal/repository"
)

// NotificationService manages durable in-app notifications and their
// best-effort real-time fan-out.
type NotificationService interface {
	// Notify persists a notification and publishes an event for it. A
	// publish failure is logged, never surfaced: the durable record is the
	// source of truth.
	Notify(ctx context.Context, userID primitive.ObjectID, message string) error
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	publisher        notify.Publisher // may be nil when redis is not configured
}

// NewNotificationService creates a new notification service instance.
func NewNotificationService(notificationRepo repository.NotificationRepository, publisher notify.Publisher) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID primitive.ObjectID, message string) error {
	if message == "" {
		return fmt.Errorf("%w: notification message is required", ErrValidation)
	}

	notification := &domain.Notification{
		UserID:  userID,
		Message: message,
	}
	if _, err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if s.publisher != nil {
		event := notify.Event{
			UserID:    userID.Hex(),
			Message:   message,
			CreatedAt: notification.CreatedAt,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("WARN: failed to publish notification event for user %s: %v", userID.Hex(), err)
		}
	}
	return nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Notification, error) {
	return s.notificationRepo.GetByUser(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
