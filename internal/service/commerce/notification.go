// internal/service/commerce/notification.go
package commerce

import (
	"context"
	"strings"

	"fittech-client/internal/domain/commerce"
	xerrors "fittech-client/internal/pkg/errors"
	"fittech-client/internal/storage"
	"fittech-client/internal/store"

	"go.uber.org/zap"
)

const notificationCounter = "notificationId"

type NotificationService struct {
	st     storage.Storage
	ids    *store.Generator
	logger *zap.Logger
}

func NewNotificationService(st storage.Storage, ids *store.Generator, logger *zap.Logger) *NotificationService {
	return &NotificationService{st: st, ids: ids, logger: logger}
}

func (s *NotificationService) notifications(email string) *store.Collection[commerce.Notification, *commerce.Notification] {
	key := store.UserKey(store.KeyNotifications, email)
	return store.NewCollection[commerce.Notification](s.st, s.ids, key, notificationCounter, s.logger)
}

func (s *NotificationService) List(ctx context.Context, email string, unreadOnly bool) []commerce.Notification {
	coll := s.notifications(email)
	if !unreadOnly {
		return coll.All(ctx, nil)
	}
	return coll.All(ctx, func(n commerce.Notification) bool { return !n.Read })
}

func (s *NotificationService) Create(ctx context.Context, email, title, message, kind string) (commerce.Notification, error) {
	if strings.TrimSpace(title) == "" {
		return commerce.Notification{}, xerrors.Wrap(xerrors.ErrInvalidInput, "notification title is required")
	}
	return s.notifications(email).Create(ctx, commerce.Notification{
		Title:   title,
		Message: message,
		Type:    kind,
	})
}

func (s *NotificationService) MarkRead(ctx context.Context, email string, id int64) (commerce.Notification, error) {
	return s.notifications(email).Update(ctx, id, map[string]bool{"read": true})
}

func (s *NotificationService) MarkAllRead(ctx context.Context, email string) error {
	coll := s.notifications(email)
	for _, n := range coll.All(ctx, func(n commerce.Notification) bool { return !n.Read }) {
		if _, err := coll.Update(ctx, n.ID, map[string]bool{"read": true}); err != nil {
			return err
		}
	}
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, email string) int {
	return len(s.List(ctx, email, true))
}

func (s *NotificationService) Delete(ctx context.Context, email string, id int64) error {
	return s.notifications(email).Delete(ctx, id)
}
