package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/apperror"
	"github.com/stackit-qa/backend/internal/models"
)

type NotificationPage struct {
	Items  []models.Notification
	Total  int64
	Unread int64
}

// ListNotifications returns one page of the user's notifications, newest
// first, along with total and unread counts.
func (s *Service) ListNotifications(ctx context.Context, userID, page, limit int) (NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := s.db.WithContext(ctx)
	var out NotificationPage

	err := db.Model(&models.Notification{}).
		Where("recipient_id = ?", userID).Count(&out.Total).Error
	if err != nil {
		return NotificationPage{}, err
	}

	err = db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).Count(&out.Unread).Error
	if err != nil {
		return NotificationPage{}, err
	}

	err = db.Where("recipient_id = ?", userID).
		Preload("Sender").
		Preload("Question").
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&out.Items).Error
	if err != nil {
		return NotificationPage{}, err
	}

	return out, nil
}

// MarkNotificationRead flags one of the user's notifications as read.
func (s *Service) MarkNotificationRead(ctx context.Context, notificationID, userID int) error {
	var notification models.Notification
	err := s.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", notificationID, userID).
		First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("Notification")
	}
	if err != nil {
		return err
	}

	if notification.IsRead {
		return nil
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).Model(&notification).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": now,
	}).Error
}

// MarkAllNotificationsRead flags every unread notification for the user.
func (s *Service) MarkAllNotificationsRead(ctx context.Context, userID int) error {
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		}).Error
}
