package repositories

import (
	"context"
	"time"

	"github.com/preyforum/preyforum/preyforum/database/models"
	"github.com/uptrace/bun"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int64, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type notificationRepository struct {
	db *bun.DB
}

func NewNotificationRepository(db *bun.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	notification.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(notification).Exec(ctx)
	return err
}

func (r *notificationRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := r.db.NewSelect().
		Model(&notifications).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	return notifications, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id int64, userID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.Notification)(nil)).
		Set("read = true").
		Where("id = ? AND user_id = ?", id, userID).
		Exec(ctx)
	return err
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.Notification)(nil)).
		Set("read = true").
		Where("user_id = ? AND read = false", userID).
		Exec(ctx)
	return err
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	return r.db.NewSelect().
		Model((*models.Notification)(nil)).
		Where("user_id = ? AND read = false", userID).
		Count(ctx)
}
