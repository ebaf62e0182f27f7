package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/collab-backend/internal/domain"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

type NotificationRepo interface {
	Create(dbc dbctx.Context, rows []*types.Notification) ([]*types.Notification, error)
	ListByRecipient(dbc dbctx.Context, recipientID uuid.UUID, unreadOnly bool, limit int) ([]*types.Notification, error)
	// MarkRead flags one notification of recipientID as read and reports
	// whether a row matched.
	MarkRead(dbc dbctx.Context, id, recipientID uuid.UUID, at time.Time) (bool, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, log *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: log.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) Create(dbc dbctx.Context, rows []*types.Notification) ([]*types.Notification, error) {
	if len(rows) == 0 {
		return []*types.Notification{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *notificationRepo) ListByRecipient(dbc dbctx.Context, recipientID uuid.UUID, unreadOnly bool, limit int) ([]*types.Notification, error) {
	if recipientID == uuid.Nil {
		return nil, fmt.Errorf("missing recipient_id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := dbc.DB(r.db).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var out []*types.Notification
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *notificationRepo) MarkRead(dbc dbctx.Context, id, recipientID uuid.UUID, at time.Time) (bool, error) {
	if id == uuid.Nil || recipientID == uuid.Nil {
		return false, fmt.Errorf("missing id or recipient_id")
	}
	res := dbc.DB(r.db).
		Model(&types.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Updates(map[string]interface{}{
			"read":       true,
			"read_at":    at.UTC(),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
