package chat

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/collab-backend/internal/domain"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

type MessageRepo interface {
	Create(dbc dbctx.Context, rows []*types.ChannelMessage) ([]*types.ChannelMessage, error)
	// ListByChannel returns up to limit messages with seq < beforeSeq (all
	// when beforeSeq <= 0), oldest first.
	ListByChannel(dbc dbctx.Context, channelID uuid.UUID, beforeSeq int64, limit int) ([]*types.ChannelMessage, error)
	Count(dbc dbctx.Context, channelID uuid.UUID) (int64, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, log *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: log.With("repo", "ChannelMessageRepo")}
}

func (r *messageRepo) Create(dbc dbctx.Context, rows []*types.ChannelMessage) ([]*types.ChannelMessage, error) {
	if len(rows) == 0 {
		return []*types.ChannelMessage{}, nil
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

func (r *messageRepo) ListByChannel(dbc dbctx.Context, channelID uuid.UUID, beforeSeq int64, limit int) ([]*types.ChannelMessage, error) {
	if channelID == uuid.Nil {
		return nil, fmt.Errorf("missing channel_id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := dbc.DB(r.db).Where("channel_id = ?", channelID)
	if beforeSeq > 0 {
		q = q.Where("seq < ?", beforeSeq)
	}
	var out []*types.ChannelMessage
	if err := q.Order("seq DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *messageRepo) Count(dbc dbctx.Context, channelID uuid.UUID) (int64, error) {
	if channelID == uuid.Nil {
		return 0, fmt.Errorf("missing channel_id")
	}
	var n int64
	if err := dbc.DB(r.db).Model(&types.ChannelMessage{}).Where("channel_id = ?", channelID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
