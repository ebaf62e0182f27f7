package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/collab-backend/internal/domain"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

type ChannelRepo interface {
	Create(dbc dbctx.Context, row *types.Channel) (*types.Channel, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Channel, error)
	GetByRelationshipID(dbc dbctx.Context, relationshipID uuid.UUID) (*types.Channel, error)
	ListByRelationshipIDs(dbc dbctx.Context, relationshipIDs []uuid.UUID) ([]*types.Channel, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Channel, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type channelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChannelRepo(db *gorm.DB, log *logger.Logger) ChannelRepo {
	return &channelRepo{db: db, log: log.With("repo", "ChannelRepo")}
}

func (r *channelRepo) Create(dbc dbctx.Context, row *types.Channel) (*types.Channel, error) {
	if row == nil {
		return nil, fmt.Errorf("missing channel")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := dbc.DB(r.db).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *channelRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Channel, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing channel id")
	}
	var out types.Channel
	if err := dbc.DB(r.db).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *channelRepo) GetByRelationshipID(dbc dbctx.Context, relationshipID uuid.UUID) (*types.Channel, error) {
	if relationshipID == uuid.Nil {
		return nil, fmt.Errorf("missing relationship id")
	}
	var out types.Channel
	if err := dbc.DB(r.db).Where("relationship_id = ?", relationshipID).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *channelRepo) ListByRelationshipIDs(dbc dbctx.Context, relationshipIDs []uuid.UUID) ([]*types.Channel, error) {
	if len(relationshipIDs) == 0 {
		return []*types.Channel{}, nil
	}
	var out []*types.Channel
	if err := dbc.DB(r.db).Where("relationship_id IN ?", relationshipIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *channelRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Channel, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing channel id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var out types.Channel
	if err := dbc.DB(nil).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *channelRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing channel id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	return dbc.DB(r.db).
		Model(&types.Channel{}).
		Where("id = ?", id).
		Updates(updates).Error
}
