package collab

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/collab-backend/internal/domain"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

// CampaignRepo reads campaigns owned by the campaign service. Create exists
// for seeding and tests.
type CampaignRepo interface {
	Create(dbc dbctx.Context, rows []*types.Campaign) ([]*types.Campaign, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Campaign, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Campaign, error)
}

type campaignRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCampaignRepo(db *gorm.DB, log *logger.Logger) CampaignRepo {
	return &campaignRepo{db: db, log: log.With("repo", "CampaignRepo")}
}

func (r *campaignRepo) Create(dbc dbctx.Context, rows []*types.Campaign) ([]*types.Campaign, error) {
	if len(rows) == 0 {
		return []*types.Campaign{}, nil
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

func (r *campaignRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Campaign, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing campaign id")
	}
	var out types.Campaign
	if err := dbc.DB(r.db).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *campaignRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Campaign, error) {
	if len(ids) == 0 {
		return []*types.Campaign{}, nil
	}
	var out []*types.Campaign
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
