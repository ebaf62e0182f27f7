package collab

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

type CandidateRepo interface {
	Create(dbc dbctx.Context, rows []*types.CandidateRelationship) ([]*types.CandidateRelationship, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CandidateRelationship, error)
	GetByPair(dbc dbctx.Context, campaignID, creatorID uuid.UUID) (*types.CandidateRelationship, error)
	ListByCampaign(dbc dbctx.Context, campaignID uuid.UUID, statuses []string) ([]*types.CandidateRelationship, error)
	ListByCreator(dbc dbctx.Context, creatorID uuid.UUID, statuses []string) ([]*types.CandidateRelationship, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.CandidateRelationship, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type candidateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCandidateRepo(db *gorm.DB, log *logger.Logger) CandidateRepo {
	return &candidateRepo{db: db, log: log.With("repo", "CandidateRepo")}
}

func (r *candidateRepo) Create(dbc dbctx.Context, rows []*types.CandidateRelationship) ([]*types.CandidateRelationship, error) {
	if len(rows) == 0 {
		return []*types.CandidateRelationship{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := dbc.DB(r.db).Omit(clause.Associations).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *candidateRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CandidateRelationship, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing relationship id")
	}
	var out types.CandidateRelationship
	if err := dbc.DB(r.db).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *candidateRepo) GetByPair(dbc dbctx.Context, campaignID, creatorID uuid.UUID) (*types.CandidateRelationship, error) {
	if campaignID == uuid.Nil || creatorID == uuid.Nil {
		return nil, fmt.Errorf("missing campaign_id or creator_id")
	}
	var out types.CandidateRelationship
	if err := dbc.DB(r.db).
		Where("campaign_id = ? AND creator_id = ?", campaignID, creatorID).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *candidateRepo) ListByCampaign(dbc dbctx.Context, campaignID uuid.UUID, statuses []string) ([]*types.CandidateRelationship, error) {
	if campaignID == uuid.Nil {
		return nil, fmt.Errorf("missing campaign_id")
	}
	q := dbc.DB(r.db).Preload("Creator").Where("campaign_id = ?", campaignID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var out []*types.CandidateRelationship
	if err := q.Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *candidateRepo) ListByCreator(dbc dbctx.Context, creatorID uuid.UUID, statuses []string) ([]*types.CandidateRelationship, error) {
	if creatorID == uuid.Nil {
		return nil, fmt.Errorf("missing creator_id")
	}
	q := dbc.DB(r.db).Preload("Campaign").Where("creator_id = ?", creatorID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var out []*types.CandidateRelationship
	if err := q.Order("updated_at DESC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// LockByID takes a row lock on Postgres. SQLite ignores FOR UPDATE; there the
// single writer connection serializes transactions instead.
func (r *candidateRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.CandidateRelationship, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing relationship id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var out types.CandidateRelationship
	if err := dbc.DB(nil).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *candidateRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing relationship id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	return dbc.DB(r.db).
		Model(&types.CandidateRelationship{}).
		Where("id = ?", id).
		Updates(updates).Error
}
