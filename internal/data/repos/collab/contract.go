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

type ContractRepo interface {
	Create(dbc dbctx.Context, row *types.Contract) (*types.Contract, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Contract, error)
	GetByRelationshipID(dbc dbctx.Context, relationshipID uuid.UUID) (*types.Contract, error)
	ListByRelationshipIDs(dbc dbctx.Context, relationshipIDs []uuid.UUID) ([]*types.Contract, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type contractRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractRepo(db *gorm.DB, log *logger.Logger) ContractRepo {
	return &contractRepo{db: db, log: log.With("repo", "ContractRepo")}
}

func (r *contractRepo) Create(dbc dbctx.Context, row *types.Contract) (*types.Contract, error) {
	if row == nil {
		return nil, fmt.Errorf("missing contract")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := dbc.DB(r.db).Omit(clause.Associations).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *contractRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Contract, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing contract id")
	}
	var out types.Contract
	if err := dbc.DB(r.db).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *contractRepo) GetByRelationshipID(dbc dbctx.Context, relationshipID uuid.UUID) (*types.Contract, error) {
	if relationshipID == uuid.Nil {
		return nil, fmt.Errorf("missing relationship id")
	}
	var out types.Contract
	if err := dbc.DB(r.db).Where("relationship_id = ?", relationshipID).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *contractRepo) ListByRelationshipIDs(dbc dbctx.Context, relationshipIDs []uuid.UUID) ([]*types.Contract, error) {
	if len(relationshipIDs) == 0 {
		return []*types.Contract{}, nil
	}
	var out []*types.Contract
	if err := dbc.DB(r.db).
		Preload("Deliverables", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("relationship_id IN ?", relationshipIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contractRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing contract id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	return dbc.DB(r.db).
		Model(&types.Contract{}).
		Where("id = ?", id).
		Updates(updates).Error
}
