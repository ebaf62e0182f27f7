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

type OfferRepo interface {
	Create(dbc dbctx.Context, row *types.Offer) (*types.Offer, error)
	GetByRelationshipID(dbc dbctx.Context, relationshipID uuid.UUID) (*types.Offer, error)
	// Save writes amount, description, status and history of an existing offer.
	Save(dbc dbctx.Context, row *types.Offer) error
}

type offerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOfferRepo(db *gorm.DB, log *logger.Logger) OfferRepo {
	return &offerRepo{db: db, log: log.With("repo", "OfferRepo")}
}

func (r *offerRepo) Create(dbc dbctx.Context, row *types.Offer) (*types.Offer, error) {
	if row == nil {
		return nil, fmt.Errorf("missing offer")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := dbc.DB(r.db).Omit(clause.Associations).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *offerRepo) GetByRelationshipID(dbc dbctx.Context, relationshipID uuid.UUID) (*types.Offer, error) {
	if relationshipID == uuid.Nil {
		return nil, fmt.Errorf("missing relationship id")
	}
	var out types.Offer
	if err := dbc.DB(r.db).Where("relationship_id = ?", relationshipID).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *offerRepo) Save(dbc dbctx.Context, row *types.Offer) error {
	if row == nil || row.ID == uuid.Nil {
		return fmt.Errorf("missing offer id")
	}
	row.UpdatedAt = time.Now().UTC()
	return dbc.DB(r.db).
		Model(&types.Offer{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"amount":                   row.Amount,
			"deliverables_description": row.DeliverablesDescription,
			"status":                   row.Status,
			"history":                  row.History,
			"updated_at":               row.UpdatedAt,
		}).Error
}
