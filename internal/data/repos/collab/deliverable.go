package collab

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/collab-backend/internal/domain"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

type DeliverableRepo interface {
	Create(dbc dbctx.Context, rows []*types.Deliverable) ([]*types.Deliverable, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Deliverable, error)
	// ListByContract returns deliverables in creation order.
	ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.Deliverable, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type deliverableRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDeliverableRepo(db *gorm.DB, log *logger.Logger) DeliverableRepo {
	return &deliverableRepo{db: db, log: log.With("repo", "DeliverableRepo")}
}

func (r *deliverableRepo) Create(dbc dbctx.Context, rows []*types.Deliverable) ([]*types.Deliverable, error) {
	if len(rows) == 0 {
		return []*types.Deliverable{}, nil
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

func (r *deliverableRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Deliverable, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing deliverable id")
	}
	var out types.Deliverable
	if err := dbc.DB(r.db).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *deliverableRepo) ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.Deliverable, error) {
	if contractID == uuid.Nil {
		return nil, fmt.Errorf("missing contract id")
	}
	var out []*types.Deliverable
	if err := dbc.DB(r.db).
		Where("contract_id = ?", contractID).
		Order("position ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *deliverableRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing deliverable id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	return dbc.DB(r.db).
		Model(&types.Deliverable{}).
		Where("id = ?", id).
		Updates(updates).Error
}
