package collab

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/collab-backend/internal/domain"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

type EscrowRepo interface {
	Create(dbc dbctx.Context, rows []*types.EscrowTransaction) ([]*types.EscrowTransaction, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.EscrowTransaction, error)
	// ListByContract returns transactions oldest first.
	ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.EscrowTransaction, error)
}

type escrowRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEscrowRepo(db *gorm.DB, log *logger.Logger) EscrowRepo {
	return &escrowRepo{db: db, log: log.With("repo", "EscrowRepo")}
}

func (r *escrowRepo) Create(dbc dbctx.Context, rows []*types.EscrowTransaction) ([]*types.EscrowTransaction, error) {
	if len(rows) == 0 {
		return []*types.EscrowTransaction{}, nil
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

func (r *escrowRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.EscrowTransaction, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing transaction id")
	}
	var out types.EscrowTransaction
	if err := dbc.DB(r.db).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *escrowRepo) ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.EscrowTransaction, error) {
	if contractID == uuid.Nil {
		return nil, fmt.Errorf("missing contract id")
	}
	var out []*types.EscrowTransaction
	if err := dbc.DB(r.db).
		Where("contract_id = ?", contractID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
