package audit

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/collab-backend/internal/domain"
	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

// EntryRepo is the append-only audit sink. The engine never reads it back;
// ListByEntity exists for compliance tooling and tests.
type EntryRepo interface {
	Append(dbc dbctx.Context, actor collab.Actor, action, entityType string, entityID uuid.UUID, details map[string]any) error
	ListByEntity(dbc dbctx.Context, entityType string, entityID uuid.UUID) ([]*types.AuditEntry, error)
}

type entryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntryRepo(db *gorm.DB, log *logger.Logger) EntryRepo {
	return &entryRepo{db: db, log: log.With("repo", "AuditEntryRepo")}
}

func (r *entryRepo) Append(dbc dbctx.Context, actor collab.Actor, action, entityType string, entityID uuid.UUID, details map[string]any) error {
	if action == "" || entityType == "" || entityID == uuid.Nil {
		return fmt.Errorf("audit entry requires action, entity type and entity id")
	}
	row := &types.AuditEntry{
		ID:         uuid.New(),
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
		row.Details = datatypes.JSON(raw)
	}
	return dbc.DB(r.db).Create(row).Error
}

func (r *entryRepo) ListByEntity(dbc dbctx.Context, entityType string, entityID uuid.UUID) ([]*types.AuditEntry, error) {
	if entityType == "" || entityID == uuid.Nil {
		return nil, fmt.Errorf("missing entity type or id")
	}
	var out []*types.AuditEntry
	if err := dbc.DB(r.db).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
