package collab

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/collab-backend/internal/domain"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

type CreatorProfileRepo interface {
	Create(dbc dbctx.Context, rows []*types.CreatorProfile) ([]*types.CreatorProfile, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CreatorProfile, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.CreatorProfile, error)
}

type creatorProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCreatorProfileRepo(db *gorm.DB, log *logger.Logger) CreatorProfileRepo {
	return &creatorProfileRepo{db: db, log: log.With("repo", "CreatorProfileRepo")}
}

func (r *creatorProfileRepo) Create(dbc dbctx.Context, rows []*types.CreatorProfile) ([]*types.CreatorProfile, error) {
	if len(rows) == 0 {
		return []*types.CreatorProfile{}, nil
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

func (r *creatorProfileRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CreatorProfile, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing creator id")
	}
	var out types.CreatorProfile
	if err := dbc.DB(r.db).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *creatorProfileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.CreatorProfile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user id")
	}
	var out types.CreatorProfile
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
