package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/collab-backend/internal/domain"
	"github.com/yungbote/collab-backend/internal/domain/collab"
)

// Parties is a seeded campaign with its brand, manager and one creator.
type Parties struct {
	Campaign *types.Campaign
	Creator  *types.CreatorProfile
	Brand    collab.Actor
	Manager  collab.Actor
	Talent   collab.Actor
}

func SeedCampaign(tb testing.TB, ctx context.Context, db *gorm.DB, brandUserID uuid.UUID, managerUserID *uuid.UUID) *types.Campaign {
	tb.Helper()
	c := &types.Campaign{
		ID:            uuid.New(),
		BrandUserID:   brandUserID,
		ManagerUserID: managerUserID,
		Title:         "Summer launch",
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed campaign: %v", err)
	}
	return c
}

func SeedCreator(tb testing.TB, ctx context.Context, db *gorm.DB, userID uuid.UUID, name string) *types.CreatorProfile {
	tb.Helper()
	p := &types.CreatorProfile{
		ID:          uuid.New(),
		UserID:      userID,
		DisplayName: name,
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed creator: %v", err)
	}
	return p
}

func SeedParties(tb testing.TB, ctx context.Context, db *gorm.DB) Parties {
	tb.Helper()
	brand := collab.Actor{ID: uuid.New(), Role: collab.RoleBrand}
	manager := collab.Actor{ID: uuid.New(), Role: collab.RoleManager}
	talent := collab.Actor{ID: uuid.New(), Role: collab.RoleCreator}
	return Parties{
		Campaign: SeedCampaign(tb, ctx, db, brand.ID, &manager.ID),
		Creator:  SeedCreator(tb, ctx, db, talent.ID, "Asha"),
		Brand:    brand,
		Manager:  manager,
		Talent:   talent,
	}
}
