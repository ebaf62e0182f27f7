package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/collab-backend/internal/domain"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

func AutoMigrateAll(db *gorm.DB, logg *logger.Logger) error {
	if logg != nil {
		logg.Info("Auto migrating collaboration tables...")
	}
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := EnsureCollabIndexes(db); err != nil {
		return err
	}
	if logg != nil {
		logg.Info("Migration complete")
	}
	return nil
}

// EnsureCollabIndexes adds the partial indexes gorm tags cannot express.
// Both Postgres and SQLite accept the WHERE clause.
func EnsureCollabIndexes(db *gorm.DB) error {
	stmts := []string{
		// At most one PENDING escrow transaction per contract.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_escrow_one_pending
			ON escrow_transaction(contract_id)
			WHERE status = 'PENDING';`,
		`CREATE INDEX IF NOT EXISTS idx_candidate_campaign_status
			ON candidate_relationship(campaign_id, status);`,
		`CREATE INDEX IF NOT EXISTS idx_notification_recipient_unread
			ON notification(recipient_id, created_at)
			WHERE read = false;`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure collab indexes: %w", err)
		}
	}
	return nil
}
