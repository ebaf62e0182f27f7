package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/collab-backend/internal/data/repos/audit"
	"github.com/yungbote/collab-backend/internal/data/repos/chat"
	"github.com/yungbote/collab-backend/internal/data/repos/collab"
	"github.com/yungbote/collab-backend/internal/data/repos/notify"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

type CampaignRepo = collab.CampaignRepo
type CreatorProfileRepo = collab.CreatorProfileRepo
type CandidateRepo = collab.CandidateRepo
type OfferRepo = collab.OfferRepo
type ContractRepo = collab.ContractRepo
type EscrowRepo = collab.EscrowRepo
type DeliverableRepo = collab.DeliverableRepo

type ChannelRepo = chat.ChannelRepo
type ChannelMessageRepo = chat.MessageRepo

type NotificationRepo = notify.NotificationRepo

type AuditEntryRepo = audit.EntryRepo

func NewCampaignRepo(db *gorm.DB, baseLog *logger.Logger) CampaignRepo {
	return collab.NewCampaignRepo(db, baseLog)
}
func NewCreatorProfileRepo(db *gorm.DB, baseLog *logger.Logger) CreatorProfileRepo {
	return collab.NewCreatorProfileRepo(db, baseLog)
}
func NewCandidateRepo(db *gorm.DB, baseLog *logger.Logger) CandidateRepo {
	return collab.NewCandidateRepo(db, baseLog)
}
func NewOfferRepo(db *gorm.DB, baseLog *logger.Logger) OfferRepo {
	return collab.NewOfferRepo(db, baseLog)
}
func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	return collab.NewContractRepo(db, baseLog)
}
func NewEscrowRepo(db *gorm.DB, baseLog *logger.Logger) EscrowRepo {
	return collab.NewEscrowRepo(db, baseLog)
}
func NewDeliverableRepo(db *gorm.DB, baseLog *logger.Logger) DeliverableRepo {
	return collab.NewDeliverableRepo(db, baseLog)
}

func NewChannelRepo(db *gorm.DB, baseLog *logger.Logger) ChannelRepo {
	return chat.NewChannelRepo(db, baseLog)
}
func NewChannelMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChannelMessageRepo {
	return chat.NewMessageRepo(db, baseLog)
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return notify.NewNotificationRepo(db, baseLog)
}

func NewAuditEntryRepo(db *gorm.DB, baseLog *logger.Logger) AuditEntryRepo {
	return audit.NewEntryRepo(db, baseLog)
}
