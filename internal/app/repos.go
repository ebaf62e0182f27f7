package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/collab-backend/internal/data/repos"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

type Repos struct {
	Campaign       repos.CampaignRepo
	CreatorProfile repos.CreatorProfileRepo
	Candidate      repos.CandidateRepo
	Offer          repos.OfferRepo
	Contract       repos.ContractRepo
	Escrow         repos.EscrowRepo
	Deliverable    repos.DeliverableRepo

	Channel        repos.ChannelRepo
	ChannelMessage repos.ChannelMessageRepo
	Notification   repos.NotificationRepo
	AuditEntry     repos.AuditEntryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Campaign:       repos.NewCampaignRepo(db, log),
		CreatorProfile: repos.NewCreatorProfileRepo(db, log),
		Candidate:      repos.NewCandidateRepo(db, log),
		Offer:          repos.NewOfferRepo(db, log),
		Contract:       repos.NewContractRepo(db, log),
		Escrow:         repos.NewEscrowRepo(db, log),
		Deliverable:    repos.NewDeliverableRepo(db, log),

		Channel:        repos.NewChannelRepo(db, log),
		ChannelMessage: repos.NewChannelMessageRepo(db, log),
		Notification:   repos.NewNotificationRepo(db, log),
		AuditEntry:     repos.NewAuditEntryRepo(db, log),
	}
}
