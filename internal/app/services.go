package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/collab-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
	"github.com/yungbote/collab-backend/internal/observability"
	"github.com/yungbote/collab-backend/internal/platform/logger"
	"github.com/yungbote/collab-backend/internal/services"
)

type Services struct {
	// Aggregate
	Collaboration domainagg.CollaborationAggregate

	// Side-effect collaborators
	Notifier      services.Notifier
	Conversations services.ConversationService

	// Facade
	Lifecycle services.LifecycleService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	feePolicy, err := cfg.FeePolicy()
	if err != nil {
		return Services{}, fmt.Errorf("init collaboration aggregate: %w", err)
	}
	collaboration := aggregates.NewCollaborationAggregate(aggregates.CollaborationAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: aggregates.ChainHooks(aggregates.NewObservabilityHooks(metrics), aggregates.NewLoggingHooks(log)),
		},
		Campaigns:    repos.Campaign,
		Creators:     repos.CreatorProfile,
		Candidates:   repos.Candidate,
		Offers:       repos.Offer,
		Contracts:    repos.Contract,
		Escrow:       repos.Escrow,
		Deliverables: repos.Deliverable,
		Audit:        repos.AuditEntry,
		FeePolicy:    feePolicy,
	})

	notifier := services.NewNotifier(log, repos.Notification, clients.Bus, metrics)
	conversations := services.NewConversationService(db, log, repos.Channel, repos.ChannelMessage, clients.Bus, metrics)

	lifecycle := services.NewLifecycleService(services.LifecycleDeps{
		DB:                db,
		Log:               log,
		Aggregate:         collaboration,
		Campaigns:         repos.Campaign,
		Creators:          repos.CreatorProfile,
		Candidates:        repos.Candidate,
		Offers:            repos.Offer,
		Contracts:         repos.Contract,
		Escrow:            repos.Escrow,
		Deliverables:      repos.Deliverable,
		Channels:          repos.Channel,
		Notifier:          notifier,
		Conversations:     conversations,
		Metrics:           metrics,
		SideEffectTimeout: cfg.SideEffectTimeout,
	})

	return Services{
		Collaboration: collaboration,
		Notifier:      notifier,
		Conversations: conversations,
		Lifecycle:     lifecycle,
	}, nil
}
