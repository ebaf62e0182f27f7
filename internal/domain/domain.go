package domain

import (
	"github.com/yungbote/collab-backend/internal/domain/audit"
	"github.com/yungbote/collab-backend/internal/domain/chat"
	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/domain/notify"
)

type (
	Campaign              = collab.Campaign
	CreatorProfile        = collab.CreatorProfile
	CandidateRelationship = collab.CandidateRelationship
	Offer                 = collab.Offer
	Contract              = collab.Contract
	EscrowTransaction     = collab.EscrowTransaction
	Deliverable           = collab.Deliverable

	Channel        = chat.Channel
	ChannelMessage = chat.ChannelMessage

	Notification = notify.Notification

	AuditEntry = audit.Entry
)

// Models lists every table the service migrates, parents first.
func Models() []any {
	return []any{
		&Campaign{},
		&CreatorProfile{},
		&CandidateRelationship{},
		&Offer{},
		&Contract{},
		&EscrowTransaction{},
		&Deliverable{},
		&Channel{},
		&ChannelMessage{},
		&Notification{},
		&AuditEntry{},
	}
}
