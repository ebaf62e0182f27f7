package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActionInvite             = "candidate.invite"
	ActionAcceptInvitation   = "candidate.accept"
	ActionDeclineInvitation  = "candidate.decline"
	ActionReject             = "candidate.reject"
	ActionStatusOverride     = "candidate.status_override"
	ActionComplete           = "candidate.complete"
	ActionOfferUpsert        = "offer.upsert"
	ActionOfferFinalize      = "offer.finalize"
	ActionEscrowFund         = "escrow.fund"
	ActionEscrowRelease      = "escrow.release"
	ActionDirectHire         = "contract.direct_hire"
	ActionDeliverableSubmit  = "deliverable.submit"
	ActionDeliverableApprove = "deliverable.approve"
	ActionDeliverableRevise  = "deliverable.request_revision"
)

const (
	EntityRelationship = "candidate_relationship"
	EntityOffer        = "offer"
	EntityContract     = "contract"
	EntityEscrow       = "escrow_transaction"
	EntityDeliverable  = "deliverable"
)

// Entry is an append-only audit record written in the same transaction as
// the change it describes.
type Entry struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    uuid.UUID      `gorm:"type:uuid;column:actor_id;not null;index" json:"actor_id"`
	ActorRole  string         `gorm:"column:actor_role;not null" json:"actor_role"`
	Action     string         `gorm:"column:action;not null;index" json:"action"`
	EntityType string         `gorm:"column:entity_type;not null;index:idx_audit_entity,priority:1" json:"entity_type"`
	EntityID   uuid.UUID      `gorm:"type:uuid;column:entity_id;not null;index:idx_audit_entity,priority:2" json:"entity_id"`
	Details    datatypes.JSON `gorm:"column:details" json:"details,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Entry) TableName() string { return "audit_entry" }
