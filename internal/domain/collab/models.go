package collab

import (
	"time"

	"github.com/google/uuid"
)

// Campaign is owned by the campaign service; the engine only reads it to
// resolve the brand side of a relationship.
type Campaign struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BrandUserID   uuid.UUID  `gorm:"type:uuid;column:brand_user_id;not null;index" json:"brand_user_id"`
	ManagerUserID *uuid.UUID `gorm:"type:uuid;column:manager_user_id;index" json:"manager_user_id,omitempty"`
	Title         string     `gorm:"column:title;not null;default:''" json:"title"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Campaign) TableName() string { return "campaign" }

type CreatorProfile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex" json:"user_id"`
	DisplayName string    `gorm:"column:display_name;not null;default:''" json:"display_name"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (CreatorProfile) TableName() string { return "creator_profile" }

type CandidateRelationship struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID uuid.UUID       `gorm:"type:uuid;column:campaign_id;not null;uniqueIndex:idx_candidate_campaign_creator,priority:1" json:"campaign_id"`
	Campaign   *Campaign       `gorm:"constraint:OnDelete:CASCADE;foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
	CreatorID  uuid.UUID       `gorm:"type:uuid;column:creator_id;not null;uniqueIndex:idx_candidate_campaign_creator,priority:2;index" json:"creator_id"`
	Creator    *CreatorProfile `gorm:"constraint:OnDelete:CASCADE;foreignKey:CreatorID;references:ID" json:"creator,omitempty"`
	Status     CandidateStatus `gorm:"column:status;not null;index" json:"status"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (CandidateRelationship) TableName() string { return "candidate_relationship" }

type Offer struct {
	ID                      uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	RelationshipID          uuid.UUID              `gorm:"type:uuid;column:relationship_id;not null;uniqueIndex" json:"relationship_id"`
	Relationship            *CandidateRelationship `gorm:"constraint:OnDelete:CASCADE;foreignKey:RelationshipID;references:ID" json:"-"`
	Amount                  float64                `gorm:"column:amount;type:numeric(14,2);not null" json:"amount"`
	DeliverablesDescription string                 `gorm:"column:deliverables_description;type:text;not null;default:''" json:"deliverables_description"`
	Status                  OfferStatus            `gorm:"column:status;not null;index" json:"status"`
	History                 OfferHistory           `gorm:"column:history;not null" json:"history"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Offer) TableName() string { return "offer" }

type Contract struct {
	ID             uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	RelationshipID uuid.UUID              `gorm:"type:uuid;column:relationship_id;not null;uniqueIndex" json:"relationship_id"`
	Relationship   *CandidateRelationship `gorm:"constraint:OnDelete:CASCADE;foreignKey:RelationshipID;references:ID" json:"-"`
	Kind           ContractKind           `gorm:"column:kind;not null" json:"kind"`
	TotalAmount    float64                `gorm:"column:total_amount;type:numeric(14,2);not null" json:"total_amount"`
	PlatformFee    float64                `gorm:"column:platform_fee;type:numeric(14,2);not null" json:"platform_fee"`
	TaxAmount      float64                `gorm:"column:tax_amount;type:numeric(14,2);not null;default:0" json:"tax_amount"`
	Status         ContractStatus         `gorm:"column:status;not null;index" json:"status"`
	StartDate      time.Time              `gorm:"column:start_date;not null" json:"start_date"`
	EndDate        *time.Time             `gorm:"column:end_date" json:"end_date,omitempty"`
	Terms          string                 `gorm:"column:terms;type:text;not null;default:''" json:"terms"`

	Transactions []EscrowTransaction `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
	Deliverables []Deliverable       `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"deliverables,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Contract) TableName() string { return "contract" }

type EscrowTransaction struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID uuid.UUID    `gorm:"type:uuid;column:contract_id;not null;index" json:"contract_id"`
	Amount     float64      `gorm:"column:amount;type:numeric(14,2);not null" json:"amount"`
	Type       EscrowType   `gorm:"column:type;not null" json:"type"`
	Status     EscrowStatus `gorm:"column:status;not null;index" json:"status"`
	GatewayRef *string      `gorm:"column:gateway_ref" json:"gateway_ref,omitempty"`
	FundedAt   *time.Time   `gorm:"column:funded_at" json:"funded_at,omitempty"`
	ReleasedAt *time.Time   `gorm:"column:released_at" json:"released_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (EscrowTransaction) TableName() string { return "escrow_transaction" }

type Deliverable struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID      uuid.UUID         `gorm:"type:uuid;column:contract_id;not null;index:idx_deliverable_contract_position,unique,priority:1" json:"contract_id"`
	Position        int               `gorm:"column:position;not null;index:idx_deliverable_contract_position,unique,priority:2" json:"position"`
	Title           string            `gorm:"column:title;not null;default:''" json:"title"`
	Description     string            `gorm:"column:description;type:text;not null;default:''" json:"description"`
	Status          DeliverableStatus `gorm:"column:status;not null;index" json:"status"`
	SubmissionURL   string            `gorm:"column:submission_url;not null;default:''" json:"submission_url,omitempty"`
	SubmissionNotes string            `gorm:"column:submission_notes;type:text;not null;default:''" json:"submission_notes,omitempty"`
	SubmittedAt     *time.Time        `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	ApprovedAt      *time.Time        `gorm:"column:approved_at" json:"approved_at,omitempty"`
	DueDate         *time.Time        `gorm:"column:due_date" json:"due_date,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Deliverable) TableName() string { return "deliverable" }
