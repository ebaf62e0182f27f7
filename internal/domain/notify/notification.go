package notify

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryInvitation  Category = "INVITATION"
	CategoryOffer       Category = "OFFER"
	CategoryContract    Category = "CONTRACT"
	CategoryPayment     Category = "PAYMENT"
	CategoryDeliverable Category = "DELIVERABLE"
	CategoryStatus      Category = "STATUS"
)

// Notification is an inbox row. It is a projection of lifecycle events and
// is never read back by the engine.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID  `gorm:"type:uuid;column:recipient_id;not null;index:idx_notification_recipient_created,priority:1" json:"recipient_id"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Message     string     `gorm:"column:message;type:text;not null;default:''" json:"message"`
	Category    Category   `gorm:"column:category;not null;index" json:"category"`
	Link        *string    `gorm:"column:link" json:"link,omitempty"`
	Read        bool       `gorm:"column:read;not null;default:false;index" json:"read"`
	ReadAt      *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;index:idx_notification_recipient_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Notification) TableName() string { return "notification" }
