package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Channel is a conversation between the parties of a collaboration. Direct
// conversations outside any campaign leave RelationshipID nil.
type Channel struct {
	ID             uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	RelationshipID *uuid.UUID                    `gorm:"type:uuid;column:relationship_id;uniqueIndex" json:"relationship_id,omitempty"`
	Participants   datatypes.JSONSlice[uuid.UUID] `gorm:"column:participants;not null" json:"participants"`

	// Per-channel message sequencing, bumped under the channel row lock.
	NextSeq int64 `gorm:"column:next_seq;not null;default:0" json:"next_seq"`

	LastMessageAt *time.Time `gorm:"column:last_message_at;index" json:"last_message_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Channel) TableName() string { return "conversation_channel" }

func (c *Channel) HasParticipant(userID uuid.UUID) bool {
	if c == nil || userID == uuid.Nil {
		return false
	}
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

type ChannelMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChannelID uuid.UUID `gorm:"type:uuid;column:channel_id;not null;index:idx_channel_message_seq,unique,priority:1" json:"channel_id"`
	SenderID  uuid.UUID `gorm:"type:uuid;column:sender_id;not null;index" json:"sender_id"`
	Seq       int64     `gorm:"column:seq;not null;index:idx_channel_message_seq,unique,priority:2" json:"seq"`
	Content   string    `gorm:"column:content;type:text;not null;default:''" json:"content"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ChannelMessage) TableName() string { return "channel_message" }
