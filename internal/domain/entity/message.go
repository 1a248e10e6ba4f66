package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is a directed message between two users. Only Read ever changes.
type Message struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SenderID      uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID    uuid.UUID `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Timestamp     time.Time `gorm:"column:sent_at;not null" json:"timestamp"`
	Read          bool      `gorm:"not null;default:false" json:"read"`
	AttachmentURL string    `gorm:"type:text" json:"attachment_url,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

// Counterpart returns the other participant of the message as seen by userID.
func (m *Message) Counterpart(userID uuid.UUID) uuid.UUID {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}
