package repository

import (
	"patient-monitoring-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(db *gorm.DB, message *entity.Message) error
	// FindBetween returns one direction only: senderID → receiverID.
	FindBetween(db *gorm.DB, senderID, receiverID uuid.UUID) ([]entity.Message, error)
	FindBySenderID(db *gorm.DB, senderID uuid.UUID) ([]entity.Message, error)
	FindByReceiverID(db *gorm.DB, receiverID uuid.UUID) ([]entity.Message, error)
	// MarkRead flips every unread senderID → receiverID message and returns how many changed.
	MarkRead(db *gorm.DB, senderID, receiverID uuid.UUID) (int64, error)
}
