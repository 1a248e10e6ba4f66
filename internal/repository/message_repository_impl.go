package repository

import (
	"patient-monitoring-service/internal/domain/entity"
	domainRepo "patient-monitoring-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type messageRepository struct{}

func NewMessageRepository() domainRepo.MessageRepository {
	return &messageRepository{}
}

func (r *messageRepository) Create(db *gorm.DB, message *entity.Message) error {
	return db.Create(message).Error
}

func (r *messageRepository) FindBetween(db *gorm.DB, senderID, receiverID uuid.UUID) ([]entity.Message, error) {
	var messages []entity.Message
	err := db.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		Order("sent_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) FindBySenderID(db *gorm.DB, senderID uuid.UUID) ([]entity.Message, error) {
	var messages []entity.Message
	err := db.Where("sender_id = ?", senderID).
		Order("sent_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) FindByReceiverID(db *gorm.DB, receiverID uuid.UUID) ([]entity.Message, error) {
	var messages []entity.Message
	err := db.Where("receiver_id = ?", receiverID).
		Order("sent_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead is a single conditional UPDATE, so two concurrent callers cannot
// both count the same message.
func (r *messageRepository) MarkRead(db *gorm.DB, senderID, receiverID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", senderID, receiverID, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}
