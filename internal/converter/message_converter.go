package converter

import (
	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/domain/entity"
)

func MessageToResponse(message *entity.Message) *dto.MessageResponse {
	if message == nil {
		return nil
	}

	return &dto.MessageResponse{
		ID:            message.ID,
		SenderID:      message.SenderID,
		ReceiverID:    message.ReceiverID,
		Content:       message.Content,
		Timestamp:     message.Timestamp,
		Read:          message.Read,
		AttachmentURL: message.AttachmentURL,
	}
}

func MessagesToResponse(messages []entity.Message) []dto.MessageResponse {
	responses := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, *MessageToResponse(&messages[i]))
	}
	return responses
}
