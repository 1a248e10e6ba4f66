package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	ReceiverID    string `json:"receiver_id" validate:"required,uuid"`
	Content       string `json:"content" validate:"required,max=10000"`
	AttachmentURL string `json:"attachment_url" validate:"omitempty,url,max=2048"`
}

type MarkReadRequest struct {
	SenderID string `json:"sender_id" validate:"required,uuid"`
}

type MessageResponse struct {
	ID            uuid.UUID `json:"id"`
	SenderID      uuid.UUID `json:"sender_id"`
	ReceiverID    uuid.UUID `json:"receiver_id"`
	Content       string    `json:"content"`
	Timestamp     time.Time `json:"timestamp"`
	Read          bool      `json:"read"`
	AttachmentURL string    `json:"attachment_url,omitempty"`
}

type MarkReadResponse struct {
	Success bool  `json:"success"`
	Count   int64 `json:"count"`
}

type AttachmentResponse struct {
	AttachmentURL string `json:"attachment_url"`
	ContentType   string `json:"content_type"`
	Size          int64  `json:"size"`
}
