package handler

import (
	"errors"
	"net/http"

	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/delivery/http/middleware"
	"patient-monitoring-service/internal/usecase"
	"patient-monitoring-service/pkg/response"
	"patient-monitoring-service/pkg/validator"
)

// multipart overhead allowed on top of the attachment itself
const multipartSlack = 1 << 20

type MessageHandler struct {
	messageUsecase    usecase.MessageUsecase
	attachmentUsecase usecase.AttachmentUsecase
	validator         *validator.CustomValidator
	maxUploadBytes    int64
}

func NewMessageHandler(
	messageUsecase usecase.MessageUsecase,
	attachmentUsecase usecase.AttachmentUsecase,
	validator *validator.CustomValidator,
	maxUploadBytes int64,
) *MessageHandler {
	return &MessageHandler{
		messageUsecase:    messageUsecase,
		attachmentUsecase: attachmentUsecase,
		validator:         validator,
		maxUploadBytes:    maxUploadBytes,
	}
}

// Send delivers a message from the caller
// @Summary Send message
// @Tags Messages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /messages [post]
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	message, err := h.messageUsecase.Send(r.Context(), middleware.IdentityFromContext(r.Context()), &req)
	if err != nil {
		writeError(w, err, "Failed to send message")
		return
	}

	response.Success(w, http.StatusCreated, "Message sent successfully", message)
}

// GetConversation
// @Summary Get the conversation between two users
// @Tags Messages
// @Security BearerAuth
// @Produce json
// @Param userId1 path string true "First user ID"
// @Param userId2 path string true "Second user ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /messages/conversations/{userId1}/{userId2} [get]
func (h *MessageHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID1, err := pathUUID(r, "userId1")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}
	userID2, err := pathUUID(r, "userId2")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	messages, err := h.messageUsecase.GetConversation(r.Context(), middleware.IdentityFromContext(r.Context()), userID1, userID2)
	if err != nil {
		writeError(w, err, "Failed to get conversation")
		return
	}

	response.Success(w, http.StatusOK, "Conversation retrieved successfully", messages)
}

// ListConversations
// @Summary List conversation partners of the caller
// @Tags Messages
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /messages/conversations [get]
func (h *MessageHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	users, err := h.messageUsecase.ListConversations(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		writeError(w, err, "Failed to list conversations")
		return
	}

	response.Success(w, http.StatusOK, "Conversations retrieved successfully", users)
}

// MarkRead marks every unread message from a sender to the caller as read
// @Summary Mark messages as read
// @Tags Messages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.MarkReadRequest true "Sender"
// @Success 200 {object} response.Response
// @Router /messages/read [post]
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req dto.MarkReadRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.messageUsecase.MarkRead(r.Context(), middleware.IdentityFromContext(r.Context()), &req)
	if err != nil {
		writeError(w, err, "Failed to mark messages as read")
		return
	}

	response.Success(w, http.StatusOK, "Messages marked as read", result)
}

// UploadAttachment stores a file that can then be referenced by Send
// @Summary Upload message attachment
// @Tags Messages
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Attachment"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 413 {object} response.Response
// @Router /messages/attachments [post]
func (h *MessageHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartSlack)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, usecase.ErrAttachmentTooLarge, "")
			return
		}
		response.ValidationError(w, map[string]string{"file": "file is required"})
		return
	}
	defer file.Close()

	attachment, err := h.attachmentUsecase.Upload(r.Context(), middleware.IdentityFromContext(r.Context()), file, header.Size)
	if err != nil {
		writeError(w, err, "Failed to upload attachment")
		return
	}

	response.Success(w, http.StatusCreated, "Attachment uploaded successfully", attachment)
}
