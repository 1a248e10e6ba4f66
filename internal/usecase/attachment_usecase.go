package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/domain/entity"
	"patient-monitoring-service/internal/domain/repository"
	"patient-monitoring-service/internal/service"
	"patient-monitoring-service/pkg/metrics"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnsupportedAttachment = errors.New("attachment type is not supported")
	ErrAttachmentTooLarge    = errors.New("attachment exceeds the maximum size")
	ErrEmptyAttachment       = errors.New("attachment is empty")
)

// sniffLength is how many leading bytes are inspected to detect the type.
const sniffLength = 3072

var allowedAttachmentTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"application/pdf",
}

type AttachmentUsecase interface {
	Upload(ctx context.Context, identity *entity.Identity, file io.Reader, size int64) (*dto.AttachmentResponse, error)
}

type attachmentUsecase struct {
	transactor repository.Transactor
	log        *logrus.Logger
	userRepo   repository.UserRepository
	storage    service.AttachmentStorage
	metrics    *metrics.Collector
	maxBytes   int64
}

func NewAttachmentUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	storage service.AttachmentStorage,
	collector *metrics.Collector,
	maxBytes int64,
) AttachmentUsecase {
	return &attachmentUsecase{
		transactor: transactor,
		log:        log,
		userRepo:   userRepo,
		storage:    storage,
		metrics:    collector,
		maxBytes:   maxBytes,
	}
}

func (u *attachmentUsecase) Upload(ctx context.Context, identity *entity.Identity, file io.Reader, size int64) (*dto.AttachmentResponse, error) {
	caller, err := resolveCaller(u.transactor.DB(ctx), u.userRepo, identity)
	if err != nil {
		return nil, err
	}

	if size <= 0 {
		return nil, ErrEmptyAttachment
	}
	if u.maxBytes > 0 && size > u.maxBytes {
		return nil, ErrAttachmentTooLarge
	}

	header := make([]byte, sniffLength)
	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		u.log.Warnf("Failed to read attachment: %+v", err)
		return nil, err
	}
	if n == 0 {
		return nil, ErrEmptyAttachment
	}
	header = header[:n]

	detected := mimetype.Detect(header)
	if !mimetype.EqualsAny(detected.String(), allowedAttachmentTypes...) {
		return nil, ErrUnsupportedAttachment
	}

	key := fmt.Sprintf("attachments/%s/%s%s", caller.ID, uuid.New(), detected.Extension())
	body := io.MultiReader(bytes.NewReader(header), file)

	url, err := u.storage.Put(ctx, key, body, size, detected.String())
	if err != nil {
		u.log.Warnf("Failed to store attachment: %+v", err)
		return nil, err
	}

	u.metrics.AttachmentUploaded(detected.String())
	u.log.WithFields(logrus.Fields{
		"user_id":      caller.ID,
		"key":          key,
		"content_type": detected.String(),
	}).Info("Attachment uploaded")

	return &dto.AttachmentResponse{
		AttachmentURL: url,
		ContentType:   detected.String(),
		Size:          size,
	}, nil
}
