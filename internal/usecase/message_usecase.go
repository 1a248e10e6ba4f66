package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"patient-monitoring-service/internal/converter"
	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/domain/entity"
	"patient-monitoring-service/internal/domain/repository"
	"patient-monitoring-service/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

var (
	ErrReceiverNotFound  = errors.New("receiver not found")
	ErrCannotMessageSelf = errors.New("cannot send a message to yourself")
	ErrInvalidSenderID   = errors.New("sender_id must be a valid UUID")
)

type MessageUsecase interface {
	Send(ctx context.Context, identity *entity.Identity, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	GetConversation(ctx context.Context, identity *entity.Identity, userID1, userID2 uuid.UUID) ([]dto.MessageResponse, error)
	ListConversations(ctx context.Context, identity *entity.Identity) ([]dto.UserResponse, error)
	MarkRead(ctx context.Context, identity *entity.Identity, req *dto.MarkReadRequest) (*dto.MarkReadResponse, error)
}

type messageUsecase struct {
	transactor  repository.Transactor
	log         *logrus.Logger
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	metrics     *metrics.Collector
	now         func() time.Time
}

func NewMessageUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	messageRepo repository.MessageRepository,
	collector *metrics.Collector,
) MessageUsecase {
	return &messageUsecase{
		transactor:  transactor,
		log:         log,
		userRepo:    userRepo,
		messageRepo: messageRepo,
		metrics:     collector,
		now:         time.Now,
	}
}

func (u *messageUsecase) Send(ctx context.Context, identity *entity.Identity, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	db := u.transactor.DB(ctx)
	caller, err := resolveCaller(db, u.userRepo, identity)
	if err != nil {
		return nil, err
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return nil, ErrReceiverNotFound
	}
	if receiverID == caller.ID {
		return nil, ErrCannotMessageSelf
	}

	receiver, err := u.userRepo.FindByID(db, receiverID)
	if err != nil {
		u.log.Warnf("Failed to find receiver %s: %+v", receiverID, err)
		return nil, err
	}
	if receiver == nil {
		return nil, ErrReceiverNotFound
	}

	message := &entity.Message{
		ID:            uuid.New(),
		SenderID:      caller.ID,
		ReceiverID:    receiver.ID,
		Content:       req.Content,
		Timestamp:     u.now(),
		Read:          false,
		AttachmentURL: strings.TrimSpace(req.AttachmentURL),
	}

	if err := u.messageRepo.Create(db, message); err != nil {
		u.log.Warnf("Failed to send message: %+v", err)
		return nil, err
	}

	u.metrics.MessageSent()

	return converter.MessageToResponse(message), nil
}

// GetConversation returns both directions between the two users, oldest first.
func (u *messageUsecase) GetConversation(ctx context.Context, identity *entity.Identity, userID1, userID2 uuid.UUID) ([]dto.MessageResponse, error) {
	db := u.transactor.DB(ctx)
	caller, err := resolveCaller(db, u.userRepo, identity)
	if err != nil {
		return nil, err
	}
	if caller.ID != userID1 && caller.ID != userID2 {
		return nil, ErrForbidden
	}

	var forward, backward []entity.Message
	p := pool.New().WithErrors()
	p.Go(func() error {
		var err error
		forward, err = u.messageRepo.FindBetween(db, userID1, userID2)
		return err
	})
	p.Go(func() error {
		var err error
		backward, err = u.messageRepo.FindBetween(db, userID2, userID1)
		return err
	})
	if err := p.Wait(); err != nil {
		u.log.Warnf("Failed to load conversation between %s and %s: %+v", userID1, userID2, err)
		return nil, err
	}

	messages := make([]entity.Message, 0, len(forward)+len(backward))
	messages = append(messages, forward...)
	messages = append(messages, backward...)
	slices.SortStableFunc(messages, func(a, b entity.Message) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	return converter.MessagesToResponse(messages), nil
}

// ListConversations returns everyone the caller has exchanged messages
// with, most recent conversation first.
func (u *messageUsecase) ListConversations(ctx context.Context, identity *entity.Identity) ([]dto.UserResponse, error) {
	db := u.transactor.DB(ctx)
	caller, err := resolveCaller(db, u.userRepo, identity)
	if err != nil {
		return nil, err
	}

	var sent, received []entity.Message
	p := pool.New().WithErrors()
	p.Go(func() error {
		var err error
		sent, err = u.messageRepo.FindBySenderID(db, caller.ID)
		return err
	})
	p.Go(func() error {
		var err error
		received, err = u.messageRepo.FindByReceiverID(db, caller.ID)
		return err
	})
	if err := p.Wait(); err != nil {
		u.log.Warnf("Failed to load messages of user %s: %+v", caller.ID, err)
		return nil, err
	}

	counterparts := conversationCounterparts(caller.ID, sent, received)
	if len(counterparts) == 0 {
		return []dto.UserResponse{}, nil
	}

	users, err := u.userRepo.FindByIDs(db, counterparts)
	if err != nil {
		u.log.Warnf("Failed to load conversation partners of user %s: %+v", caller.ID, err)
		return nil, err
	}

	byID := make(map[uuid.UUID]entity.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}
	ordered := make([]entity.User, 0, len(users))
	for _, id := range counterparts {
		if user, ok := byID[id]; ok {
			ordered = append(ordered, user)
		}
	}

	return converter.UsersToResponse(ordered), nil
}

// conversationCounterparts returns the distinct other participants, in the
// order they first appear when messages are sorted newest first.
func conversationCounterparts(userID uuid.UUID, sent, received []entity.Message) []uuid.UUID {
	messages := make([]entity.Message, 0, len(sent)+len(received))
	messages = append(messages, sent...)
	messages = append(messages, received...)
	slices.SortStableFunc(messages, func(a, b entity.Message) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	seen := make(map[uuid.UUID]struct{}, len(messages))
	counterparts := make([]uuid.UUID, 0)
	for i := range messages {
		other := messages[i].Counterpart(userID)
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		counterparts = append(counterparts, other)
	}
	return counterparts
}

// MarkRead flips every unread message from the sender to the caller.
// Calling it again returns a count of zero.
func (u *messageUsecase) MarkRead(ctx context.Context, identity *entity.Identity, req *dto.MarkReadRequest) (*dto.MarkReadResponse, error) {
	db := u.transactor.DB(ctx)
	caller, err := resolveCaller(db, u.userRepo, identity)
	if err != nil {
		return nil, err
	}

	senderID, err := uuid.Parse(req.SenderID)
	if err != nil {
		return nil, ErrInvalidSenderID
	}

	count, err := u.messageRepo.MarkRead(db, senderID, caller.ID)
	if err != nil {
		u.log.Warnf("Failed to mark messages from %s as read: %+v", senderID, err)
		return nil, err
	}

	u.metrics.MessagesMarkedRead(count)

	return &dto.MarkReadResponse{
		Success: true,
		Count:   count,
	}, nil
}
