package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"HospitalCare/models"
	"HospitalCare/policy"
	"HospitalCare/role"
	"HospitalCare/util"
)

type SendMessageInput struct {
	RecipientID string `json:"recipientId"`
	Subject     string `json:"subject" binding:"required"`
	Content     string `json:"content" binding:"required"`
	MessageType string `json:"messageType"`
	Priority    string `json:"priority"`
}

type MessageService struct {
	messages MessageRepository
	users    UserRepository
	log      *zap.Logger
}

func NewMessageService(messages MessageRepository, users UserRepository, log *zap.Logger) *MessageService {
	return &MessageService{messages: messages, users: users, log: log.Named("messages")}
}

/*
* Default to a Direct message with Normal priority
* Announcements and System messages are admin only and may omit the recipient
* Direct messages need a recipient that exists
 */
func (s *MessageService) Send(ctx context.Context, p *policy.Principal, in SendMessageInput) (*models.Message, error) {
	if strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, util.Validation(util.MESSAGE_CONTENT_REQUIRED)
	}
	kind := models.MessageDirect
	if in.MessageType != "" {
		kind = models.MessageType(in.MessageType)
	}
	if !kind.Valid() {
		return nil, util.Validation(util.INVALID_MESSAGE_TYPE)
	}
	priority := models.MessageNormal
	if in.Priority != "" {
		priority = models.MessagePriority(in.Priority)
	}
	if !priority.Valid() {
		return nil, util.Validation(util.INVALID_MESSAGE_PRIORITY)
	}
	if kind.Broadcast() && !p.Is(role.Admin) {
		return nil, util.Forbidden(util.ONLY_ADMIN_BROADCASTS)
	}
	if !p.Can(policy.Message, policy.Create, policy.OwnedByUsers(p.UserID())) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}

	msg := &models.Message{
		SenderID:    p.UserID(),
		Subject:     strings.TrimSpace(in.Subject),
		Content:     in.Content,
		MessageType: kind,
		Priority:    priority,
		Status:      models.MessageSent,
	}
	recipientID, err := parseOptionalID(in.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipientID == nil && !kind.Broadcast() {
		return nil, util.Validation(util.RECIPIENT_REQUIRED)
	}
	if recipientID != nil {
		if _, err := s.users.FindByID(ctx, *recipientID); err != nil {
			if util.IsKind(err, util.KindNotFound) {
				return nil, util.NotFound(util.RECIPIENT_NOT_FOUND)
			}
			return nil, err
		}
		msg.RecipientID = recipientID
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		s.log.Error("sending message failed", zap.Error(err))
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) Inbox(ctx context.Context, p *policy.Principal, page models.Page) (*Paged[models.Message], error) {
	list, total, err := s.messages.Inbox(ctx, p.UserID(), page)
	if err != nil {
		s.log.Error("loading inbox failed", zap.Error(err))
		return nil, err
	}
	return newPaged(list, total, page), nil
}

func (s *MessageService) Sent(ctx context.Context, p *policy.Principal, page models.Page) (*Paged[models.Message], error) {
	list, total, err := s.messages.Sent(ctx, p.UserID(), page)
	if err != nil {
		s.log.Error("loading sent messages failed", zap.Error(err))
		return nil, err
	}
	return newPaged(list, total, page), nil
}

func (s *MessageService) UnreadCount(ctx context.Context, p *policy.Principal) (int64, error) {
	return s.messages.CountUnread(ctx, p.UserID())
}

func (s *MessageService) load(ctx context.Context, id string) (*models.Message, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.messages.FindByID(ctx, oid)
}

func participants(m *models.Message) policy.Owner {
	if m.RecipientID == nil {
		return policy.OwnedByUsers(m.SenderID)
	}
	return policy.OwnedByUsers(m.SenderID, *m.RecipientID)
}

func (s *MessageService) Get(ctx context.Context, p *policy.Principal, id string) (*models.Message, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.IsBroadcast() && !p.Can(policy.Message, policy.View, participants(m)) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	return m, nil
}

func (s *MessageService) setStatus(ctx context.Context, p *policy.Principal, id string, status models.MessageStatus) (*models.Message, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.IsRecipient(p.UserID()) {
		return nil, util.Forbidden(util.ONLY_RECIPIENT_CAN_MODIFY)
	}
	m.Status = status
	if status == models.MessageRead && m.ReadAt == nil {
		at := clock()
		m.ReadAt = &at
	}
	if err := s.messages.Update(ctx, m); err != nil {
		s.log.Error("updating message failed", zap.Stringer("message", m.ID), zap.Error(err))
		return nil, err
	}
	return m, nil
}

func (s *MessageService) MarkRead(ctx context.Context, p *policy.Principal, id string) (*models.Message, error) {
	return s.setStatus(ctx, p, id, models.MessageRead)
}

func (s *MessageService) Archive(ctx context.Context, p *policy.Principal, id string) (*models.Message, error) {
	return s.setStatus(ctx, p, id, models.MessageArchived)
}

// Delete is open to the sender and to admin.
func (s *MessageService) Delete(ctx context.Context, p *policy.Principal, id string) error {
	m, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !p.Can(policy.Message, policy.Delete, policy.OwnedByUsers(m.SenderID)) {
		return util.Forbidden(util.ACCESS_DENIED)
	}
	if err := s.messages.Delete(ctx, m.ID); err != nil {
		s.log.Error("deleting message failed", zap.Stringer("message", m.ID), zap.Error(err))
		return err
	}
	return nil
}
