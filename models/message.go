package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageType string

const (
	MessageDirect       MessageType = "Direct"
	MessageAnnouncement MessageType = "Announcement"
	MessageSystem       MessageType = "System"
)

func (t MessageType) Valid() bool {
	return t == MessageDirect || t == MessageAnnouncement || t == MessageSystem
}

// Broadcast types may only be sent by an admin.
func (t MessageType) Broadcast() bool {
	return t == MessageAnnouncement || t == MessageSystem
}

type MessagePriority string

const (
	MessageLow    MessagePriority = "Low"
	MessageNormal MessagePriority = "Normal"
	MessageHigh   MessagePriority = "High"
	MessageUrgent MessagePriority = "Urgent"
)

func (p MessagePriority) Valid() bool {
	switch p {
	case MessageLow, MessageNormal, MessageHigh, MessageUrgent:
		return true
	}
	return false
}

type MessageStatus string

const (
	MessageSent      MessageStatus = "Sent"
	MessageDelivered MessageStatus = "Delivered"
	MessageRead      MessageStatus = "Read"
	MessageArchived  MessageStatus = "Archived"
)

type Message struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	SenderID    primitive.ObjectID  `json:"senderId" bson:"sender"`
	RecipientID *primitive.ObjectID `json:"recipientId,omitempty" bson:"recipient,omitempty"`
	Subject     string              `json:"subject" bson:"subject"`
	Content     string              `json:"content" bson:"content"`
	MessageType MessageType         `json:"messageType" bson:"messageType"`
	Priority    MessagePriority     `json:"priority" bson:"priority"`
	Status      MessageStatus       `json:"status" bson:"status"`
	ReadAt      *time.Time          `json:"readAt,omitempty" bson:"readAt,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// IsBroadcast is true for announcements without a specific recipient.
func (m *Message) IsBroadcast() bool {
	return m.RecipientID == nil
}

func (m *Message) IsRecipient(userID primitive.ObjectID) bool {
	return m.RecipientID != nil && *m.RecipientID == userID
}
