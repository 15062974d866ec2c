package models

import (
	"time"

	"github.com/google/uuid"
)

// Message represents a chat message in the system
type Message struct {
	ID         uuid.UUID `json:"_id"`
	SenderID   uuid.UUID `json:"senderId"`
	ReceiverID uuid.UUID `json:"receiverId"`
	Text       string    `json:"text"`
	Image      string    `json:"image"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SendMessageRequest is the structure for message creation requests.
// Image may be a data:image payload or bare base64.
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
	Image      string `json:"image"`
}

// MessageResponse is what we return to clients
type MessageResponse struct {
	ID         uuid.UUID     `json:"_id"`
	SenderID   uuid.UUID     `json:"senderId"`
	ReceiverID uuid.UUID     `json:"receiverId"`
	Text       string        `json:"text"`
	Image      string        `json:"image"`
	CreatedAt  time.Time     `json:"createdAt"`
	Sender     *UserResponse `json:"sender,omitempty"`
	Receiver   *UserResponse `json:"receiver,omitempty"`
}

// Expand builds the client view of m with both participants attached.
func (m *Message) Expand(sender, receiver *User) MessageResponse {
	resp := MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Text:       m.Text,
		Image:      m.Image,
		CreatedAt:  m.CreatedAt,
	}
	if sender != nil {
		s := sender.Public()
		resp.Sender = &s
	}
	if receiver != nil {
		r := receiver.Public()
		resp.Receiver = &r
	}
	return resp
}
