package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ammar1510/chatterbox/internal/database"
	"github.com/ammar1510/chatterbox/internal/metrics"
	"github.com/ammar1510/chatterbox/internal/models"
	"github.com/ammar1510/chatterbox/internal/storage"
)

// MessageService sends and lists direct messages between two users.
type MessageService struct {
	db     database.DBInterface
	images uploader
}

func NewMessageService(db database.DBInterface, blobs storage.BlobStore, maxImageBytes int) *MessageService {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}
	return &MessageService{db: db, images: uploader{blobs: blobs, maxBytes: maxImageBytes}}
}

// ListContacts returns every user except the caller.
func (s *MessageService) ListContacts(ctx context.Context, callerID uuid.UUID) ([]models.UserResponse, error) {
	users, err := s.db.GetAllUsers(ctx, callerID)
	if err != nil {
		return nil, upstream("list users", err)
	}

	contacts := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		contacts = append(contacts, u.Public())
	}
	return contacts, nil
}

func (s *MessageService) lookup(ctx context.Context, id uuid.UUID, missing string) (*models.User, error) {
	user, err := s.db.GetUserByID(ctx, id)
	if errors.Is(err, database.ErrUserNotFound) {
		return nil, notFound(missing)
	}
	if err != nil {
		return nil, upstream("lookup user", err)
	}
	return user, nil
}

// ListMessages returns the conversation between the caller and otherID in
// chat-log order.
func (s *MessageService) ListMessages(ctx context.Context, callerID, otherID uuid.UUID) ([]models.MessageResponse, error) {
	if otherID == uuid.Nil {
		return nil, invalidInput("User ID is required")
	}

	caller, err := s.lookup(ctx, callerID, "User not found")
	if err != nil {
		return nil, err
	}
	other, err := s.lookup(ctx, otherID, "User not found")
	if err != nil {
		return nil, err
	}

	messages, err := s.db.GetConversation(ctx, callerID, otherID)
	if err != nil {
		return nil, upstream("list messages", err)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		if !messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].CreatedAt.Before(messages[j].CreatedAt)
		}
		return messages[i].ID.String() < messages[j].ID.String()
	})

	participants := map[uuid.UUID]*models.User{caller.ID: caller, other.ID: other}
	out := make([]models.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.Expand(participants[m.SenderID], participants[m.ReceiverID]))
	}
	return out, nil
}

// SendMessage stores a message from senderID. An image payload is uploaded
// before the message is persisted.
func (s *MessageService) SendMessage(ctx context.Context, senderID uuid.UUID, req models.SendMessageRequest) (*models.MessageResponse, error) {
	if strings.TrimSpace(req.ReceiverID) == "" {
		return nil, invalidInput("Receiver ID is required")
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil || receiverID == uuid.Nil {
		return nil, invalidInput("Invalid receiver ID")
	}

	image := strings.TrimSpace(req.Image)
	if strings.TrimSpace(req.Text) == "" && image == "" {
		return nil, invalidInput("Message must have text or an image")
	}

	sender, err := s.lookup(ctx, senderID, "User not found")
	if err != nil {
		return nil, err
	}
	receiver, err := s.lookup(ctx, receiverID, "Receiver not found")
	if err != nil {
		return nil, err
	}

	var imageURL string
	if image != "" {
		imageURL, err = s.images.upload(ctx, image)
		if err != nil {
			return nil, err
		}
	}

	msg, err := s.db.CreateMessage(ctx, &models.Message{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Text:       req.Text,
		Image:      imageURL,
	})
	if err != nil {
		s.images.discard(imageURL)
		return nil, upstream("create message", err)
	}

	metrics.MessagesSent.Inc()
	resp := msg.Expand(sender, receiver)
	return &resp, nil
}
