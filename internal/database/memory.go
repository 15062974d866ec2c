package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ammar1510/chatterbox/internal/models"
)

// MemoryDB keeps users and messages in process memory. Email uniqueness is
// enforced under the same lock as the insert, like a unique index.
type MemoryDB struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*models.User
	byEmail  map[string]uuid.UUID
	messages []*models.Message
	now      func() time.Time
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users:   make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]uuid.UUID),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (db *MemoryDB) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.byEmail[user.Email]; exists {
		return nil, ErrUserAlreadyExists
	}

	stored := *user
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	now := db.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	db.users[stored.ID] = &stored
	db.byEmail[stored.Email] = stored.ID

	out := stored
	return &out, nil
}

func (db *MemoryDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	id, ok := db.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *db.users[id]
	return &out, nil
}

func (db *MemoryDB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	user, ok := db.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (db *MemoryDB) GetAllUsers(ctx context.Context, excludeUserID uuid.UUID) ([]*models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	users := make([]*models.User, 0, len(db.users))
	for id, user := range db.users {
		if id == excludeUserID {
			continue
		}
		out := *user
		users = append(users, &out)
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].FullName != users[j].FullName {
			return users[i].FullName < users[j].FullName
		}
		return users[i].ID.String() < users[j].ID.String()
	})

	return users, nil
}

func (db *MemoryDB) UpdateUser(ctx context.Context, id uuid.UUID, update models.ProfileUpdate) (*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	user, ok := db.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	if owner, taken := db.byEmail[update.Email]; taken && owner != id {
		return nil, ErrUserAlreadyExists
	}

	delete(db.byEmail, user.Email)
	user.FullName = update.FullName
	user.Email = update.Email
	if update.ProfilePic != "" {
		user.ProfilePic = update.ProfilePic
	}
	user.UpdatedAt = db.now()
	db.byEmail[user.Email] = id

	out := *user
	return &out, nil
}

func (db *MemoryDB) CreateMessage(ctx context.Context, message *models.Message) (*models.Message, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[message.SenderID]; !ok {
		return nil, ErrUserNotFound
	}
	if _, ok := db.users[message.ReceiverID]; !ok {
		return nil, ErrUserNotFound
	}

	stored := *message
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	// Creation times are strictly increasing within the store.
	stored.CreatedAt = db.now()
	if n := len(db.messages); n > 0 && !stored.CreatedAt.After(db.messages[n-1].CreatedAt) {
		stored.CreatedAt = db.messages[n-1].CreatedAt.Add(time.Microsecond)
	}
	db.messages = append(db.messages, &stored)

	out := stored
	return &out, nil
}

func (db *MemoryDB) GetConversation(ctx context.Context, userID1, userID2 uuid.UUID) ([]*models.Message, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	messages := make([]*models.Message, 0)
	for _, msg := range db.messages {
		if (msg.SenderID == userID1 && msg.ReceiverID == userID2) ||
			(msg.SenderID == userID2 && msg.ReceiverID == userID1) {
			out := *msg
			messages = append(messages, &out)
		}
	}

	return messages, nil
}

func (db *MemoryDB) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (db *MemoryDB) Close() error {
	return nil
}
