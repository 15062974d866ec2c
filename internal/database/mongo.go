package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ammar1510/chatterbox/internal/models"
)

const defaultMongoDatabase = "chat"

// MongoDB stores users and messages as documents. IDs are kept as UUID
// strings so every backend hands out the same identifiers.
type MongoDB struct {
	client   *mongo.Client
	users    *mongo.Collection
	messages *mongo.Collection
	now      func() time.Time
}

type userDocument struct {
	ID           string    `bson:"_id"`
	FullName     string    `bson:"full_name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	ProfilePic   string    `bson:"profile_pic"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type messageDocument struct {
	ID         string    `bson:"_id"`
	SenderID   string    `bson:"sender_id"`
	ReceiverID string    `bson:"receiver_id"`
	Text       string    `bson:"text,omitempty"`
	Image      string    `bson:"image,omitempty"`
	CreatedAt  time.Time `bson:"created_at"`
}

// mongoDatabaseName takes the database from the URI path, e.g.
// mongodb://host:27017/chat.
func mongoDatabaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultMongoDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultMongoDatabase
}

func NewMongoDB(ctx context.Context, uri string) (*MongoDB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping error: %w", err)
	}

	db := client.Database(mongoDatabaseName(uri))
	m := &MongoDB{
		client:   client,
		users:    db.Collection("users"),
		messages: db.Collection("messages"),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return m, nil
}

func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	_, err := m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users index error: %w", err)
	}

	_, err = m.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("messages index error: %w", err)
	}

	return nil
}

// mapUserError translates driver errors from user queries into the
// package sentinels.
func mapUserError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrUserNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrUserAlreadyExists
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

func toUserDocument(u *models.User) userDocument {
	return userDocument{
		ID:           u.ID.String(),
		FullName:     u.FullName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		ProfilePic:   u.ProfilePic,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDocument) model() (*models.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("bad user id %q: %w", d.ID, err)
	}
	return &models.User{
		ID:           id,
		FullName:     d.FullName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		ProfilePic:   d.ProfilePic,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

func (d messageDocument) model() (*models.Message, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("bad message id %q: %w", d.ID, err)
	}
	sender, err := uuid.Parse(d.SenderID)
	if err != nil {
		return nil, fmt.Errorf("bad sender id %q: %w", d.SenderID, err)
	}
	receiver, err := uuid.Parse(d.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("bad receiver id %q: %w", d.ReceiverID, err)
	}
	return &models.Message{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Text:       d.Text,
		Image:      d.Image,
		CreatedAt:  d.CreatedAt,
	}, nil
}

func (m *MongoDB) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	stored := *user
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	now := m.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	if _, err := m.users.InsertOne(ctx, toUserDocument(&stored)); err != nil {
		return nil, mapUserError(err)
	}

	return &stored, nil
}

func (m *MongoDB) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := m.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapUserError(err)
	}
	return doc.model()
}

func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findUser(ctx, bson.M{"email": email})
}

func (m *MongoDB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.findUser(ctx, bson.M{"_id": id.String()})
}

func (m *MongoDB) GetAllUsers(ctx context.Context, excludeUserID uuid.UUID) ([]*models.User, error) {
	cursor, err := m.users.Find(ctx,
		bson.M{"_id": bson.M{"$ne": excludeUserID.String()}},
		options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]*models.User, 0, len(docs))
	for _, doc := range docs {
		user, err := doc.model()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (m *MongoDB) UpdateUser(ctx context.Context, id uuid.UUID, update models.ProfileUpdate) (*models.User, error) {
	set := bson.M{
		"full_name":  update.FullName,
		"email":      update.Email,
		"updated_at": m.now(),
	}
	if update.ProfilePic != "" {
		set["profile_pic"] = update.ProfilePic
	}

	var doc userDocument
	err := m.users.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mapUserError(err)
	}

	return doc.model()
}

func (m *MongoDB) CreateMessage(ctx context.Context, message *models.Message) (*models.Message, error) {
	stored := *message
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.CreatedAt = m.now()

	doc := messageDocument{
		ID:         stored.ID.String(),
		SenderID:   stored.SenderID.String(),
		ReceiverID: stored.ReceiverID.String(),
		Text:       stored.Text,
		Image:      stored.Image,
		CreatedAt:  stored.CreatedAt,
	}
	if _, err := m.messages.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &stored, nil
}

func (m *MongoDB) GetConversation(ctx context.Context, userID1, userID2 uuid.UUID) ([]*models.Message, error) {
	a, b := userID1.String(), userID2.String()
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": a, "receiver_id": b},
		bson.M{"sender_id": b, "receiver_id": a},
	}}

	cursor, err := m.messages.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}

	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	messages := make([]*models.Message, 0, len(docs))
	for _, doc := range docs {
		msg, err := doc.model()
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (m *MongoDB) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
