package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ammar1510/chatterbox/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type DBInterface interface {
	// User methods
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetAllUsers(ctx context.Context, excludeUserID uuid.UUID) ([]*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, update models.ProfileUpdate) (*models.User, error)

	// Message methods
	CreateMessage(ctx context.Context, message *models.Message) (*models.Message, error)
	GetConversation(ctx context.Context, userID1, userID2 uuid.UUID) ([]*models.Message, error)

	// Common methods
	Ping(ctx context.Context) error
	Close() error
}

type DatabaseType string

const (
	PostgreSQL DatabaseType = "postgres"
	PGX        DatabaseType = "pgx"
	Mongo      DatabaseType = "mongodb"
	Memory     DatabaseType = "memory"
)

// NewDatabase opens the store selected by dbType and prepares its schema.
func NewDatabase(ctx context.Context, dbType DatabaseType, connStr string) (DBInterface, error) {
	switch dbType {
	case PostgreSQL, PGX:
		db, err := NewPostgresDB(ctx, string(dbType), connStr)
		if err != nil {
			return nil, err
		}
		return db, nil
	case Mongo:
		db, err := NewMongoDB(ctx, connStr)
		if err != nil {
			return nil, err
		}
		return db, nil
	case Memory:
		return NewMemoryDB(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}
