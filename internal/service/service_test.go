package service

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ammar1510/chatterbox/internal/auth"
	"github.com/ammar1510/chatterbox/internal/database"
	"github.com/ammar1510/chatterbox/internal/models"
	"github.com/ammar1510/chatterbox/internal/storage"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func pngDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

func TestMain(m *testing.M) {
	auth.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type fixture struct {
	db       *database.MemoryDB
	blobs    *storage.MemoryStore
	auth     *AuthService
	messages *MessageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	issuer, err := auth.NewTokenIssuer([]byte("service-test-secret"), 0)
	require.NoError(t, err)

	db := database.NewMemoryDB()
	blobs := storage.NewMemoryStore()
	return &fixture{
		db:       db,
		blobs:    blobs,
		auth:     NewAuthService(db, blobs, issuer, 0),
		messages: NewMessageService(db, blobs, 0),
	}
}

func (f *fixture) signup(t *testing.T, name, email, password string) *models.User {
	t.Helper()
	res, err := f.auth.Signup(context.Background(), models.SignupRequest{FullName: name, Email: email, Password: password})
	require.NoError(t, err)
	return res.User
}

// failingBlobs fails every upload and records deletes.
type failingBlobs struct {
	mock.Mock
}

func (b *failingBlobs) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	args := b.Called(contentType)
	return args.String(0), args.Error(1)
}

func (b *failingBlobs) Delete(ctx context.Context, url string) error {
	args := b.Called(url)
	return args.Error(0)
}

// brokenDB wraps a MemoryDB and fails the calls named in failOn.
type brokenDB struct {
	*database.MemoryDB
	failOn map[string]bool
}

var errStoreDown = errors.New("store down")

func (d *brokenDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if d.failOn["GetUserByEmail"] {
		return nil, errStoreDown
	}
	return d.MemoryDB.GetUserByEmail(ctx, email)
}

func (d *brokenDB) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if d.failOn["CreateUserConflict"] {
		return nil, database.ErrUserAlreadyExists
	}
	return d.MemoryDB.CreateUser(ctx, user)
}

func (d *brokenDB) UpdateUser(ctx context.Context, id uuid.UUID, update models.ProfileUpdate) (*models.User, error) {
	if d.failOn["UpdateUser"] {
		return nil, errStoreDown
	}
	return d.MemoryDB.UpdateUser(ctx, id, update)
}

func (d *brokenDB) CreateMessage(ctx context.Context, message *models.Message) (*models.Message, error) {
	if d.failOn["CreateMessage"] {
		return nil, errStoreDown
	}
	return d.MemoryDB.CreateMessage(ctx, message)
}
