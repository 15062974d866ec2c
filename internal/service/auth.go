package service

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ammar1510/chatterbox/internal/auth"
	"github.com/ammar1510/chatterbox/internal/database"
	"github.com/ammar1510/chatterbox/internal/logger"
	"github.com/ammar1510/chatterbox/internal/metrics"
	"github.com/ammar1510/chatterbox/internal/models"
	"github.com/ammar1510/chatterbox/internal/storage"
)

const (
	minPasswordLength = 6
	// bcrypt rejects longer inputs.
	maxPasswordBytes = 72
)

var log = logger.New("service")

// AuthResult is returned by a successful signup or login.
type AuthResult struct {
	User  *models.User
	Token string
}

// Response returns the client payload for the result.
func (r *AuthResult) Response() models.AuthResponse {
	return models.AuthResponse{UserResponse: r.User.Public(), Token: r.Token}
}

// AuthService owns credential validation, password hashing and profile updates.
type AuthService struct {
	db       database.DBInterface
	issuer   *auth.TokenIssuer
	images   uploader
	validate *validator.Validate
}

func NewAuthService(db database.DBInterface, blobs storage.BlobStore, issuer *auth.TokenIssuer, maxImageBytes int) *AuthService {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}
	return &AuthService{
		db:       db,
		issuer:   issuer,
		images:   uploader{blobs: blobs, maxBytes: maxImageBytes},
		validate: validator.New(),
	}
}

// Issuer exposes the token issuer used for sessions.
func (s *AuthService) Issuer() *auth.TokenIssuer {
	return s.issuer
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hasWhitespace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

// validateSignup checks the fields in a fixed order and reports the first
// violation.
func validateSignup(req models.SignupRequest) error {
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return invalidInput("Please fill all fields")
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return invalidInput("Password must be at least 6 characters")
	}
	if !strings.Contains(req.Email, "@") {
		return invalidInput("Please enter a valid email")
	}
	if hasWhitespace(req.Password) {
		return invalidInput("Password must not contain spaces")
	}
	if len(req.Password) > maxPasswordBytes {
		return invalidInput("Password must be at most 72 bytes")
	}
	return nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, _, err := s.issuer.GenerateToken(user.ID)
	if err != nil {
		return nil, upstream("generate token", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*AuthResult, error) {
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)

	_, err := s.db.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, conflict("User already exists")
	}
	if !errors.Is(err, database.ErrUserNotFound) {
		return nil, upstream("lookup user", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, upstream("hash password", err)
	}

	// The unique index decides concurrent signups for the same email.
	user, err := s.db.CreateUser(ctx, &models.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PasswordHash: hash,
	})
	if errors.Is(err, database.ErrUserAlreadyExists) {
		return nil, conflict("User already exists")
	}
	if err != nil {
		return nil, upstream("create user", err)
	}

	metrics.Signups.Inc()
	log.Info("User signed up: %s", user.ID)
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*AuthResult, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, invalidInput("Please fill all fields")
	}
	if hasWhitespace(req.Password) {
		return nil, invalidInput("Password must not contain spaces")
	}

	user, err := s.db.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, database.ErrUserNotFound) {
		metrics.Logins.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, upstream("lookup user", err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		metrics.Logins.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidCredentials
	}

	metrics.Logins.WithLabelValues("ok").Inc()
	return s.issue(user)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	fullName := strings.TrimSpace(req.FullName)
	email := normalizeEmail(req.Email)
	if fullName == "" || email == "" {
		return nil, invalidInput("Please fill all fields")
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, invalidInput("Please enter a valid email")
	}

	var uploaded string
	pic := strings.TrimSpace(req.ProfilePic)
	switch {
	case pic == "":
	case IsInlineImage(pic):
		url, err := s.images.upload(ctx, pic)
		if err != nil {
			return nil, err
		}
		uploaded, pic = url, url
	case isRemoteURL(pic):
	default:
		return nil, invalidInput("Profile picture must be an image or a URL")
	}

	user, err := s.db.UpdateUser(ctx, userID, models.ProfileUpdate{
		FullName:   fullName,
		Email:      email,
		ProfilePic: pic,
	})
	if err != nil {
		s.images.discard(uploaded)
		switch {
		case errors.Is(err, database.ErrUserNotFound):
			return nil, notFound("User not found")
		case errors.Is(err, database.ErrUserAlreadyExists):
			return nil, conflict("Email is already in use")
		default:
			return nil, upstream("update user", err)
		}
	}

	return user, nil
}

// CheckAuth returns the session user attached by the middleware.
func (s *AuthService) CheckAuth(user *models.User) (*models.User, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// Authenticate resolves a session token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.issuer.ValidateToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	userID, err := auth.UserIDFromClaims(claims)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.db.GetUserByID(ctx, userID)
	if errors.Is(err, database.ErrUserNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, upstream("lookup session user", err)
	}

	return user, nil
}
