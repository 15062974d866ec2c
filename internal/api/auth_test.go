package api

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ammar1510/chatterbox/internal/models"
)

func TestSignup(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/auth/signup", models.SignupRequest{
		FullName: "Alice",
		Email:    "alice@x.io",
		Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res models.AuthResponse
	decode(t, w, &res)
	assert.Equal(t, "Alice", res.FullName)
	assert.Equal(t, "alice@x.io", res.Email)
	assert.NotEmpty(t, res.ID)
	assert.NotEmpty(t, res.Token)
	assert.NotContains(t, w.Body.String(), "password")

	stored, err := s.db.GetUserByEmail(t.Context(), "alice@x.io")
	require.NoError(t, err)
	assert.NotContains(t, w.Body.String(), stored.PasswordHash)

	cookie := sessionCookie(t, w)
	assert.Equal(t, res.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)
}

func TestSignupErrors(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "Alice", "alice@x.io", "secret1")

	tests := []struct {
		name string
		body interface{}
		want string
	}{
		{"duplicate email", models.SignupRequest{FullName: "Alice Again", Email: "alice@x.io", Password: "other12"}, "User already exists"},
		{"empty body", nil, "Please fill all fields"},
		{"short password first", models.SignupRequest{FullName: "A", Email: "nope", Password: "abc"}, "Password must be at least 6 characters"},
		{"bad email", models.SignupRequest{FullName: "A", Email: "nope", Password: "secret1"}, "Please enter a valid email"},
		{"spaces in password", models.SignupRequest{FullName: "A", Email: "a@x.io", Password: "sec ret1"}, "Password must not contain spaces"},
		{"malformed json", `{"fullName":`, "Invalid request body"},
		{"password over bcrypt limit", models.SignupRequest{FullName: "A", Email: "a@x.io", Password: strings.Repeat("p", 73)}, "Password must be at most 72 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/auth/signup", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, messageOf(t, w))
			assert.Empty(t, w.Result().Cookies())
		})
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.signup(t, "Alice", "alice@x.io", "secret1")

	t.Run("wrong password", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "alice@x.io", Password: "wrong12"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid credentials", messageOf(t, w))
	})

	t.Run("unknown email", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "eve@x.io", Password: "secret1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid credentials", messageOf(t, w))
	})

	t.Run("correct password", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "alice@x.io", Password: "secret1"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res models.AuthResponse
		decode(t, w, &res)
		assert.Equal(t, alice.ID, res.ID)

		cookie := sessionCookie(t, w)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
	})
}

func TestLogoutIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	_, cookie := s.signup(t, "Alice", "alice@x.io", "secret1")

	for i, cookies := range [][]*http.Cookie{{cookie}, nil} {
		w := s.do(http.MethodPost, "/api/auth/logout", nil, cookies...)
		assert.Equal(t, http.StatusOK, w.Code, "call %d", i)
		assert.Equal(t, "Logged out successfully", messageOf(t, w))

		header := w.Header().Get("Set-Cookie")
		assert.True(t, strings.HasPrefix(header, "jwt=;"), header)
		assert.Contains(t, header, "Max-Age=0")
	}
}

func TestCheckAuth(t *testing.T) {
	s := newTestServer(t)
	alice, cookie := s.signup(t, "Alice", "alice@x.io", "secret1")

	t.Run("cookie", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/auth/check-auth", nil, cookie)
		require.Equal(t, http.StatusOK, w.Code)

		var user models.UserResponse
		decode(t, w, &user)
		assert.Equal(t, alice.ID, user.ID)
		assert.NotContains(t, w.Body.String(), "token")
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptestRequest(http.MethodGet, "/api/auth/check-auth")
		req.Header.Set("Authorization", "Bearer "+alice.Token)
		w := record(s.router, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no session", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/auth/check-auth", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Unauthorized", messageOf(t, w))
	})

	t.Run("tampered token", func(t *testing.T) {
		bad := *cookie
		bad.Value = cookie.Value + "x"
		w := s.do(http.MethodGet, "/api/auth/check-auth", nil, &bad)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUpdateProfile(t *testing.T) {
	s := newTestServer(t)
	_, cookie := s.signup(t, "Alice", "alice@x.io", "secret1")
	s.signup(t, "Bob", "bob@x.io", "secret1")

	t.Run("uploads inline picture", func(t *testing.T) {
		w := s.do(http.MethodPut, "/api/auth/update-profile", models.UpdateProfileRequest{
			FullName:   "Alice Liddell",
			Email:      "alice@x.io",
			ProfilePic: pngDataURL(),
		}, cookie)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var user models.UserResponse
		decode(t, w, &user)
		assert.Equal(t, "Alice Liddell", user.FullName)
		_, ok := s.blobs.Get(user.ProfilePic)
		assert.True(t, ok)
	})

	t.Run("email taken", func(t *testing.T) {
		w := s.do(http.MethodPut, "/api/auth/update-profile", models.UpdateProfileRequest{FullName: "Alice", Email: "bob@x.io"}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Email is already in use", messageOf(t, w))
	})

	t.Run("missing fields", func(t *testing.T) {
		w := s.do(http.MethodPut, "/api/auth/update-profile", models.UpdateProfileRequest{}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("requires session", func(t *testing.T) {
		w := s.do(http.MethodPut, "/api/auth/update-profile", models.UpdateProfileRequest{FullName: "A", Email: "a@x.io"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestStoreFailureIsServerError(t *testing.T) {
	db := new(MockDB)
	db.On("GetUserByEmail", "alice@x.io").Return(nil, errors.New("connection refused"))
	router, _ := newRouterWith(t, db, nil)

	w := serve(router, http.MethodPost, "/api/auth/signup", models.SignupRequest{FullName: "Alice", Email: "alice@x.io", Password: "secret1"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error", messageOf(t, w))
	assert.NotContains(t, w.Body.String(), "connection refused")
	db.AssertExpectations(t)
	db.AssertNotCalled(t, "CreateUser", mock.Anything)
}
