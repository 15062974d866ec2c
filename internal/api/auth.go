package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ammar1510/chatterbox/internal/auth"
	"github.com/ammar1510/chatterbox/internal/models"
	"github.com/ammar1510/chatterbox/internal/service"
)

// AuthHandler handles authentication routes
type AuthHandler struct {
	Auth          *service.AuthService
	SecureCookies bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc *service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{Auth: svc, SecureCookies: secureCookies}
}

func (h *AuthHandler) startSession(c *gin.Context, status int, res *service.AuthResult) {
	auth.SetSessionCookie(c, res.Token, h.Auth.Issuer().TTL(), h.SecureCookies)
	c.JSON(status, res.Response())
}

// Signup handles user registration
func (h *AuthHandler) Signup(c *gin.Context) {
	var input models.SignupRequest
	if !bindJSON(c, &input) {
		return
	}

	res, err := h.Auth.Signup(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	h.startSession(c, http.StatusCreated, res)
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if !bindJSON(c, &input) {
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	h.startSession(c, http.StatusOK, res)
}

// Logout clears the session cookie. It succeeds with or without a session.
func (h *AuthHandler) Logout(c *gin.Context) {
	auth.ClearSessionCookie(c, h.SecureCookies)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// UpdateProfile changes the caller's name, email and picture
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var input models.UpdateProfileRequest
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.Auth.UpdateProfile(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.Public())
}

// CheckAuth returns the current user
func (h *AuthHandler) CheckAuth(c *gin.Context) {
	user, err := h.Auth.CheckAuth(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.Public())
}
