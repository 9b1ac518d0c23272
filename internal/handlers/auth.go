package handlers

import (
	"context"
	"net/http"
	"time"

	"task-tracker/internal/auth"
	"task-tracker/internal/dto"
	"task-tracker/internal/models"
	"task-tracker/internal/services"

	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

type TokenIssuer interface {
	Issue(username string) (string, time.Time, error)
}

type AuthHandler struct {
	authService   services.AuthService
	authenticator Authenticator
	tokens        TokenIssuer
}

func NewAuthHandler(authService services.AuthService, authenticator Authenticator, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		authenticator: authenticator,
		tokens:        tokens,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	if _, err := h.authService.RegisterUser(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	h.signIn(c, req.Username, req.Password)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	h.signIn(c, req.Username, req.Password)
}

func (h *AuthHandler) signIn(c *gin.Context, username, password string) {
	user, err := h.authenticator.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(user.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:     token,
		Username:  user.Username,
		TokenType: auth.TokenType,
		ExpiresAt: expiresAt,
	})
}
