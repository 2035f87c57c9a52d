package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mehran-shabani/llm-workspace-api/internal/auth"
	"github.com/mehran-shabani/llm-workspace-api/internal/server/validator"
	"github.com/mehran-shabani/llm-workspace-api/internal/store"
	"github.com/mehran-shabani/llm-workspace-api/pkg/api"
)

type AuthHandler struct {
	tokens *auth.TokenManager
	repo   store.Repository
}

func NewAuthHandler(tokens *auth.TokenManager, repo store.Repository) *AuthHandler {
	return &AuthHandler{tokens: tokens, repo: repo}
}

// Login handles POST /auth/login and issues a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	user, err := h.repo.Users().GetByUsername(c.Request.Context(), req.Username)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// same answer for unknown user and wrong password
		_ = c.Error(api.UnauthorizedError("Invalid username or password"))
		return
	}

	token, expiresAt, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		_ = c.Error(api.InternalError("Failed to issue a token.", err))
		return
	}

	c.JSON(http.StatusOK, api.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// Verify handles GET /v1/auth. Reaching it at all means the auth middleware
// accepted the credentials.
func (h *AuthHandler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, api.AuthVerifyResponse{Authenticated: true})
}
