package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehran-shabani/llm-workspace-api/internal/auth"
	"github.com/mehran-shabani/llm-workspace-api/internal/store"
	"github.com/mehran-shabani/llm-workspace-api/pkg/api"
)

// Auth authenticates a request from its Authorization bearer token. A JWT
// issued by our own token manager is accepted first; otherwise the token is
// treated as an API key and looked up by its sha256 hash.
func Auth(tokens *auth.TokenManager, repo store.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Error(api.UnauthorizedError("Authorization header is required"))
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.Error(api.UnauthorizedError("Authorization header must be of the form 'Bearer <token>'"))
			c.Abort()
			return
		}

		// try a signed access token first
		if claims, err := tokens.Verify(token); err == nil {
			c.Set(string(store.ContextKeyUserID), claims.Subject)
			c.Next()
			return
		}

		// fall back to API key lookup
		sum := sha256.Sum256([]byte(token))
		hash := hex.EncodeToString(sum[:])

		key, err := repo.APIKeys().GetByHash(c.Request.Context(), hash)
		if err != nil {
			c.Error(api.UnauthorizedError("Invalid or expired credentials"))
			c.Abort()
			return
		}

		c.Set(string(store.ContextKeyUserID), key.UserID)
		c.Set(string(store.ContextKeyAPIKey), key.ID)

		// best-effort usage stamp; never block the request on it
		go func(id string) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := repo.APIKeys().UpdateUsage(ctx, id); err != nil {
				logger.Warn("failed to stamp api key usage", zap.Error(err))
			}
		}(key.ID)

		c.Next()
	}
}
