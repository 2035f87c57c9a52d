package v1

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehran-shabani/llm-workspace-api/internal/catalog"
	"github.com/mehran-shabani/llm-workspace-api/internal/openai"
	"github.com/mehran-shabani/llm-workspace-api/internal/server/validator"
	"github.com/mehran-shabani/llm-workspace-api/internal/store/cache"
	"github.com/mehran-shabani/llm-workspace-api/pkg/api"
)

// embeddingCacheTTL bounds how long a cached vector is served before the
// upstream is consulted again.
const embeddingCacheTTL = 24 * time.Hour

// EmbeddingHandler proxies embedding requests with a cache-aside layer so
// identical inputs don't burn upstream tokens twice.
type EmbeddingHandler struct {
	client  openai.API
	catalog *catalog.Catalog
	cache   cache.CacheService
	logger  *zap.Logger
}

func NewEmbeddingHandler(client openai.API, cat *catalog.Catalog, cacheSvc cache.CacheService, logger *zap.Logger) *EmbeddingHandler {
	return &EmbeddingHandler{client: client, catalog: cat, cache: cacheSvc, logger: logger}
}

// Create handles POST /v1/embeddings.
func (h *EmbeddingHandler) Create(c *gin.Context) {
	var req api.EmbeddingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	model, ok := h.catalog.Select(catalog.CategoryEmbedding, req.Model)
	if !ok {
		_ = c.Error(api.UnknownCategoryError(catalog.CategoryEmbedding))
		return
	}

	key := embeddingCacheKey(model, req.Input)

	var cached api.EmbeddingResponse
	if err := h.cache.Get(c.Request.Context(), key, &cached); err == nil {
		cached.Cached = true
		c.JSON(http.StatusOK, cached)
		return
	}

	result, err := h.client.CreateEmbedding(c.Request.Context(), openai.EmbeddingParams{
		Model:          model,
		Input:          req.Input,
		EncodingFormat: req.EncodingFormat,
	}, overrideFrom(c))
	if err != nil {
		_ = c.Error(upstreamProblem(err))
		return
	}

	resp := api.EmbeddingResponse{
		Embedding: result.Embedding,
		Model:     model,
		Usage:     toUsage(result.Usage),
	}

	if err := h.cache.Set(c.Request.Context(), key, resp, embeddingCacheTTL); err != nil {
		h.logger.Warn("failed to cache embedding", zap.Error(err))
	}

	c.JSON(http.StatusOK, resp)
}

func embeddingCacheKey(model, input string) string {
	sum := sha256.Sum256([]byte(input))
	return fmt.Sprintf("embedding:%s:%s", model, hex.EncodeToString(sum[:]))
}
