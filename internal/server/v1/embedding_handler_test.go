package v1

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mehran-shabani/llm-workspace-api/internal/store/cache/memory"
	"github.com/mehran-shabani/llm-workspace-api/pkg/api"
)

func embeddingRouter(t *testing.T, upstream *fakeUpstream) *gin.Engine {
	t.Helper()
	h := NewEmbeddingHandler(upstream, testCatalog(t), memory.NewMemoryCache(), zap.NewNop())
	return newTestRouter(func(r *gin.Engine) {
		r.POST("/v1/embeddings", h.Create)
	})
}

func TestEmbeddings_SecondCallIsServedFromCache(t *testing.T) {
	upstream := &fakeUpstream{}
	r := embeddingRouter(t, upstream)

	req := api.EmbeddingRequest{Input: "the quick brown fox"}

	first := doJSON(t, r, http.MethodPost, "/v1/embeddings", req)
	require.Equal(t, http.StatusOK, first.Code)
	assert.False(t, decode[api.EmbeddingResponse](t, first).Cached)

	second := doJSON(t, r, http.MethodPost, "/v1/embeddings", req)
	require.Equal(t, http.StatusOK, second.Code)
	assert.True(t, decode[api.EmbeddingResponse](t, second).Cached)

	// upstream was only hit once
	assert.Len(t, upstream.embedParams, 1)
}

func TestEmbeddings_DifferentInputMissesCache(t *testing.T) {
	upstream := &fakeUpstream{}
	r := embeddingRouter(t, upstream)

	doJSON(t, r, http.MethodPost, "/v1/embeddings", api.EmbeddingRequest{Input: "alpha"})
	doJSON(t, r, http.MethodPost, "/v1/embeddings", api.EmbeddingRequest{Input: "beta"})

	assert.Len(t, upstream.embedParams, 2)
}

func TestEmbeddings_PinnedModelChangesCacheKey(t *testing.T) {
	upstream := &fakeUpstream{}
	r := embeddingRouter(t, upstream)

	doJSON(t, r, http.MethodPost, "/v1/embeddings", api.EmbeddingRequest{Input: "alpha"})
	doJSON(t, r, http.MethodPost, "/v1/embeddings", api.EmbeddingRequest{Input: "alpha", Model: "text-embedding-3-large"})

	require.Len(t, upstream.embedParams, 2)
	assert.Equal(t, "text-embedding-3-small", upstream.embedParams[0].Model)
	assert.Equal(t, "text-embedding-3-large", upstream.embedParams[1].Model)
}

func TestEmbeddings_MissingInputIsRejected(t *testing.T) {
	upstream := &fakeUpstream{}
	r := embeddingRouter(t, upstream)

	w := doJSON(t, r, http.MethodPost, "/v1/embeddings", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, upstream.embedParams)
}
