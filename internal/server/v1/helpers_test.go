package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mehran-shabani/llm-workspace-api/internal/catalog"
	"github.com/mehran-shabani/llm-workspace-api/internal/openai"
	"github.com/mehran-shabani/llm-workspace-api/internal/server/middleware"
	"github.com/mehran-shabani/llm-workspace-api/internal/server/validator"
	"github.com/mehran-shabani/llm-workspace-api/internal/store"
	"github.com/mehran-shabani/llm-workspace-api/internal/store/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.InitValidator()
}

// fakeUpstream records calls and plays back canned results.
type fakeUpstream struct {
	chatParams   []openai.ChatParams
	chatResult   *openai.ChatResult
	chatErr      error
	embedParams  []openai.EmbeddingParams
	embedResult  *openai.EmbeddingResult
	imageResult  *openai.ImageResult
	speechAudio  []byte
	transcript   *openai.TranscriptionResult
	lastOverride openai.Override
}

func (f *fakeUpstream) ChatCompletion(_ context.Context, p openai.ChatParams, o openai.Override) (*openai.ChatResult, error) {
	f.chatParams = append(f.chatParams, p)
	f.lastOverride = o
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	if f.chatResult != nil {
		return f.chatResult, nil
	}
	return &openai.ChatResult{Content: "canned reply"}, nil
}

func (f *fakeUpstream) CreateEmbedding(_ context.Context, p openai.EmbeddingParams, o openai.Override) (*openai.EmbeddingResult, error) {
	f.embedParams = append(f.embedParams, p)
	f.lastOverride = o
	if f.embedResult != nil {
		return f.embedResult, nil
	}
	return &openai.EmbeddingResult{Embedding: []float64{0.1, 0.2}}, nil
}

func (f *fakeUpstream) GenerateImage(_ context.Context, _ openai.ImageParams, o openai.Override) (*openai.ImageResult, error) {
	f.lastOverride = o
	if f.imageResult != nil {
		return f.imageResult, nil
	}
	return &openai.ImageResult{URL: "https://img.example/1.png"}, nil
}

func (f *fakeUpstream) Speech(_ context.Context, _ openai.SpeechParams, o openai.Override) ([]byte, error) {
	f.lastOverride = o
	if f.speechAudio != nil {
		return f.speechAudio, nil
	}
	return []byte("mp3-bytes"), nil
}

func (f *fakeUpstream) Transcribe(_ context.Context, _ openai.TranscribeParams, o openai.Override) (*openai.TranscriptionResult, error) {
	f.lastOverride = o
	if f.transcript != nil {
		return f.transcript, nil
	}
	return &openai.TranscriptionResult{Text: "hello world"}, nil
}

func newTestRouter(register func(r *gin.Engine)) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler(zap.NewNop()))
	register(r)
	return r
}

func testRepo(t *testing.T) store.Repository {
	t.Helper()
	repo, err := sqlite.NewSQLiteStorage(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	return catalog.Default()
}
