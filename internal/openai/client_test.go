package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o", body["model"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "hi there"}},
			},
			"usage": map[string]int{"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk-test", 5*time.Second)

	result, err := client.ChatCompletion(context.Background(), ChatParams{
		Model:    "gpt-4o",
		Messages: []Message{{Role: "user", Content: "hello"}},
	}, Override{})

	require.NoError(t, err)
	assert.Equal(t, "hi there", result.Content)
	assert.Equal(t, 5, result.Usage.TotalTokens)
}

func TestCreateEmbedding_OverrideWins(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/embeddings", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data":  []map[string]interface{}{{"embedding": []float64{0.1, 0.2}}},
			"usage": map[string]int{"prompt_tokens": 2, "total_tokens": 2},
		})
	}))
	defer srv.Close()

	// configured against a dead base URL; the per-request override must win
	client := NewClient("http://127.0.0.1:1", "sk-configured", 5*time.Second)

	result, err := client.CreateEmbedding(context.Background(), EmbeddingParams{
		Model: "text-embedding-3-small",
		Input: "some text",
	}, Override{BaseURL: srv.URL, APIKey: "sk-byok"})

	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-byok", gotAuth)
	assert.Equal(t, []float64{0.1, 0.2}, result.Embedding)
}

func TestCreateEmbedding_MissingKey(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", time.Second)

	_, err := client.CreateEmbedding(context.Background(), EmbeddingParams{
		Model: "text-embedding-3-small",
		Input: "x",
	}, Override{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestSpeech_ReturnsRawAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tts-1", body["model"])
		assert.Equal(t, "alloy", body["voice"])
		assert.Equal(t, "mp3", body["response_format"])

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3binary-audio"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk-test", 5*time.Second)

	audio, err := client.Speech(context.Background(), SpeechParams{
		Model: "tts-1",
		Input: "read this aloud",
		Voice: "alloy",
	}, Override{})

	require.NoError(t, err)
	assert.Equal(t, []byte("ID3binary-audio"), audio)
}

func TestTranscribe_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "clip.wav", header.Filename)

		_ = json.NewEncoder(w).Encode(map[string]string{"text": "hello world"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk-test", 5*time.Second)

	result, err := client.Transcribe(context.Background(), TranscribeParams{
		Model:    "whisper-1",
		FileName: "clip.wav",
		Audio:    strings.NewReader("RIFFfake-wave"),
	}, Override{})

	require.NoError(t, err)
	assert.Equal(t, "hello world", result.Text)
}

func TestUpstreamErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "model overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk-test", 5*time.Second)

	_, err := client.ChatCompletion(context.Background(), ChatParams{
		Model:    "gpt-4o",
		Messages: []Message{{Role: "user", Content: "hello"}},
	}, Override{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
