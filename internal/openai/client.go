package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mehran-shabani/llm-workspace-api/internal/httpclient"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// Override carries per-request connection overrides taken from the
// X-OpenAI-Base-URL and X-OpenAI-Key request headers. Zero values fall back
// to the client's configured defaults.
type Override struct {
	BaseURL string
	APIKey  string
}

// API is the upstream surface the proxy handlers depend on.
type API interface {
	ChatCompletion(ctx context.Context, p ChatParams, o Override) (*ChatResult, error)
	CreateEmbedding(ctx context.Context, p EmbeddingParams, o Override) (*EmbeddingResult, error)
	GenerateImage(ctx context.Context, p ImageParams, o Override) (*ImageResult, error)
	Speech(ctx context.Context, p SpeechParams, o Override) ([]byte, error)
	Transcribe(ctx context.Context, p TranscribeParams, o Override) (*TranscriptionResult, error)
}

// Client talks to an OpenAI-compatible API. It owns its timeout policy; the
// caller owns model resolution (see internal/catalog).
type Client struct {
	baseURL string
	apiKey  string
	http    httpclient.HTTPClient
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) resolve(o Override) (string, map[string]string, error) {
	baseURL := c.baseURL
	if o.BaseURL != "" {
		baseURL = strings.TrimSuffix(o.BaseURL, "/")
	}
	apiKey := c.apiKey
	if o.APIKey != "" {
		apiKey = o.APIKey
	}
	if apiKey == "" {
		return "", nil, fmt.Errorf("openai api key not provided")
	}
	return baseURL, map[string]string{"Authorization": "Bearer " + apiKey}, nil
}

func (c *Client) ChatCompletion(ctx context.Context, p ChatParams, o Override) (*ChatResult, error) {
	baseURL, headers, err := c.resolve(o)
	if err != nil {
		return nil, err
	}

	body := chatCompletionRequest{
		Model:            p.Model,
		Messages:         p.Messages,
		Temperature:      p.Temperature,
		MaxTokens:        p.MaxTokens,
		TopP:             p.TopP,
		FrequencyPenalty: p.FrequencyPenalty,
		PresencePenalty:  p.PresencePenalty,
		Stop:             p.Stop,
	}

	var resp chatCompletionResponse
	if err := httpclient.SendRequest(ctx, c.http, http.MethodPost, baseURL+"/chat/completions", headers, body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &ChatResult{
		Content: resp.Choices[0].Message.Content,
		Usage:   resp.Usage,
	}, nil
}

func (c *Client) CreateEmbedding(ctx context.Context, p EmbeddingParams, o Override) (*EmbeddingResult, error) {
	baseURL, headers, err := c.resolve(o)
	if err != nil {
		return nil, err
	}

	body := embeddingRequest{
		Model:          p.Model,
		Input:          p.Input,
		EncodingFormat: p.EncodingFormat,
	}

	var resp embeddingResponse
	if err := httpclient.SendRequest(ctx, c.http, http.MethodPost, baseURL+"/embeddings", headers, body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}

	return &EmbeddingResult{
		Embedding: resp.Data[0].Embedding,
		Usage:     resp.Usage,
	}, nil
}

func (c *Client) GenerateImage(ctx context.Context, p ImageParams, o Override) (*ImageResult, error) {
	baseURL, headers, err := c.resolve(o)
	if err != nil {
		return nil, err
	}

	body := imageRequest{
		Model:   p.Model,
		Prompt:  p.Prompt,
		N:       p.N,
		Size:    p.Size,
		Quality: p.Quality,
		Style:   p.Style,
		User:    p.User,
	}

	var resp imageResponse
	if err := httpclient.SendRequest(ctx, c.http, http.MethodPost, baseURL+"/images/generations", headers, body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("image response contained no data")
	}

	return &ImageResult{
		URL:           resp.Data[0].URL,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
	}, nil
}

func (c *Client) Speech(ctx context.Context, p SpeechParams, o Override) ([]byte, error) {
	baseURL, headers, err := c.resolve(o)
	if err != nil {
		return nil, err
	}

	body := speechRequest{
		Model:          p.Model,
		Input:          p.Input,
		Voice:          p.Voice,
		ResponseFormat: "mp3",
	}

	return httpclient.RawRequest(ctx, c.http, http.MethodPost, baseURL+"/audio/speech", headers, body)
}

func (c *Client) Transcribe(ctx context.Context, p TranscribeParams, o Override) (*TranscriptionResult, error) {
	baseURL, headers, err := c.resolve(o)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{
		"model":    p.Model,
		"language": p.Language,
	}
	file := httpclient.FilePart{
		FieldName: "file",
		FileName:  p.FileName,
		Reader:    p.Audio,
	}

	var resp transcriptionResponse
	if err := httpclient.MultipartRequest(ctx, c.http, baseURL+"/audio/transcriptions", headers, fields, file, &resp); err != nil {
		return nil, err
	}

	return &TranscriptionResult{Text: resp.Text}, nil
}
