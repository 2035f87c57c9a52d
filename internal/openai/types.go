package openai

import "io"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens"`
}

type ChatParams struct {
	Model            string
	Messages         []Message
	Temperature      *float64
	MaxTokens        *int
	TopP             *float64
	FrequencyPenalty *float64
	PresencePenalty  *float64
	Stop             []string
}

type ChatResult struct {
	Content string
	Usage   *TokenUsage
}

type EmbeddingParams struct {
	Model          string
	Input          string
	EncodingFormat string
}

type EmbeddingResult struct {
	Embedding []float64
	Usage     *TokenUsage
}

type ImageParams struct {
	Model   string
	Prompt  string
	N       *int
	Size    string
	Quality string
	Style   string
	User    string
}

type ImageResult struct {
	URL           string
	RevisedPrompt string
}

type SpeechParams struct {
	Model string
	Input string
	Voice string
}

type TranscribeParams struct {
	Model    string
	Language string
	FileName string
	Audio    io.Reader
}

type TranscriptionResult struct {
	Text string
}

// --- wire types ---

type chatCompletionRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	Temperature      *float64  `json:"temperature,omitempty"`
	MaxTokens        *int      `json:"max_tokens,omitempty"`
	TopP             *float64  `json:"top_p,omitempty"`
	FrequencyPenalty *float64  `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64  `json:"presence_penalty,omitempty"`
	Stop             []string  `json:"stop,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Usage *TokenUsage `json:"usage"`
}

type embeddingRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	EncodingFormat string `json:"encoding_format,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Usage *TokenUsage `json:"usage"`
}

type imageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       *int   `json:"n,omitempty"`
	Size    string `json:"size,omitempty"`
	Quality string `json:"quality,omitempty"`
	Style   string `json:"style,omitempty"`
	User    string `json:"user,omitempty"`
}

type imageResponse struct {
	Data []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type transcriptionResponse struct {
	Text string `json:"text"`
}
