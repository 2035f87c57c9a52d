package api

// ChatMessage is a single turn in a chat completion request.
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content" binding:"required"`
}

// TextGenerationRequest drives the text_gen proxy endpoint.
type TextGenerationRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`

	// Model is optional; unknown or unlisted names resolve to the category
	// default through the catalog.
	Model string `json:"model,omitempty"`

	Temperature      *float64 `json:"temperature,omitempty" binding:"omitempty,gte=0,lte=2"`
	MaxTokens        *int     `json:"max_tokens,omitempty" binding:"omitempty,gt=0"`
	TopP             *float64 `json:"top_p,omitempty" binding:"omitempty,gte=0,lte=1"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty" binding:"omitempty,gte=-2,lte=2"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty" binding:"omitempty,gte=-2,lte=2"`
	Stop             []string `json:"stop,omitempty" binding:"omitempty,max=4"`
}

// TextInstructionRequest drives the text2text proxy endpoint: a single
// instruction plus optional input, wrapped into messages server-side.
type TextInstructionRequest struct {
	Instruction string   `json:"instruction" binding:"required"`
	Input       string   `json:"input,omitempty"`
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty" binding:"omitempty,gte=0,lte=2"`
	MaxTokens   *int     `json:"max_tokens,omitempty" binding:"omitempty,gt=0"`
}

type EmbeddingRequest struct {
	Input          string `json:"input" binding:"required"`
	Model          string `json:"model,omitempty"`
	EncodingFormat string `json:"encoding_format,omitempty" binding:"omitempty,oneof=float base64"`
}

type ImageGenerationRequest struct {
	Prompt  string `json:"prompt" binding:"required"`
	Model   string `json:"model,omitempty"`
	N       *int   `json:"n,omitempty" binding:"omitempty,gte=1,lte=10"`
	Size    string `json:"size,omitempty" binding:"omitempty,oneof=256x256 512x512 1024x1024 1792x1024 1024x1792"`
	Quality string `json:"quality,omitempty" binding:"omitempty,oneof=standard hd low medium high"`
	Style   string `json:"style,omitempty" binding:"omitempty,oneof=vivid natural"`
	User    string `json:"user,omitempty"`
}

type TTSRequest struct {
	Text  string `json:"text" binding:"required"`
	Model string `json:"model,omitempty"`
	Voice string `json:"voice,omitempty" binding:"omitempty,oneof=alloy echo fable onyx nova shimmer"`
}

// STTRequest is bound from multipart form fields; the audio file itself is
// read from the "audio" form file.
type STTRequest struct {
	Model    string `form:"model"`
	Language string `form:"language"`
}

type WorkspaceCreateRequest struct {
	Name          string   `json:"name" binding:"required,max=255"`
	OpenAITemp    *float64 `json:"openAiTemp,omitempty" binding:"omitempty,gte=0,lte=2"`
	OpenAIHistory *int     `json:"openAiHistory,omitempty" binding:"omitempty,gte=0"`
	OpenAIPrompt  *string  `json:"openAiPrompt,omitempty"`
}

type WorkspaceUpdateRequest struct {
	Name          *string  `json:"name,omitempty" binding:"omitempty,max=255"`
	OpenAITemp    *float64 `json:"openAiTemp,omitempty" binding:"omitempty,gte=0,lte=2"`
	OpenAIHistory *int     `json:"openAiHistory,omitempty" binding:"omitempty,gte=0"`
	OpenAIPrompt  *string  `json:"openAiPrompt,omitempty"`
}

// WorkspaceChatRequest sends one message into a workspace; the reply is
// generated with the workspace's prompt/temperature settings.
type WorkspaceChatRequest struct {
	Message string `json:"message" binding:"required"`
	Model   string `json:"model,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
