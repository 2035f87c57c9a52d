package v1

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mehran-shabani/llm-workspace-api/internal/catalog"
	"github.com/mehran-shabani/llm-workspace-api/internal/openai"
	"github.com/mehran-shabani/llm-workspace-api/internal/server/validator"
	"github.com/mehran-shabani/llm-workspace-api/pkg/api"
)

const defaultVoice = "alloy"

// maxAudioUpload caps transcription uploads at 25 MiB, matching the upstream
// provider's own limit.
const maxAudioUpload = 25 << 20

// AudioHandler proxies speech synthesis and transcription.
type AudioHandler struct {
	client  openai.API
	catalog *catalog.Catalog
}

func NewAudioHandler(client openai.API, cat *catalog.Catalog) *AudioHandler {
	return &AudioHandler{client: client, catalog: cat}
}

// Speech handles POST /v1/audio/speech; the synthesized audio comes back as
// base64 inside a JSON envelope.
func (h *AudioHandler) Speech(c *gin.Context) {
	var req api.TTSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	model, ok := h.catalog.Select(catalog.CategoryTTS, req.Model)
	if !ok {
		_ = c.Error(api.UnknownCategoryError(catalog.CategoryTTS))
		return
	}

	voice := req.Voice
	if voice == "" {
		voice = defaultVoice
	}

	audio, err := h.client.Speech(c.Request.Context(), openai.SpeechParams{
		Model: model,
		Input: req.Text,
		Voice: voice,
	}, overrideFrom(c))
	if err != nil {
		_ = c.Error(upstreamProblem(err))
		return
	}

	c.JSON(http.StatusOK, api.TTSResponse{
		AudioBase64: base64.StdEncoding.EncodeToString(audio),
		Model:       model,
		Voice:       voice,
	})
}

// Transcribe handles POST /v1/audio/transcriptions. The audio arrives as the
// multipart form file "audio".
func (h *AudioHandler) Transcribe(c *gin.Context) {
	var req api.STTRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		_ = c.Error(api.BadRequestError("A multipart form file named 'audio' is required."))
		return
	}
	if fileHeader.Size > maxAudioUpload {
		_ = c.Error(api.BadRequestError("Audio file exceeds the 25MB upload limit."))
		return
	}

	model, ok := h.catalog.Select(catalog.CategorySTT, req.Model)
	if !ok {
		_ = c.Error(api.UnknownCategoryError(catalog.CategorySTT))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(api.InternalError("Failed to read the uploaded audio.", err))
		return
	}
	defer file.Close()

	result, err := h.client.Transcribe(c.Request.Context(), openai.TranscribeParams{
		Model:    model,
		Language: req.Language,
		FileName: fileHeader.Filename,
		Audio:    file,
	}, overrideFrom(c))
	if err != nil {
		_ = c.Error(upstreamProblem(err))
		return
	}

	c.JSON(http.StatusOK, api.STTResponse{
		Transcript: result.Text,
		Model:      model,
	})
}
