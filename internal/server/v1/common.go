package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mehran-shabani/llm-workspace-api/internal/httpclient"
	"github.com/mehran-shabani/llm-workspace-api/internal/openai"
	"github.com/mehran-shabani/llm-workspace-api/pkg/api"
)

// overrideFrom reads the per-request upstream connection override headers.
// Callers may point a single request at a different OpenAI-compatible server
// without touching server configuration.
func overrideFrom(c *gin.Context) openai.Override {
	return openai.Override{
		BaseURL: c.GetHeader("X-OpenAI-Base-URL"),
		APIKey:  c.GetHeader("X-OpenAI-Key"),
	}
}

// upstreamProblem maps an upstream call failure onto a problem response. A
// transport or provider failure is a 502; anything else (bad configuration,
// missing key) stays a 500 so callers don't retry it blindly.
func upstreamProblem(err error) *api.Problem {
	var ue *httpclient.UpstreamError
	if errors.As(err, &ue) {
		return api.UpstreamFailure("The upstream provider rejected the request.", err)
	}
	return api.InternalError("Failed to complete the upstream request.", err)
}
