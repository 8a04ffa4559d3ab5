// physiofit/services/llm/llm.go
package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"physiofit/physiofit/types"
	httputils "physiofit/physiofit/utils/http"
	"physiofit/physiofit/utils/logging"

	"go.uber.org/zap"
)

// OllamaClient talks to an Ollama-compatible /api/chat endpoint.
type OllamaClient struct {
	url    string
	model  string
	client *http.Client
}

// NewOllamaClient builds a client for url. A zero timeout leaves the call
// bounded only by the caller's context.
func NewOllamaClient(url, model string, timeout time.Duration) *OllamaClient {
	return &OllamaClient{
		url:    url,
		model:  model,
		client: httputils.NewClient(timeout),
	}
}

type ChatRequest struct {
	Model    string              `json:"model"`
	Messages []types.ChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
}

type ChatResponse struct {
	Message *struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// UpstreamError means the inference server answered, but not with success.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return e.Body
}

func (c *OllamaClient) Model() string { return c.model }

// Chat sends the whole history in one non-streaming call and returns the
// assistant content. An absent message or content yields "".
func (c *OllamaClient) Chat(ctx context.Context, messages []types.ChatMessage) (string, error) {
	defer logging.LogDuration(ctx, "llm_service_chat")()

	req := ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	}
	if req.Messages == nil {
		req.Messages = []types.ChatMessage{}
	}

	var resp ChatResponse
	if err := httputils.PostJSON(ctx, c.client, c.url, nil, req, &resp); err != nil {
		var se *httputils.StatusError
		if errors.As(err, &se) {
			logging.ErrorLogger.Error("inference server error",
				zap.Int("status", se.Code), zap.String("body", se.Body))
			return "", &UpstreamError{Status: se.Code, Body: se.Body}
		}
		return "", err
	}
	if resp.Message == nil {
		return "", nil
	}
	return resp.Message.Content, nil
}
