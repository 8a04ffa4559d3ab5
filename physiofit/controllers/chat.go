// physiofit/controllers/chat.go
package controllers

import (
	"context"
	"errors"
	"fmt"

	"physiofit/physiofit/services/llm"
	"physiofit/physiofit/types"
	"physiofit/physiofit/utils/logging"

	"go.uber.org/zap"
)

const (
	FallbackReply       = "Keine Antwort erhalten."
	InternalServerError = "Interner Server-Fehler"
	upstreamErrorPrefix = "Fehler bei Ollama: "
)

// Chatter is the inference backend the relay forwards to.
type Chatter interface {
	Chat(ctx context.Context, messages []types.ChatMessage) (string, error)
}

// ValidationError is a client mistake; it maps to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// RelayError is what the client gets back when the relay fails; the
// detail behind it is only logged.
type RelayError struct {
	Msg string
	Err error
}

func (e *RelayError) Error() string { return e.Msg }
func (e *RelayError) Unwrap() error { return e.Err }

type ChatController struct {
	llm          Chatter
	allowedRoles map[string]bool
	maxHistory   int
}

// NewChatController wires the relay. An empty allowedRoles accepts any role
// and maxHistory <= 0 means no limit.
func NewChatController(chatter Chatter, allowedRoles []string, maxHistory int) *ChatController {
	var roles map[string]bool
	if len(allowedRoles) > 0 {
		roles = make(map[string]bool, len(allowedRoles))
		for _, r := range allowedRoles {
			roles[r] = true
		}
	}
	return &ChatController{llm: chatter, allowedRoles: roles, maxHistory: maxHistory}
}

func (c *ChatController) Validate(req types.ChatRequest) error {
	if req.Messages == nil {
		return &ValidationError{Msg: "messages fehlt"}
	}
	msgs := *req.Messages
	if c.maxHistory > 0 && len(msgs) > c.maxHistory {
		return &ValidationError{Msg: fmt.Sprintf("zu viele Nachrichten (max. %d)", c.maxHistory)}
	}
	if c.allowedRoles != nil {
		for i, m := range msgs {
			if !c.allowedRoles[m.Role] {
				return &ValidationError{Msg: fmt.Sprintf("ungültige Rolle %q in Nachricht %d", m.Role, i)}
			}
		}
	}
	return nil
}

// Chat forwards the history unchanged and unwraps the reply.
func (c *ChatController) Chat(ctx context.Context, req types.ChatRequest) (*types.ChatReply, error) {
	if err := c.Validate(req); err != nil {
		return nil, err
	}
	messages := *req.Messages
	logging.AppLogger.Info("relaying chat",
		zap.Int("messages", len(messages)),
		zap.String("request_id", logging.RequestID(ctx)))

	reply, err := c.llm.Chat(ctx, messages)
	if err != nil {
		var ue *llm.UpstreamError
		if errors.As(err, &ue) {
			return nil, &RelayError{Msg: upstreamErrorPrefix + ue.Body, Err: err}
		}
		logging.ErrorLogger.Error("chat relay failed",
			zap.String("request_id", logging.RequestID(ctx)), zap.Error(err))
		return nil, &RelayError{Msg: InternalServerError, Err: err}
	}
	if reply == "" {
		reply = FallbackReply
	}
	return &types.ChatReply{Reply: reply}, nil
}
