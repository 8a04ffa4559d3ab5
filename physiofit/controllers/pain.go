package controllers

import (
	"context"
	"fmt"

	"physiofit/physiofit/types"
	"physiofit/physiofit/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MinPainLevel = 0
	MaxPainLevel = 10
)

// PainController accepts pain entries. Entries are logged, not stored.
type PainController struct {
	bodyParts []string
	allowed   map[string]bool
}

func NewPainController(bodyParts []string) *PainController {
	allowed := make(map[string]bool, len(bodyParts))
	for _, p := range bodyParts {
		allowed[p] = true
	}
	return &PainController{bodyParts: bodyParts, allowed: allowed}
}

func (c *PainController) BodyParts() []string {
	return c.bodyParts
}

// Severity bands the 0..10 scale the same way the form colours it.
func Severity(level int) string {
	switch {
	case level <= 3:
		return "low"
	case level <= 6:
		return "moderate"
	case level <= 8:
		return "high"
	default:
		return "severe"
	}
}

func (c *PainController) Log(ctx context.Context, user *types.User, req types.PainLogRequest) (*types.PainLogResponse, error) {
	if !c.allowed[req.BodyPart] {
		return nil, &ValidationError{Msg: fmt.Sprintf("unbekannter Bereich %q", req.BodyPart)}
	}
	if req.Level == nil {
		return nil, &ValidationError{Msg: "level fehlt"}
	}
	level := *req.Level
	if level < MinPainLevel || level > MaxPainLevel {
		return nil, &ValidationError{Msg: fmt.Sprintf("level muss zwischen %d und %d liegen", MinPainLevel, MaxPainLevel)}
	}

	entry := &types.PainLogResponse{
		Status:   "logged",
		ID:       uuid.New().String(),
		Severity: Severity(level),
	}
	fields := []zap.Field{
		zap.String("entry_id", entry.ID),
		zap.String("body_part", req.BodyPart),
		zap.Int("level", level),
		zap.String("severity", entry.Severity),
		zap.String("request_id", logging.RequestID(ctx)),
	}
	if user != nil {
		fields = append(fields, zap.String("user_id", user.ID))
	}
	logging.AppLogger.Info("pain entry", fields...)
	return entry, nil
}
