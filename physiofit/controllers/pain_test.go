package controllers

import (
	"context"
	"errors"
	"testing"

	"physiofit/physiofit/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func level(n int) *int { return &n }

var parts = []string{"Nacken", "Schultern", "Rücken", "Hüfte", "Knie", "Fußgelenk"}

func TestPainLog(t *testing.T) {
	c := NewPainController(parts)
	resp, err := c.Log(context.Background(), &types.User{ID: "u1"}, types.PainLogRequest{BodyPart: "Knie", Level: level(7)})
	require.NoError(t, err)

	assert.Equal(t, "logged", resp.Status)
	assert.Equal(t, "high", resp.Severity)
	_, err = uuid.Parse(resp.ID)
	assert.NoError(t, err)
}

func TestPainLogRejects(t *testing.T) {
	c := NewPainController(parts)
	cases := map[string]types.PainLogRequest{
		"unknown part": {BodyPart: "Ellbogen", Level: level(3)},
		"missing":      {BodyPart: "Knie"},
		"too low":      {BodyPart: "Knie", Level: level(-1)},
		"too high":     {BodyPart: "Knie", Level: level(11)},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Log(context.Background(), nil, req)
			var ve *ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestSeverity(t *testing.T) {
	want := map[int]string{0: "low", 3: "low", 4: "moderate", 6: "moderate", 7: "high", 8: "high", 9: "severe", 10: "severe"}
	for lvl, band := range want {
		assert.Equal(t, band, Severity(lvl), "level %d", lvl)
	}
}
