package controllers

import (
	"context"
	"errors"
	"testing"

	"physiofit/physiofit/services/llm"
	"physiofit/physiofit/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatter struct {
	reply string
	err   error
	got   []types.ChatMessage
	calls int
}

func (f *fakeChatter) Chat(_ context.Context, messages []types.ChatMessage) (string, error) {
	f.calls++
	f.got = messages
	return f.reply, f.err
}

func history(msgs ...types.ChatMessage) types.ChatRequest {
	return types.ChatRequest{Messages: &msgs}
}

func TestChatReturnsReply(t *testing.T) {
	f := &fakeChatter{reply: "Mach Kniebeugen"}
	c := NewChatController(f, nil, 0)

	req := history(
		types.ChatMessage{Role: "user", Content: "Hallo"},
		types.ChatMessage{Role: "assistant", Content: "Hi"},
		types.ChatMessage{Role: "user", Content: "Knie?"},
	)
	resp, err := c.Chat(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Mach Kniebeugen", resp.Reply)
	assert.Equal(t, *req.Messages, f.got)
}

func TestChatFallbackOnEmptyReply(t *testing.T) {
	c := NewChatController(&fakeChatter{}, nil, 0)
	resp, err := c.Chat(context.Background(), history(types.ChatMessage{Role: "user", Content: "?"}))
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, resp.Reply)
}

func TestChatUpstreamErrorEmbedsBody(t *testing.T) {
	f := &fakeChatter{err: &llm.UpstreamError{Status: 404, Body: `{"error":"model not found"}`}}
	_, err := NewChatController(f, nil, 0).Chat(context.Background(), history())

	var re *RelayError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, `Fehler bei Ollama: {"error":"model not found"}`, re.Msg)
}

func TestChatTransportErrorIsGeneric(t *testing.T) {
	f := &fakeChatter{err: errors.New("dial tcp 127.0.0.1:11434: connect: connection refused")}
	_, err := NewChatController(f, nil, 0).Chat(context.Background(), history())

	var re *RelayError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, InternalServerError, re.Msg)
	assert.NotContains(t, re.Msg, "refused")
}

func TestChatMissingMessages(t *testing.T) {
	f := &fakeChatter{}
	_, err := NewChatController(f, nil, 0).Chat(context.Background(), types.ChatRequest{})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Zero(t, f.calls)
}

func TestChatEmptyHistoryIsForwarded(t *testing.T) {
	f := &fakeChatter{reply: "Hallo"}
	_, err := NewChatController(f, nil, 0).Chat(context.Background(), history())
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)
}

func TestChatRoleAndLengthLimits(t *testing.T) {
	f := &fakeChatter{reply: "ok"}
	c := NewChatController(f, []string{"user", "assistant"}, 2)

	_, err := c.Chat(context.Background(), history(types.ChatMessage{Role: "system", Content: "x"}))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Msg, `"system"`)

	_, err = c.Chat(context.Background(), history(
		types.ChatMessage{Role: "user"}, types.ChatMessage{Role: "assistant"}, types.ChatMessage{Role: "user"},
	))
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Msg, "max. 2")
	assert.Zero(t, f.calls)
}

func TestChatNoHiddenState(t *testing.T) {
	f := &fakeChatter{reply: "X"}
	c := NewChatController(f, nil, 0)
	req := history(types.ChatMessage{Role: "user", Content: "a"})

	first, err := c.Chat(context.Background(), req)
	require.NoError(t, err)
	second, err := c.Chat(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, f.got, 1)
}
