package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

// scriptedModel replies with the queued contents in order and keeps a copy
// of every request.
type scriptedModel struct {
	replies  []string
	err      error
	requests []openai.ChatCompletionRequest
}

func (m *scriptedModel) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return openai.ChatCompletionResponse{}, m.err
	}
	if len(m.replies) == 0 {
		return openai.ChatCompletionResponse{}, nil
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
		}},
	}, nil
}

func (m *scriptedModel) lastMessages() []openai.ChatCompletionMessage {
	return m.requests[len(m.requests)-1].Messages
}

func TestBaseAgentComplete(t *testing.T) {
	t.Run("sends model name and transcript", func(t *testing.T) {
		m := &scriptedModel{replies: []string{"hello"}}
		agent := NewBaseAgent(m, "gpt-4.1-mini", WithOutput(&bytes.Buffer{}))
		tr, closeFn, err := agent.newTranscript("sys", "hi")
		require.NoError(t, err)
		defer closeFn()

		got, err := agent.complete(context.Background(), tr)
		require.NoError(t, err)
		require.Equal(t, "hello", got)
		require.Equal(t, "gpt-4.1-mini", m.requests[0].Model)
		require.Len(t, m.requests[0].Messages, 2)
		require.Equal(t, "system", m.requests[0].Messages[0].Role)
		require.Equal(t, "user", m.requests[0].Messages[1].Role)
	})

	t.Run("no choices", func(t *testing.T) {
		agent := NewBaseAgent(&scriptedModel{}, "m")
		tr, _, err := agent.newTranscript("sys", "hi")
		require.NoError(t, err)
		_, err = agent.complete(context.Background(), tr)
		require.ErrorIs(t, err, ErrEmptyCompletion)
	})

	t.Run("client error", func(t *testing.T) {
		agent := NewBaseAgent(&scriptedModel{err: errors.New("rate limited")}, "m")
		tr, _, err := agent.newTranscript("sys", "hi")
		require.NoError(t, err)
		_, err = agent.complete(context.Background(), tr)
		require.ErrorContains(t, err, "rate limited")
	})

	t.Run("limiter honours cancelled context", func(t *testing.T) {
		agent := NewBaseAgent(&scriptedModel{replies: []string{"a", "b"}}, "m", WithLimiter(0.001))
		tr, _, err := agent.newTranscript("sys", "hi")
		require.NoError(t, err)
		_, err = agent.complete(context.Background(), tr)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = agent.complete(ctx, tr)
		require.Error(t, err)
	})
}

func TestOptions(t *testing.T) {
	agent := NewBaseAgent(&scriptedModel{}, "m", WithMaxSteps(-1), WithLimiter(0))
	require.Equal(t, DefaultMaxSteps, agent.maxSteps)
	require.Nil(t, agent.limiter)

	agent = NewBaseAgent(&scriptedModel{}, "m", WithMaxSteps(0))
	require.Equal(t, 0, agent.maxSteps)
	require.True(t, agent.withinLimit(1000))

	agent = NewBaseAgent(&scriptedModel{}, "m", WithMaxSteps(3), WithLimiter(2))
	require.Equal(t, 3, agent.maxSteps)
	require.NotNil(t, agent.limiter)
}

func TestTranscriptRecording(t *testing.T) {
	dir := t.TempDir()
	m := &scriptedModel{replies: []string{`{"step":"OUTPUT","content":"done"}`}}
	agent := NewStepAgent(NewBaseAgent(m, "m", WithOutput(&bytes.Buffer{}), WithTranscriptDir(dir)), nil, "sys")

	_, err := agent.Run(context.Background(), "hi")
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dir, "*.ndjson"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 3)

	var last map[string]any
	require.NoError(t, json.Unmarshal(lines[2], &last))
	require.Equal(t, "assistant", last["role"])
	require.Equal(t, `{"step":"OUTPUT","content":"done"}`, last["content"])
}

func TestUnwritableTranscriptDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	m := &scriptedModel{replies: []string{`{"step":"OUTPUT","content":"still answered"}`}}
	agent := NewStepAgent(NewBaseAgent(m, "m", WithOutput(&bytes.Buffer{}), WithTranscriptDir(file)), nil, "sys")

	got, err := agent.Run(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, "still answered", got)
	require.Len(t, m.requests, 1)
}
