package agent

import (
	"bytes"
	"context"
	"errors"
	"llm_steps/model"
	"llm_steps/tools"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/stretchr/testify/require"
)

func echoRegistry() *tools.Registry {
	return tools.NewRegistry(
		model.ToolDef{
			FunctionDefinition: openai.FunctionDefinition{
				Name:        "getWeatherDetailsByCity",
				Description: "weather by city",
				Parameters:  jsonschema.Definition{Type: jsonschema.Object},
			},
			Handler: func(ctx context.Context, input string) (string, error) {
				return "The weather of " + input + " is Sunny +31°C", nil
			},
		},
		model.ToolDef{
			FunctionDefinition: openai.FunctionDefinition{Name: "explode"},
			Handler: func(ctx context.Context, input string) (string, error) {
				return "", errors.New("boom")
			},
		},
	)
}

func TestStepAgentRun(t *testing.T) {
	t.Run("tool call then output", func(t *testing.T) {
		m := &scriptedModel{replies: []string{
			`{"step":"START","content":"User wants weather"}`,
			"```json\n{ \"step\": \"THINK\", \"content\": \"use the tool\" }\n```",
			`{"step":"TOOL","tool_name":"getWeatherDetailsByCity","input":"goa"}`,
			`{"step":"OUTPUT","content":"It is sunny in Goa"}`,
		}}
		var out bytes.Buffer
		agent := NewStepAgent(NewBaseAgent(m, "m", WithOutput(&out)), echoRegistry(), "sys")

		got, err := agent.Run(context.Background(), "weather in goa?")
		require.NoError(t, err)
		require.Equal(t, "It is sunny in Goa", got)

		require.Equal(t, strings.Join([]string{
			"🔥 User wants weather",
			"\t🧠 use the tool",
			"🛠️: getWeatherDetailsByCity(goa) = The weather of goa is Sunny +31°C",
			"🤖 It is sunny in Goa",
			"",
		}, "\n"), out.String())

		msgs := m.lastMessages()
		require.Len(t, msgs, 6)
		require.Equal(t, `{"step":"THINK","content":"use the tool"}`, msgs[3].Content)
		require.Equal(t, "developer", msgs[5].Role)
		require.Equal(t, `{"step":"OBSERVE","content":"The weather of goa is Sunny +31°C"}`, msgs[5].Content)
	})

	t.Run("unknown tool is reported to the model", func(t *testing.T) {
		m := &scriptedModel{replies: []string{
			`{"step":"TOOL","tool_name":"teleport","input":"mars"}`,
			`{"step":"OUTPUT","content":"cannot"}`,
		}}
		agent := NewStepAgent(NewBaseAgent(m, "m", WithOutput(&bytes.Buffer{})), echoRegistry(), "sys")
		_, err := agent.Run(context.Background(), "go to mars")
		require.NoError(t, err)

		msgs := m.lastMessages()
		require.Equal(t, "developer", msgs[3].Role)
		require.Equal(t, "There is no such tool as teleport", msgs[3].Content)
	})

	t.Run("numeric tool name is an unknown tool", func(t *testing.T) {
		m := &scriptedModel{replies: []string{
			`{"step":"TOOL","tool_name":7}`,
			`{"step":"OUTPUT","content":"gave up"}`,
		}}
		agent := NewStepAgent(NewBaseAgent(m, "m", WithOutput(&bytes.Buffer{})), echoRegistry(), "sys")
		got, err := agent.Run(context.Background(), "q")
		require.NoError(t, err)
		require.Equal(t, "gave up", got)
		require.Equal(t, "There is no such tool as 7", m.lastMessages()[3].Content)
	})

	t.Run("tool failure becomes an observation", func(t *testing.T) {
		m := &scriptedModel{replies: []string{
			`{"step":"TOOL","tool_name":"explode","input":""}`,
			`{"step":"OUTPUT","content":"sorry"}`,
		}}
		agent := NewStepAgent(NewBaseAgent(m, "m", WithOutput(&bytes.Buffer{})), echoRegistry(), "sys")
		_, err := agent.Run(context.Background(), "q")
		require.NoError(t, err)
		require.Equal(t, `{"step":"OBSERVE","content":"Error executing explode: boom"}`, m.lastMessages()[3].Content)
	})

	t.Run("unexpected steps are ignored", func(t *testing.T) {
		m := &scriptedModel{replies: []string{
			`{"step":"EVALUATE","content":"fine"}`,
			`{"step":"OUTPUT","content":"ok"}`,
		}}
		agent := NewStepAgent(NewBaseAgent(m, "m", WithOutput(&bytes.Buffer{})), echoRegistry(), "sys")
		got, err := agent.Run(context.Background(), "q")
		require.NoError(t, err)
		require.Equal(t, "ok", got)
	})

	t.Run("malformed reply stops the run", func(t *testing.T) {
		m := &scriptedModel{replies: []string{"Sure! The weather is nice."}}
		agent := NewStepAgent(NewBaseAgent(m, "m", WithOutput(&bytes.Buffer{})), echoRegistry(), "sys")
		_, err := agent.Run(context.Background(), "q")
		require.ErrorIs(t, err, model.ErrMalformedStep)
	})

	t.Run("step limit", func(t *testing.T) {
		m := &scriptedModel{replies: []string{
			`{"step":"THINK","content":"1"}`,
			`{"step":"THINK","content":"2"}`,
			`{"step":"THINK","content":"3"}`,
		}}
		agent := NewStepAgent(NewBaseAgent(m, "m", WithOutput(&bytes.Buffer{}), WithMaxSteps(2)), echoRegistry(), "sys")
		_, err := agent.Run(context.Background(), "q")
		require.ErrorIs(t, err, ErrStepLimit)
		require.Len(t, m.requests, 2)
	})

	t.Run("zero max steps runs until output", func(t *testing.T) {
		var replies []string
		for range DefaultMaxSteps + 10 {
			replies = append(replies, `{"step":"THINK","content":"still thinking"}`)
		}
		replies = append(replies, `{"step":"OUTPUT","content":"finally"}`)
		m := &scriptedModel{replies: replies}
		agent := NewStepAgent(NewBaseAgent(m, "m", WithOutput(&bytes.Buffer{}), WithMaxSteps(0)), echoRegistry(), "sys")
		got, err := agent.Run(context.Background(), "q")
		require.NoError(t, err)
		require.Equal(t, "finally", got)
		require.Len(t, m.requests, DefaultMaxSteps+11)
	})
}
