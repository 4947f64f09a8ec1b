package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"llm_steps/model"
	"llm_steps/prompts"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// Fallback is the verdict used whenever the judge cannot produce one.
const Fallback = "Nice, You are going on correct path"

var errNoGenerator = errors.New("judge has no generator")

// Generator sends a single prompt to a second LLM provider.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type verdict struct {
	Evaluation    string     `json:"evaluation"`
	Feedback      string     `json:"feedback"`
	AccuracyScore model.Text `json:"accuracy_score"`
	Suggestions   model.Text `json:"suggestions"`
}

type historyEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Judge struct {
	gen Generator
}

func New(gen Generator) *Judge {
	return &Judge{gen: gen}
}

// Evaluate grades the final answer against the query and the reasoning
// history. It always returns an EVALUATE step.
func (j *Judge) Evaluate(ctx context.Context, query string, history []openai.ChatCompletionMessage, final string) model.Step {
	content, err := j.evaluate(ctx, query, history, final)
	if err != nil {
		log.Error().Err(err).Msg("judge evaluation failed")
		content = Fallback
	}
	return model.Step{Step: model.StepEvaluate, Content: model.Text(content)}
}

func (j *Judge) evaluate(ctx context.Context, query string, history []openai.ChatCompletionMessage, final string) (string, error) {
	if j == nil || j.gen == nil {
		return "", errNoGenerator
	}
	entries := make([]historyEntry, 0, len(history))
	for _, msg := range history {
		entries = append(entries, historyEntry{Role: msg.Role, Content: msg.Content})
	}
	var historyJSON bytes.Buffer
	enc := json.NewEncoder(&historyJSON)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return "", err
	}
	rendered := strings.TrimRight(historyJSON.String(), "\n")
	raw, err := j.gen.Generate(ctx, prompts.JudgePrompt(query, rendered, final))
	if err != nil {
		return "", fmt.Errorf("generate verdict: %w", err)
	}
	var v verdict
	if err := json.Unmarshal([]byte(model.StripCodeFence(raw)), &v); err != nil {
		return "", fmt.Errorf("parse verdict: %w", err)
	}
	content := fmt.Sprintf("Final Answer Judge: %s (Accuracy: %s/10) - %s", v.Evaluation, v.AccuracyScore, v.Feedback)
	if v.Suggestions != "" {
		content += ". Suggestions: " + string(v.Suggestions)
	}
	return content, nil
}
