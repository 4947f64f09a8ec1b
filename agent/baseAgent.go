package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	llmctx "llm_steps/context"
	"llm_steps/model"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const DefaultMaxSteps = 50

var (
	ErrStepLimit       = errors.New("step limit reached")
	ErrEmptyCompletion = errors.New("completion returned no choices")
)

// ChatCompleter is the part of *openai.Client the agents use.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type BaseAgent struct {
	model         ChatCompleter
	modelName     string
	limiter       *rate.Limiter
	out           io.Writer
	maxSteps      int
	transcriptDir string
}

type Option func(*BaseAgent)

// WithLimiter caps completion requests per second. rps <= 0 disables it.
func WithLimiter(rps float64) Option {
	return func(a *BaseAgent) {
		if rps > 0 {
			a.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

func WithOutput(w io.Writer) Option {
	return func(a *BaseAgent) {
		a.out = w
	}
}

// WithMaxSteps caps completions per run. 0 removes the cap.
func WithMaxSteps(n int) Option {
	return func(a *BaseAgent) {
		if n >= 0 {
			a.maxSteps = n
		}
	}
}

// WithTranscriptDir records every run as NDJSON under dir.
func WithTranscriptDir(dir string) Option {
	return func(a *BaseAgent) {
		a.transcriptDir = dir
	}
}

func NewBaseAgent(client ChatCompleter, modelName string, opts ...Option) BaseAgent {
	agent := BaseAgent{
		model:     client,
		modelName: modelName,
		out:       os.Stdout,
		maxSteps:  DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(&agent)
	}
	return agent
}

// complete sends the whole transcript and returns the first choice text.
func (agent *BaseAgent) complete(ctx context.Context, t *llmctx.Transcript) (string, error) {
	if agent.limiter != nil {
		if err := agent.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	resp, err := agent.model.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    agent.modelName,
		Messages: t.Messages(),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	log.Debug().Int("messages", t.Len()).Int("tokens", resp.Usage.TotalTokens).Msg("chat completion success")
	return resp.Choices[0].Message.Content, nil
}

// newTranscript seeds a transcript with the system prompt and the user query.
// The returned close func flushes the recorder when one is configured.
func (agent *BaseAgent) newTranscript(system string, user string) (*llmctx.Transcript, func(), error) {
	t := llmctx.NewTranscript()
	closeFn := func() {}
	if agent.transcriptDir != "" {
		rec, err := llmctx.NewRecorder(agent.transcriptDir)
		if err != nil {
			log.Error().Err(err).Str("dir", agent.transcriptDir).Msg("create transcript recorder failed, run continues unrecorded")
		} else {
			t.Record(rec)
			closeFn = func() {
				if err := rec.Close(); err != nil {
					log.Error().Err(err).Str("path", rec.Path()).Msg("close transcript failed")
				}
			}
		}
	}
	if err := t.Append(model.RoleSystem, system); err != nil {
		closeFn()
		return nil, nil, err
	}
	if err := t.Append(model.RoleUser, user); err != nil {
		closeFn()
		return nil, nil, err
	}
	return t, closeFn, nil
}

// nextStep requests one completion, parses it and appends the compacted
// assistant message.
func (agent *BaseAgent) nextStep(ctx context.Context, t *llmctx.Transcript) (model.Step, error) {
	raw, err := agent.complete(ctx, t)
	if err != nil {
		return model.Step{}, err
	}
	step, compact, err := model.ParseStep(raw)
	if err != nil {
		log.Error().Err(err).Str("raw", raw).Msg("parse step failed")
		return model.Step{}, err
	}
	if err := t.Append(model.RoleAssistant, compact); err != nil {
		return model.Step{}, err
	}
	return step, nil
}

// withinLimit reports whether another completion may be requested after
// done completions.
func (agent *BaseAgent) withinLimit(done int) bool {
	return agent.maxSteps == 0 || done < agent.maxSteps
}

func (agent *BaseAgent) printf(format string, args ...any) {
	fmt.Fprintf(agent.out, format, args...)
}
