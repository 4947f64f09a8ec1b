package agent

import (
	"context"
	"fmt"
	"llm_steps/judge"
	"llm_steps/model"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// Evaluator grades a final answer. *judge.Judge satisfies it.
type Evaluator interface {
	Evaluate(ctx context.Context, query string, history []openai.ChatCompletionMessage, final string) model.Step
}

type CotResult struct {
	Answer  string
	Verdict string
}

// CotAgent runs the chain-of-thought protocol. Every THINK step is
// acknowledged with an EVALUATE message and the final answer is judged.
type CotAgent struct {
	BaseAgent
	judge     Evaluator
	sysPrompt string
}

func NewCotAgent(base BaseAgent, judge Evaluator, sysPrompt string) *CotAgent {
	return &CotAgent{
		BaseAgent: base,
		judge:     judge,
		sysPrompt: sysPrompt,
	}
}

func (agent *CotAgent) Run(ctx context.Context, query string) (CotResult, error) {
	t, closeFn, err := agent.newTranscript(agent.sysPrompt, query)
	if err != nil {
		return CotResult{}, err
	}
	defer closeFn()

	ack, err := model.MarshalStep(model.Step{Step: model.StepEvaluate, Content: judge.Fallback})
	if err != nil {
		return CotResult{}, err
	}
	for done := 0; agent.withinLimit(done); done++ {
		step, err := agent.nextStep(ctx, t)
		if err != nil {
			return CotResult{}, err
		}
		switch step.Step {
		case model.StepStart:
			agent.printf("🔥 %s\n", step.Content)
		case model.StepThink:
			agent.printf("\t🧠 %s\n", step.Content)
			if err := t.Append(model.RoleUser, ack); err != nil {
				return CotResult{}, err
			}
		case model.StepOutput:
			agent.printf("🤖 %s\n", step.Content)
			agent.printf("\t⚖️ Evaluating final answer...\n")
			answer := string(step.Content)
			verdict := agent.evaluate(ctx, query, t.Head(t.Len()-1), answer)
			agent.printf("\t⚖️ %s\n", verdict)
			return CotResult{Answer: answer, Verdict: verdict}, nil
		default:
			log.Warn().Str("step", string(step.Step)).Msg("unexpected step ignored")
		}
	}
	return CotResult{}, fmt.Errorf("%w: %d completions", ErrStepLimit, agent.maxSteps)
}

func (agent *CotAgent) evaluate(ctx context.Context, query string, history []openai.ChatCompletionMessage, final string) string {
	if agent.judge == nil {
		return judge.Fallback
	}
	return string(agent.judge.Evaluate(ctx, query, history, final).Content)
}
