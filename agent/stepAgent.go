package agent

import (
	"context"
	"fmt"
	llmctx "llm_steps/context"
	"llm_steps/model"
	"llm_steps/tools"

	"github.com/rs/zerolog/log"
)

// StepAgent drives the START/THINK/TOOL/OBSERVE/OUTPUT protocol and runs
// tools on behalf of the model.
type StepAgent struct {
	BaseAgent
	registry  *tools.Registry
	sysPrompt string
}

func NewStepAgent(base BaseAgent, registry *tools.Registry, sysPrompt string) *StepAgent {
	return &StepAgent{
		BaseAgent: base,
		registry:  registry,
		sysPrompt: sysPrompt,
	}
}

// Run loops until the model emits an OUTPUT step and returns its content.
func (agent *StepAgent) Run(ctx context.Context, query string) (string, error) {
	t, closeFn, err := agent.newTranscript(agent.sysPrompt, query)
	if err != nil {
		return "", err
	}
	defer closeFn()

	for done := 0; agent.withinLimit(done); done++ {
		step, err := agent.nextStep(ctx, t)
		if err != nil {
			return "", err
		}
		switch step.Step {
		case model.StepStart:
			agent.printf("🔥 %s\n", step.Content)
		case model.StepThink:
			agent.printf("\t🧠 %s\n", step.Content)
		case model.StepTool:
			if err := agent.runTool(ctx, t, step); err != nil {
				return "", err
			}
		case model.StepOutput:
			agent.printf("🤖 %s\n", step.Content)
			return string(step.Content), nil
		default:
			log.Warn().Str("step", string(step.Step)).Msg("unexpected step ignored")
		}
	}
	return "", fmt.Errorf("%w: %d completions", ErrStepLimit, agent.maxSteps)
}

func (agent *StepAgent) runTool(ctx context.Context, t *llmctx.Transcript, step model.Step) error {
	name, input := string(step.ToolName), string(step.Input)
	result, ok := agent.registry.Execute(ctx, name, input)
	if !ok {
		log.Warn().Str("tool", name).Msg("unknown tool requested")
		return t.Append(model.RoleDeveloper, fmt.Sprintf("There is no such tool as %s", name))
	}
	agent.printf("🛠️: %s(%s) = %s\n", name, input, result)
	observe, err := model.MarshalStep(model.Step{Step: model.StepObserve, Content: model.Text(result)})
	if err != nil {
		return err
	}
	return t.Append(model.RoleDeveloper, observe)
}
