package cmd

import (
	"bufio"
	"context"
	"fmt"
	"llm_steps/agent"
	"llm_steps/config"
	"llm_steps/utils"
	"strings"

	"github.com/rs/zerolog/log"
)

const userPrompt = "User Prompt> "

func newModel(cfg *config.Config) (*utils.Model, error) {
	if err := cfg.RequireOpenAI(); err != nil {
		return nil, err
	}
	return utils.NewModel(cfg.OpenAIBaseURL, cfg.OpenAIKey).WithEmbeddingModel(cfg.EmbeddingModel), nil
}

func newBaseAgent(a *app, llm agent.ChatCompleter) agent.BaseAgent {
	return agent.NewBaseAgent(llm, a.cfg.ChatModel,
		agent.WithOutput(a.out),
		agent.WithMaxSteps(a.cfg.MaxSteps),
		agent.WithLimiter(a.cfg.LLMRPS),
		agent.WithTranscriptDir(a.cfg.TranscriptDir),
	)
}

// runOnceOrLoop runs message when set, otherwise reads queries from in
// until EOF, "exit" or cancellation. Errors inside the loop are reported
// and the loop goes on.
func runOnceOrLoop(ctx context.Context, a *app, message string, run func(string) error) error {
	if message != "" {
		return run(message)
	}
	scanner := bufio.NewScanner(a.in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(a.out, userPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return nil
		}
		if err := run(input); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Msg("run failed")
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}
	}
}
