package cmd

import (
	"fmt"
	"llm_steps/agent"
	"llm_steps/judge"
	"llm_steps/prompts"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func cotCmd(a *app) *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "cot",
		Short: "Run chain-of-thought reasoning with a judged final answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			llm, err := newModel(a.cfg)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var gen judge.Generator
			if a.cfg.GeminiKey == "" {
				log.Warn().Msg("GEMINI_API_KEY is not set, judge falls back to a fixed verdict")
			} else {
				gemini, err := judge.NewGeminiGenerator(ctx, a.cfg.GeminiKey, a.cfg.JudgeModel)
				if err != nil {
					log.Error().Err(err).Msg("create gemini client failed, judge falls back to a fixed verdict")
				} else {
					gen = gemini
				}
			}
			cotAgent := agent.NewCotAgent(newBaseAgent(a, llm.Client), judge.New(gen), prompts.CotSystemPrompt)

			return runOnceOrLoop(ctx, a, message, func(query string) error {
				if _, err := cotAgent.Run(ctx, query); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "All steps completed successfully!")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "one-shot query (omit for interactive mode)")
	return cmd
}
