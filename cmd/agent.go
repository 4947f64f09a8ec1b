package cmd

import (
	"fmt"
	"llm_steps/agent"
	"llm_steps/prompts"
	"llm_steps/tools"
	"runtime"

	"github.com/spf13/cobra"
)

func agentCmd(a *app) *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Run the tool-using step agent",
		Long: `Run the START/THINK/TOOL/OBSERVE/OUTPUT agent with the weather, shell and
file tools. Without -m it reads queries interactively.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			llm, err := newModel(a.cfg)
			if err != nil {
				return err
			}
			registry, shell, err := tools.NewDefaultRegistry(tools.Options{
				WeatherURL:      a.cfg.WeatherURL,
				WeatherCacheTTL: a.cfg.WeatherCacheTTL,
				Shell:           a.cfg.Shell,
				Workspace:       a.cfg.WorkspaceDir,
			})
			if err != nil {
				return err
			}
			sysPrompt := prompts.AgentSystemPrompt(registry.Describe(), shell.Name(), runtime.GOOS)
			stepAgent := agent.NewStepAgent(newBaseAgent(a, llm.Client), registry, sysPrompt)

			ctx := cmd.Context()
			return runOnceOrLoop(ctx, a, message, func(query string) error {
				if _, err := stepAgent.Run(ctx, query); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Done...")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "one-shot query (omit for interactive mode)")
	return cmd
}
