package cmd

import (
	"context"
	"io"
	"llm_steps/config"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the root has loaded it.
type app struct {
	cfg *config.Config
	in  io.Reader
	out io.Writer
}

func Execute(ctx context.Context) error {
	return rootCmd(&app{in: os.Stdin, out: os.Stdout}).ExecuteContext(ctx)
}

func rootCmd(a *app) *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "llm-steps",
		Short: "Step-protocol LLM agents, chain-of-thought with a judge, and PDF RAG",
		Long: `llm-steps drives chat models through a JSON step protocol.

Examples:
  llm-steps agent -m "What is the weather in Patiala?"
  llm-steps cot -m "Solve 3 + 4 * 10 - 4 * 3"
  llm-steps index ./nodejs.pdf
  llm-steps chat -m "What is a closure?"`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(envFile); err != nil {
				log.Debug().Str("file", envFile).Msg("no .env file found, using environment variables")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogJSON)
			a.cfg = cfg
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(agentCmd(a))
	cmd.AddCommand(cotCmd(a))
	cmd.AddCommand(indexCmd(a))
	cmd.AddCommand(chatCmd(a))
	return cmd
}

// setupLogger points the global zerolog logger at w. Unknown levels fall
// back to info.
func setupLogger(w io.Writer, level string, jsonOutput bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if jsonOutput {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"})
}
