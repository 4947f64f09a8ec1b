package cmd

import (
	"bytes"
	"llm_steps/agent"
	llmctx "llm_steps/context"
	"llm_steps/utils"

	"github.com/spf13/cobra"
)

func chatCmd(a *app) *cobra.Command {
	var (
		message     string
		topK        int
		showSources bool
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Answer questions from the indexed PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			llm, err := newModel(a.cfg)
			if err != nil {
				return err
			}
			db, err := utils.NewDBMgr(ctx, a.cfg.MilvusAddr, a.cfg.CollectionName, a.cfg.EmbeddingDim)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			if topK <= 0 {
				topK = a.cfg.TopK
			}
			ragAgent := agent.NewRagAgent(newBaseAgent(a, llm.Client), utils.NewRetriever(llm, db), topK)
			return runOnceOrLoop(ctx, a, message, func(query string) error {
				_, docs, err := ragAgent.Ask(ctx, query)
				if err != nil {
					return err
				}
				if showSources {
					var buf bytes.Buffer
					llmctx.WriteSources(&buf, docs, 200)
					_, err = a.out.Write(buf.Bytes())
				}
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "one-shot question (omit for interactive mode)")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "chunks to retrieve (default RAG_TOP_K)")
	cmd.Flags().BoolVar(&showSources, "sources", false, "print the retrieved chunks after the answer")
	return cmd
}
