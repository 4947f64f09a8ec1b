package cmd

import (
	"fmt"
	"llm_steps/knowledgebase"
	"llm_steps/utils"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func indexCmd(a *app) *cobra.Command {
	var (
		chunkSize    int
		chunkOverlap int
		recreate     bool
	)
	cmd := &cobra.Command{
		Use:   "index <pdf>",
		Short: "Embed a PDF page by page into the vector collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			docs, err := knowledgebase.LoadPDF(args[0])
			if err != nil {
				return err
			}
			docs = knowledgebase.Split(docs, chunkSize, chunkOverlap)

			llm, err := newModel(a.cfg)
			if err != nil {
				return err
			}
			db, err := utils.NewDBMgr(ctx, a.cfg.MilvusAddr, a.cfg.CollectionName, a.cfg.EmbeddingDim)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			if recreate {
				if err := db.Drop(ctx); err != nil {
					log.Warn().Err(err).Msg("drop collection failed")
				}
			}
			if err := db.InitDB(ctx); err != nil {
				return err
			}
			n, err := utils.NewIndexer(llm, db).Index(ctx, docs)
			if err != nil {
				return err
			}
			log.Info().Str("file", args[0]).Int("chunks", n).Str("collection", a.cfg.CollectionName).Msg("index pdf success")
			fmt.Fprintln(a.out, "Indexing of PDF documents completed.")
			return nil
		},
	}
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "max runes per chunk, 0 keeps one chunk per page")
	cmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", 0, "runes shared by consecutive windows of a long paragraph")
	cmd.Flags().BoolVar(&recreate, "recreate", false, "drop the collection before indexing")
	return cmd
}
