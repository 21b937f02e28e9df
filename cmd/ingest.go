package main

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pagelm/study-cli/internal/material"
	"github.com/pagelm/study-cli/internal/snippet"
	"github.com/pagelm/study-cli/internal/textkit"
)

var (
	ingestNamespace string
	ingestChunkLen  int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <files...>",
	Short: "Load text files into the retrieval store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context(), "ask")
		if err != nil {
			return err
		}
		defer env.Close()

		namespace := ingestNamespace
		if namespace == "" {
			namespace = cfg.Retrieval.Namespace
		}

		var total int
		for _, path := range args {
			text, err := material.LoadFile(path)
			if err != nil {
				return err
			}

			source := filepath.Base(path)
			chunks := textkit.Chunk(text, ingestChunkLen)
			snippets := make([]snippet.Snippet, len(chunks))
			for i, text := range chunks {
				snippets[i] = snippet.Snippet{
					Namespace: namespace,
					Source:    source,
					Text:      text,
				}
			}

			if err := env.Store.Add(cmd.Context(), snippets); err != nil {
				return eris.Wrapf(err, "ingest: store %s", path)
			}
			total += len(snippets)

			zap.L().Info("file ingested",
				zap.String("file", path),
				zap.Int("snippets", len(snippets)),
			)
		}

		count, err := env.Store.Count(cmd.Context(), namespace)
		if err != nil {
			return eris.Wrap(err, "ingest: count")
		}
		zap.L().Info("ingest complete",
			zap.String("namespace", namespace),
			zap.Int("added", total),
			zap.Int("namespace_total", count),
		)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestNamespace, "namespace", "", "target namespace (default from config)")
	ingestCmd.Flags().IntVar(&ingestChunkLen, "chunk-len", 0, "max snippet length in characters (0 = default)")
	rootCmd.AddCommand(ingestCmd)
}
