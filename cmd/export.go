package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pagelm/study-cli/internal/export"
	"github.com/pagelm/study-cli/internal/model"
)

var (
	exportIn  string
	exportOut string
)

var exportCmd = &cobra.Command{
	Use:   "export --in <answer-file>",
	Short: "Export an answer's flashcards to an XLSX workbook",
	Long:  "Reads a saved answer payload (as printed by `ask --json`) and writes its flashcards to a spreadsheet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(exportIn)
		if err != nil {
			return eris.Wrap(err, "read answer file")
		}

		var payload model.AskPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return eris.Wrap(err, "parse answer file")
		}
		if len(payload.Flashcards) == 0 {
			return eris.New("answer carries no flashcards")
		}

		out := exportOut
		if out == "" {
			out = "flashcards.xlsx"
		}
		if err := export.FlashcardsXLSX(out, payload.Topic, payload.Flashcards); err != nil {
			return err
		}

		zap.L().Info("flashcards exported",
			zap.String("file", out),
			zap.Int("cards", len(payload.Flashcards)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportIn, "in", "", "answer payload JSON file")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default flashcards.xlsx)")
	exportCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(exportCmd)
}
