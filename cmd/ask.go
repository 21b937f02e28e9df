package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pagelm/study-cli/internal/model"
)

var (
	askNamespace string
	askTopK      int
	askHistory   string
	askJSON      bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a study question from the ingested corpus",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context(), "ask")
		if err != nil {
			return err
		}
		defer env.Close()

		namespace := askNamespace
		if namespace == "" {
			namespace = cfg.Retrieval.Namespace
		}
		topK := askTopK
		if topK == 0 {
			topK = cfg.Retrieval.TopK
		}

		history, err := loadHistory(askHistory)
		if err != nil {
			return err
		}

		req := model.AskRequest{
			Question:  strings.Join(args, " "),
			Namespace: namespace,
			TopK:      topK,
			History:   history,
		}

		payload, err := env.Ask.Answer(cmd.Context(), req)
		if err != nil {
			return eris.Wrap(err, "ask")
		}

		if askJSON {
			return json.NewEncoder(os.Stdout).Encode(payload)
		}

		fmt.Printf("Topic: %s\n\n%s\n", payload.Topic, payload.Answer)
		if len(payload.Flashcards) > 0 {
			fmt.Printf("\nFlashcards:\n")
			for i, card := range payload.Flashcards {
				fmt.Printf("  %d. Q: %s\n     A: %s\n", i+1, card.Question, card.Answer)
			}
		}
		return nil
	},
}

// loadHistory reads a conversation transcript from a JSON file. An empty
// path means no carried history.
func loadHistory(path string) ([]model.ConversationMessage, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read history file")
	}
	var history []model.ConversationMessage
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, eris.Wrap(err, "parse history file")
	}
	return history, nil
}

func init() {
	askCmd.Flags().StringVar(&askNamespace, "namespace", "", "retrieval namespace (default from config)")
	askCmd.Flags().IntVar(&askTopK, "top-k", 0, "number of snippets to retrieve (default from config)")
	askCmd.Flags().StringVar(&askHistory, "history", "", "JSON file with the prior conversation")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the raw JSON payload")
	rootCmd.AddCommand(askCmd)
}
