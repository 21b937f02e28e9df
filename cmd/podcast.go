package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pagelm/study-cli/internal/material"
	"github.com/pagelm/study-cli/internal/model"
	"github.com/pagelm/study-cli/internal/podcast"
)

var (
	podcastMaterial  string
	podcastTopic     string
	podcastScriptOut string
	podcastScriptIn  string
	podcastAudioDir  string
	podcastBase      string
)

var podcastCmd = &cobra.Command{
	Use:   "podcast",
	Short: "Generate podcast scripts and audio from study material",
}

var podcastScriptCmd = &cobra.Command{
	Use:   "script --material <file>",
	Short: "Generate a two-host script from a material file",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context(), "podcast")
		if err != nil {
			return err
		}
		defer env.Close()

		text, err := readMaterial(podcastMaterial)
		if err != nil {
			return err
		}

		script, err := env.Podcast.MakeScript(cmd.Context(), text, podcastTopic)
		if err != nil {
			return eris.Wrap(err, "podcast script")
		}

		data, err := json.MarshalIndent(script, "", "  ")
		if err != nil {
			return eris.Wrap(err, "encode script")
		}

		if podcastScriptOut == "" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(podcastScriptOut, data, 0o644); err != nil {
			return eris.Wrap(err, "write script")
		}
		zap.L().Info("script written",
			zap.String("file", podcastScriptOut),
			zap.Int("segments", len(script.Segments)),
		)
		return nil
	},
}

var podcastAudioCmd = &cobra.Command{
	Use:   "audio --script <file>",
	Short: "Render a script to audio segment files",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context(), "podcast")
		if err != nil {
			return err
		}
		defer env.Close()

		data, err := os.ReadFile(podcastScriptIn)
		if err != nil {
			return eris.Wrap(err, "read script")
		}
		var script model.PodcastScript
		if err := json.Unmarshal(data, &script); err != nil {
			return eris.Wrap(err, "parse script")
		}

		dir := podcastAudioDir
		if dir == "" {
			dir = cfg.Podcast.OutputDir
		}
		base := podcastBase
		if base == "" {
			base = strings.TrimSuffix(filepath.Base(podcastScriptIn), ".json")
		}

		result, err := env.Podcast.MakeAudio(cmd.Context(), &script, dir, base, func(p podcast.Progress) {
			fmt.Printf("rendered %d/%d: %s\n", p.Index+1, p.Total, p.File)
		})
		if err != nil {
			return eris.Wrap(err, "podcast audio")
		}

		zap.L().Info("audio rendered",
			zap.Int("files", len(result.Files)),
			zap.String("manifest", result.Manifest),
		)
		return nil
	},
}

// readMaterial loads material from a file, or stdin when path is "-".
func readMaterial(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", eris.Wrap(err, "read stdin")
		}
		return string(data), nil
	}
	return material.LoadFile(path)
}

func init() {
	podcastScriptCmd.Flags().StringVar(&podcastMaterial, "material", "", "material file (\"-\" for stdin)")
	podcastScriptCmd.Flags().StringVar(&podcastTopic, "topic", "", "episode topic")
	podcastScriptCmd.Flags().StringVar(&podcastScriptOut, "out", "", "write the script JSON to a file instead of stdout")
	podcastScriptCmd.MarkFlagRequired("material")
	podcastAudioCmd.Flags().StringVar(&podcastScriptIn, "script", "", "script JSON file")
	podcastAudioCmd.Flags().StringVar(&podcastAudioDir, "out", "", "output directory (default from config)")
	podcastAudioCmd.Flags().StringVar(&podcastBase, "base", "", "base name for segment files (default from script file)")
	podcastAudioCmd.MarkFlagRequired("script")
	podcastCmd.AddCommand(podcastScriptCmd, podcastAudioCmd)
	rootCmd.AddCommand(podcastCmd)
}
