package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Harshitk-cp/plotweave/internal/analysis"
	"github.com/Harshitk-cp/plotweave/internal/config"
	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/Harshitk-cp/plotweave/internal/logging"
	"github.com/Harshitk-cp/plotweave/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// storyNamespace derives stable story IDs from input names.
var storyNamespace = uuid.MustParse("8a2b4c1e-5f3d-4e6a-9b7c-0d1e2f3a4b5c")

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a text file and print the narrative model",
		Long: `Analyze a text file without storing anything.

Pass "-" to read from standard input. Options can be loaded from a YAML file
whose keys match the API options (extract_characters, extract_events,
confidence_threshold, seed, ...); flags override the file.

Examples:
  plotweave analyze story.txt
  plotweave analyze --options options.yaml --seed 7 story.txt
  plotweave analyze --json story.txt > model.json`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().Float64("threshold", domain.DefaultConfidenceThreshold, "minimum confidence for reported entities")
	cmd.Flags().String("options", "", "YAML file with analysis options")
	cmd.Flags().Uint64("seed", 0, "seed for thematic plotline naming")
	cmd.Flags().Bool("json", false, "print the full result as JSON")
	cmd.Flags().String("story-id", "", "story UUID (default: derived from the file name)")
	cmd.Flags().Bool("verbose", false, "log pipeline progress to stderr")
	return cmd
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	_ = config.Load()

	text, err := readInput(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	storyID, err := resolveStoryID(cmd, args[0])
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		if logger, err = logging.New("debug", ""); err != nil {
			return err
		}
	}

	svc := service.NewAnalysisService(nil, analysis.NewPipeline(), logger)
	svc.SetLimits(0, config.MaxTextBytes())

	result, _, err := svc.Analyze(cmd.Context(), &domain.AnalysisRequest{
		StoryID: storyID,
		Text:    text,
		Options: opts,
		Preview: true,
	})
	if err != nil {
		return fmt.Errorf("analyze %s: %w", args[0], err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printSummary(cmd.OutOrStdout(), result)
	return nil
}

func readInput(stdin io.Reader, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// resolveOptions layers defaults, the YAML file, then explicit flags.
func resolveOptions(cmd *cobra.Command) (domain.AnalysisOptions, error) {
	opts := domain.DefaultAnalysisOptions()
	opts.ConfidenceThreshold = config.ConfidenceThreshold()

	if path, _ := cmd.Flags().GetString("options"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return opts, fmt.Errorf("read options: %w", err)
		}
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return opts, fmt.Errorf("parse options %s: %w", path, err)
		}
	}

	if cmd.Flags().Changed("threshold") {
		opts.ConfidenceThreshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	return opts, nil
}

func resolveStoryID(cmd *cobra.Command, path string) (uuid.UUID, error) {
	if raw, _ := cmd.Flags().GetString("story-id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid --story-id: %w", err)
		}
		return id, nil
	}
	return uuid.NewSHA1(storyNamespace, []byte(path)), nil
}
