package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cvintake/internal/common"
	"cvintake/internal/extract"
	"cvintake/internal/ingest"
	"cvintake/internal/types"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [resume-file]",
	Short: "Extract candidate contact fields from a résumé file",
	Long: `Extract the candidate's email address, phone number, desired contract
type and mission duration from a résumé file. PDF, DOCX and plain text
files are supported; fields that cannot be found are reported as
"unspecified".`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if extractConfig.OutputFormat == "" {
			extractConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(extractConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runExtract,
}

var extractConfig common.CommandConfig

func init() {
	extractCmd.Flags().StringVarP(&extractConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().StringVar(&extractConfig.OutputFormat, "format", "", "Output format: json, text, or csv")

	// Add completion for format flag
	_ = extractCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	reader := ingest.NewReader(cfg.App.UploadDir)

	process := func(ctx context.Context, path string) (types.CandidateRecord, error) {
		f, err := os.Open(path)
		if err != nil {
			return types.CandidateRecord{}, fmt.Errorf("failed to open résumé file: %w", err)
		}
		defer f.Close()

		doc, err := reader.Read(filepath.Base(path), f)
		if err != nil {
			return types.CandidateRecord{}, err
		}
		return extract.Candidate(doc.Text, doc.Filename), nil
	}

	logDetails := func(path string, cmdCfg common.CommandConfig) {
		logger.Info("Starting candidate extraction",
			"file", path,
			"output_format", cmdCfg.OutputFormat)
	}

	if err := common.RunFileCommand(
		cmd.Context(),
		logger,
		extractConfig,
		args[0],
		process,
		logDetails,
	); err != nil {
		return fmt.Errorf("failed to extract candidate fields: %w", err)
	}
	logger.Info("Candidate extraction completed successfully")
	return nil
}
