package common

import (
	"context"

	"cvintake/internal/errors"
)

// ProcessFileFunc turns one résumé file into its output record.
type ProcessFileFunc[Output any] func(ctx context.Context, path string) (Output, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc func(path string, cfg CommandConfig)

// RunFileCommand encapsulates the common logic for file-based CLI commands:
// input validation, processing and formatted output.
func RunFileCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	path string,
	process ProcessFileFunc[Output],
	logDetails LogDetailsFunc,
) error {
	// Pass the logger when creating helpers
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	if err := fileProcessor.ValidateResumeFile(path); err != nil {
		return err
	}

	logDetails(path, cmdConfig)

	result, err := process(ctx, path)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
