package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	apiTokenUseCase "github.com/allisson/sessions/internal/apitoken/usecase"
)

// RunCleanExpiredAPITokens deletes permanent API tokens past their expiry.
// Outputs the deletion count in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredAPITokens(
	ctx context.Context,
	useCase apiTokenUseCase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("cleaning expired api tokens")

	count, err := useCase.CleanExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to clean expired api tokens: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputCleanExpiredJSON(count, writer)
	} else {
		outputCleanExpiredText(count, writer)
	}

	logger.Info("cleanup completed", slog.Int64("count", count))

	return nil
}

// outputCleanExpiredText outputs the result in human-readable text format.
func outputCleanExpiredText(count int64, writer io.Writer) {
	_, _ = fmt.Fprintf(writer, "Successfully deleted %d expired API token(s)\n", count)
}

// outputCleanExpiredJSON outputs the result in JSON format for machine consumption.
func outputCleanExpiredJSON(count int64, writer io.Writer) {
	result := map[string]interface{}{
		"count": count,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
