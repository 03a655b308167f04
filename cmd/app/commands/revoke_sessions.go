package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	sessionUseCase "github.com/allisson/sessions/internal/session/usecase"
)

// RunRevokeSessions revokes the active session token pair for a user.
// Every instance sharing the token store rejects the revoked tokens immediately.
// Idempotent when the user has no active session.
//
// Requirements: The token store must be accessible.
func RunRevokeSessions(
	ctx context.Context,
	useCase sessionUseCase.SessionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	username string,
	format string,
) error {
	logger.Info("revoking user sessions", slog.String("username", username))

	if err := useCase.Revoke(ctx, username); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputRevokeSessionsJSON(username, writer)
	} else {
		outputRevokeSessionsText(username, writer)
	}

	logger.Info("sessions revoked successfully", slog.String("username", username))

	return nil
}

// outputRevokeSessionsText outputs the result in human-readable text format.
func outputRevokeSessionsText(username string, writer io.Writer) {
	_, _ = fmt.Fprintf(writer, "Successfully revoked sessions for user %q\n", username)
}

// outputRevokeSessionsJSON outputs the result in JSON format for machine consumption.
func outputRevokeSessionsJSON(username string, writer io.Writer) {
	result := map[string]string{
		"username": username,
		"status":   "revoked",
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
