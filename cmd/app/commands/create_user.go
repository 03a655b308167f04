package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	userDomain "github.com/allisson/sessions/internal/user/domain"
	userUseCase "github.com/allisson/sessions/internal/user/usecase"
)

// RunCreateUser registers a new user account.
// Supports both interactive mode (when password is empty, prompts for it) and
// non-interactive mode (when password is provided). Outputs the user ID and
// username in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	useCase userUseCase.UseCase,
	logger *slog.Logger,
	username string,
	password string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new user", slog.String("username", username))

	// Prompt for password when not provided
	if password == "" {
		var err error
		password, err = promptForPassword(io)
		if err != nil {
			return fmt.Errorf("failed to get password: %w", err)
		}
	}

	input := userUseCase.RegisterUserInput{
		Username: username,
		Password: password,
	}

	user, err := useCase.RegisterUser(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputCreateUserJSON(user, io.Writer)
	} else {
		outputCreateUserText(user, io.Writer)
	}

	logger.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username),
	)

	return nil
}

// promptForPassword interactively prompts the user for a password.
func promptForPassword(io IOTuple) (string, error) {
	reader := bufio.NewReader(io.Reader)
	writer := io.Writer

	_, _ = fmt.Fprint(writer, "Enter password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password = strings.TrimSpace(password)

	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	return password, nil
}

// outputCreateUserText outputs the result in human-readable text format.
func outputCreateUserText(user *userDomain.User, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nUser created successfully!")
	_, _ = fmt.Fprintf(writer, "User ID: %s\n", user.ID.String())
	_, _ = fmt.Fprintf(writer, "Username: %s\n", user.Username)
}

// outputCreateUserJSON outputs the result in JSON format for machine consumption.
func outputCreateUserJSON(user *userDomain.User, writer io.Writer) {
	result := map[string]string{
		"user_id":  user.ID.String(),
		"username": user.Username,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
