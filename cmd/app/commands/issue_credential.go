package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/allisson/warden/internal/credential/domain"
	credentialUseCase "github.com/allisson/warden/internal/credential/usecase"
)

// RunIssueCredential issues a credential for an existing principal and prints
// the plaintext secret. The secret is shown exactly once; only its hash is
// stored. An optional expiry duration (e.g. "720h") makes the credential
// expire after that interval.
//
// Requirements: Database must be migrated and accessible.
func RunIssueCredential(
	ctx context.Context,
	useCase credentialUseCase.CredentialUseCase,
	logger *slog.Logger,
	ownerID string,
	name string,
	description string,
	expiresIn string,
	format string,
	io IOTuple,
) error {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return fmt.Errorf("invalid owner id: %w", err)
	}

	var expiresAt *time.Time
	if expiresIn != "" {
		duration, err := time.ParseDuration(expiresIn)
		if err != nil {
			return fmt.Errorf("invalid expires-in duration: %w", err)
		}
		if duration <= 0 {
			return fmt.Errorf("expires-in duration must be positive")
		}
		t := time.Now().UTC().Add(duration)
		expiresAt = &t
	}

	logger.Info("issuing credential",
		slog.String("owner_id", owner.String()),
		slog.String("name", name),
	)

	output, err := useCase.Generate(ctx, &credentialDomain.GenerateCredentialInput{
		OwnerID:     owner,
		Name:        name,
		Description: description,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to issue credential: %w", err)
	}

	if format == "json" {
		outputCredentialJSON(output, io.Writer)
	} else {
		outputCredentialText(output, io.Writer)
	}

	logger.Info("credential issued successfully",
		slog.String("credential_id", output.Credential.ID.String()),
		slog.String("owner_id", owner.String()),
	)

	return nil
}

// outputCredentialText outputs the result in human-readable text format.
func outputCredentialText(output *credentialDomain.GenerateCredentialOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nCredential issued successfully!")
	_, _ = fmt.Fprintf(writer, "Credential ID: %s\n", output.Credential.ID.String())
	_, _ = fmt.Fprintf(writer, "Secret: %s\n", output.PlainSecret)
	if output.Credential.ExpiresAt != nil {
		_, _ = fmt.Fprintf(writer, "Expires at: %s\n", output.Credential.ExpiresAt.Format(time.RFC3339))
	}
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The secret is shown only once. Store it securely.")
}

// outputCredentialJSON outputs the result in JSON format for machine consumption.
func outputCredentialJSON(output *credentialDomain.GenerateCredentialOutput, writer io.Writer) {
	result := map[string]any{
		"credential_id": output.Credential.ID.String(),
		"secret":        output.PlainSecret,
	}
	if output.Credential.ExpiresAt != nil {
		result["expires_at"] = output.Credential.ExpiresAt.Format(time.RFC3339)
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
