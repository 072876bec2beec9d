package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	principalDomain "github.com/allisson/warden/internal/principal/domain"
	principalUseCase "github.com/allisson/warden/internal/principal/usecase"
)

// RunRevokeCreated revokes a principal and its entire creation subtree on
// behalf of an acting principal. The target must be a direct or transitive
// creation of the actor. Credentials owned by revoked principals are revoked
// in the same transaction.
//
// Requirements: Database must be migrated and accessible.
func RunRevokeCreated(
	ctx context.Context,
	useCase principalUseCase.PrincipalUseCase,
	logger *slog.Logger,
	actorID string,
	targetID string,
	format string,
	io IOTuple,
) error {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return fmt.Errorf("invalid actor id: %w", err)
	}

	target, err := uuid.Parse(targetID)
	if err != nil {
		return fmt.Errorf("invalid target id: %w", err)
	}

	logger.Info("revoking principal subtree",
		slog.String("actor_id", actor.String()),
		slog.String("target_id", target.String()),
	)

	output, err := useCase.RevokeCreated(ctx, actor, target)
	if err != nil {
		return fmt.Errorf("failed to revoke principal subtree: %w", err)
	}

	if format == "json" {
		outputRevokeJSON(output, io.Writer)
	} else {
		outputRevokeText(output, io.Writer)
	}

	logger.Info("principal subtree revoked",
		slog.String("target_id", target.String()),
		slog.Int("affected_count", output.AffectedCount),
	)

	return nil
}

// outputRevokeText outputs the result in human-readable text format.
func outputRevokeText(output *principalDomain.RevokeOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nPrincipal subtree revoked!")
	_, _ = fmt.Fprintf(writer, "Principals in subtree: %d\n", len(output.RevokedIDs))
	_, _ = fmt.Fprintf(writer, "Newly revoked: %d\n", output.AffectedCount)
	for _, id := range output.RevokedIDs {
		_, _ = fmt.Fprintf(writer, "  - %s\n", id.String())
	}
}

// outputRevokeJSON outputs the result in JSON format for machine consumption.
func outputRevokeJSON(output *principalDomain.RevokeOutput, writer io.Writer) {
	ids := make([]string, 0, len(output.RevokedIDs))
	for _, id := range output.RevokedIDs {
		ids = append(ids, id.String())
	}

	result := map[string]any{
		"revoked_ids":    ids,
		"affected_count": output.AffectedCount,
		"revoked_at":     output.RevokedAt,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
