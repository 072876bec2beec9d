package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	principalDomain "github.com/allisson/warden/internal/principal/domain"
	principalUseCase "github.com/allisson/warden/internal/principal/usecase"
)

// RunCreatePrincipal creates a root principal, typically the bootstrap
// administrator. Root principals have no creator and can only be made from the
// command line. Outputs the principal ID in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreatePrincipal(
	ctx context.Context,
	useCase principalUseCase.PrincipalUseCase,
	logger *slog.Logger,
	name string,
	contact string,
	department string,
	isAdmin bool,
	permissionsCSV string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating root principal", slog.String("name", name))

	principal, err := useCase.Create(ctx, &principalDomain.CreatePrincipalInput{
		Name:        name,
		Contact:     contact,
		Department:  department,
		IsAdmin:     isAdmin,
		Permissions: parsePermissions(permissionsCSV),
		CreatedBy:   nil,
	})
	if err != nil {
		return fmt.Errorf("failed to create principal: %w", err)
	}

	if format == "json" {
		outputPrincipalJSON(principal, io.Writer)
	} else {
		outputPrincipalText(principal, io.Writer)
	}

	logger.Info("principal created successfully",
		slog.String("principal_id", principal.ID.String()),
		slog.String("name", name),
		slog.Bool("is_admin", isAdmin),
	)

	return nil
}

// parsePermissions converts a comma-separated permission list into a slice.
func parsePermissions(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	parts := strings.Split(input, ",")
	permissions := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			permissions = append(permissions, trimmed)
		}
	}

	return permissions
}

// outputPrincipalText outputs the result in human-readable text format.
func outputPrincipalText(principal *principalDomain.Principal, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nPrincipal created successfully!")
	_, _ = fmt.Fprintf(writer, "Principal ID: %s\n", principal.ID.String())
	_, _ = fmt.Fprintf(writer, "Name: %s\n", principal.Name)
	_, _ = fmt.Fprintf(writer, "Admin: %t\n", principal.IsAdmin)
	if len(principal.Permissions) > 0 {
		_, _ = fmt.Fprintf(writer, "Permissions: %s\n", strings.Join(principal.Permissions, ", "))
	}
	_, _ = fmt.Fprintln(writer, "\nIssue a credential with 'issue-credential' to authenticate as this principal.")
}

// outputPrincipalJSON outputs the result in JSON format for machine consumption.
func outputPrincipalJSON(principal *principalDomain.Principal, writer io.Writer) {
	result := map[string]any{
		"principal_id": principal.ID.String(),
		"name":         principal.Name,
		"is_admin":     principal.IsAdmin,
		"permissions":  principal.Permissions,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
