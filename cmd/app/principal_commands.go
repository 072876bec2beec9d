package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/warden/cmd/app/commands"
	"github.com/allisson/warden/internal/app"
	"github.com/allisson/warden/internal/config"
)

func getPrincipalCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-principal",
			Usage: "Create a root principal (e.g. the bootstrap administrator)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable principal name",
				},
				&cli.StringFlag{
					Name:    "contact",
					Aliases: []string{"c"},
					Usage:   "Contact address for the principal",
				},
				&cli.StringFlag{
					Name:    "department",
					Aliases: []string{"d"},
					Usage:   "Department the principal belongs to",
				},
				&cli.BoolFlag{
					Name:    "admin",
					Aliases: []string{"a"},
					Value:   false,
					Usage:   "Whether the principal is an administrator",
				},
				&cli.StringFlag{
					Name:    "permissions",
					Aliases: []string{"p"},
					Usage:   "Comma-separated initial permission list",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.PrincipalUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreatePrincipal(
					ctx,
					useCase,
					container.Logger(),
					cmd.String("name"),
					cmd.String("contact"),
					cmd.String("department"),
					cmd.Bool("admin"),
					cmd.String("permissions"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "issue-credential",
			Usage: "Issue a credential for an existing principal",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "owner",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "Owning principal ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable credential name",
				},
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"desc"},
					Usage:   "Credential description",
				},
				&cli.StringFlag{
					Name:    "expires-in",
					Aliases: []string{"e"},
					Usage:   "Expiry interval from now (e.g. '720h'; omit for non-expiring)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.CredentialUseCase()
				if err != nil {
					return err
				}

				return commands.RunIssueCredential(
					ctx,
					useCase,
					container.Logger(),
					cmd.String("owner"),
					cmd.String("name"),
					cmd.String("description"),
					cmd.String("expires-in"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "revoke-created",
			Usage: "Revoke a principal and its entire creation subtree",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "actor",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Acting principal ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "target",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Target principal ID (UUID); must be in the actor's subtree",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.PrincipalUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevokeCreated(
					ctx,
					useCase,
					container.Logger(),
					cmd.String("actor"),
					cmd.String("target"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
