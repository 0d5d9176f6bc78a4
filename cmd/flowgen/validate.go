package main

import (
	"context"
	"fmt"

	"github.com/dukex/flowgen/pkg/services"
	cli "github.com/urfave/cli/v3"
)

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Check a flow definition without generating code",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, command *cli.Command) error {
			env, err := newEnvironment(ctx, command, "validate")
			if err != nil {
				return err
			}
			defer env.Close()

			raw, err := env.loadDefinition(command)
			if err != nil {
				return err
			}

			result := env.generation.Validate(ctx, raw)
			out := command.Root().Writer

			if result.Valid {
				_, _ = fmt.Fprintf(out, "%s is valid (%d steps)\n", result.Normalized.Name, len(result.Normalized.Steps))

				return nil
			}

			for _, msg := range result.Errors {
				_, _ = fmt.Fprintf(out, "  - %s\n", msg)
			}

			return &services.ServiceError{
				Op:      "validate",
				Message: fmt.Sprintf("%d error(s) found", len(result.Errors)),
				Details: result.Errors,
				Err:     services.ErrInvalidDefinition,
			}
		},
	}
}
