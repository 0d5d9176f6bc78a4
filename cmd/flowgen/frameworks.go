package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
)

func NewFrameworksCommand() *cli.Command {
	return &cli.Command{
		Name:    "frameworks",
		Aliases: []string{"ls"},
		Usage:   "List target frameworks",
		Action: func(ctx context.Context, command *cli.Command) error {
			env, err := newEnvironment(ctx, command, "frameworks")
			if err != nil {
				return err
			}
			defer env.Close()

			out := command.Root().Writer

			for _, info := range env.generation.Frameworks() {
				status := "not implemented"
				if info.Supported {
					status = "supported"
				}

				_, _ = fmt.Fprintf(out, "%-10s %-16s %s\n", info.Framework, status, info.Description)
			}

			return nil
		},
	}
}
