package main

import (
	"context"
	"fmt"

	"github.com/dukex/flowgen/pkg/lint"
	"github.com/dukex/flowgen/pkg/services"
	"github.com/dukex/flowgen/pkg/writer"
	cli "github.com/urfave/cli/v3"
)

func NewGenerateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"g"},
		Usage:     "Generate the flow's source files",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Directory the files are written under (defaults to output_dir from the config)",
				Sources: cli.EnvVars("FLOWGEN_OUT"),
			},
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "Parse the generated files and fail on syntax errors",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the file paths without writing anything",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			env, err := newEnvironment(ctx, command, "generate")
			if err != nil {
				return err
			}
			defer env.Close()

			raw, err := env.loadDefinition(command)
			if err != nil {
				return err
			}

			out := command.Root().Writer

			result := env.generation.Generate(ctx, raw)
			if !result.Success {
				for _, msg := range result.Errors {
					_, _ = fmt.Fprintf(out, "  - %s\n", msg)
				}

				return services.ResultError("generate", result)
			}

			if command.Bool("verify") || env.config.Verify {
				diagnostics, err := lint.CheckAll(ctx, result.Files)
				if err != nil {
					return fmt.Errorf("failed to verify generated files: %w", err)
				}

				for _, d := range diagnostics {
					_, _ = fmt.Fprintf(out, "  - %s\n", d.Error())
				}

				if len(diagnostics) > 0 {
					return fmt.Errorf("generated files have %d syntax error(s)", len(diagnostics))
				}
			}

			if command.Bool("dry-run") {
				for _, f := range result.Files {
					_, _ = fmt.Fprintln(out, f.Path)
				}

				_, _ = fmt.Fprintln(out, result.Message)

				return nil
			}

			dir := command.String("out")
			if dir == "" {
				dir = env.config.OutputDir
			}

			w, err := writer.NewOS(dir, env.logger)
			if err != nil {
				return err
			}

			written, err := w.Write(result.Files)
			if err != nil {
				return fmt.Errorf("wrote %d of %d files: %w", len(written), len(result.Files), err)
			}

			_, _ = fmt.Fprintf(out, "%s in %s\n", result.Message, w.Root())

			return nil
		},
	}
}
