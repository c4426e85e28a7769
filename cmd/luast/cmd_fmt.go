package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/luast/format"
	"github.com/dhamidi/luast/lua/parser"
	"github.com/spf13/cobra"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool
	var rightAssoc bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Print a Lua file in canonical layout",
		Long: `Print a Lua file in canonical layout to stdout.

If no file is provided, reads Lua source from stdin.
Comments are not preserved.

Use -w to overwrite the file in place (requires a file argument). Files
that contain comments are left untouched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error
			var filename string

			var opts []parser.Option
			if rightAssoc {
				opts = append(opts, parser.WithRightAssociativeOperators())
			}

			if len(args) == 0 || args[0] == "-" {
				if fmtOverwrite {
					return fmt.Errorf("-w requires a file argument")
				}
				source, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				filename = args[0]
				if fmtOverwrite {
					return rewriteFile(filename, opts...)
				}
				source, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			output, err := format.PrettyPrintLua(source, filename, opts...)
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}
			_, err = os.Stdout.Write(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().BoolVar(&rightAssoc, "right-assoc", false, "parse ^ and .. as right-associative")

	return cmd
}

// rewriteFile replaces filename with its formatted form. A file with
// comments is refused, since formatting would delete them.
func rewriteFile(filename string, opts ...parser.Option) error {
	source, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if format.HasComments(string(source)) {
		return fmt.Errorf("refusing to rewrite %s: formatting would drop its comments", filename)
	}

	output, err := format.PrettyPrintLua(source, filename, opts...)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	log.Infof("rewriting %s", filename)
	return os.WriteFile(filename, output, 0644)
}
