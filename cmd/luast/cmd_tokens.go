package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/luast/format"
	"github.com/dhamidi/luast/lua/parser"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var whitespace bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a Lua file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := readSource(args)
			if err != nil {
				return err
			}
			tokens := parser.Tokenize(string(source), filename)
			enc := format.NewTokenLineEncoder(os.Stdout).IncludeWhitespace(whitespace)
			if err := enc.Encode(tokens); err != nil {
				return fmt.Errorf("encode tokens: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&whitespace, "whitespace", false, "include whitespace, newline and comment tokens")

	return cmd
}
