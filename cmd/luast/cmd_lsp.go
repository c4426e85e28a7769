package main

import (
	"github.com/dhamidi/luast/lsp"
	"github.com/dhamidi/luast/lua/parser"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	var rightAssoc bool

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []parser.Option
			if rightAssoc {
				opts = append(opts, parser.WithRightAssociativeOperators())
			}
			log.Info("starting language server")
			server := lsp.NewServer("0.1.0", opts...)
			return server.RunStdio()
		},
	}

	cmd.Flags().BoolVar(&rightAssoc, "right-assoc", false, "parse ^ and .. as right-associative")

	return cmd
}
