package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/luast/format"
	"github.com/dhamidi/luast/lua/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var expression string
	var rightAssoc bool
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a Lua file or expression and dump the syntax tree",
		Long: `Parse a Lua chunk and dump its syntax tree.

If no file is provided, or the file is "-", reads Lua source from stdin.
Use -e to parse a single expression instead of a chunk.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []parser.Option{parser.WithMaxDepth(maxDepth)}
			if rightAssoc {
				opts = append(opts, parser.WithRightAssociativeOperators())
			}

			var node parser.Node
			if cmd.Flags().Changed("expression") {
				expr, err := parser.ParseExpressionString(expression, opts...)
				if err != nil {
					return fmt.Errorf("parse expression: %w", err)
				}
				node = expr
			} else {
				source, filename, err := readSource(args)
				if err != nil {
					return err
				}
				if filename != "" {
					opts = append(opts, parser.WithFile(filename))
				}
				chunk, err := parser.ParseString(string(source), opts...)
				if err != nil {
					return fmt.Errorf("parse: %w", err)
				}
				node = chunk
			}

			switch outputFormat {
			case "json":
				if err := format.NewASTJSONEncoder(os.Stdout).Encode(node); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
				fmt.Println()
			case "tree":
				fmt.Println(parser.Dump(node))
			case "lua":
				if err := format.NewLuaPrinter(os.Stdout).Print(node); err != nil {
					return fmt.Errorf("print lua: %w", err)
				}
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, tree, lua)")
	cmd.Flags().StringVarP(&expression, "expression", "e", "", "parse this expression instead of a file")
	cmd.Flags().BoolVar(&rightAssoc, "right-assoc", false, "parse ^ and .. as right-associative")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 200, "maximum syntax nesting depth")

	return cmd
}

// readSource reads the file named by args, or stdin when args is empty or
// names "-". The returned filename is empty for stdin.
func readSource(args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return source, "", nil
	}
	source, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	log.Debugf("read %d bytes from %s", len(source), args[0])
	return source, args[0], nil
}
