package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/luast/lua/parser"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	historyFile = ".luast_history"
	promptMain  = "lua> "
	promptCont  = "...> "
)

func newReplCmd() *cobra.Command {
	var rightAssoc bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read Lua interactively and print each syntax tree",
		Long: `Read Lua statements or expressions interactively and print their trees.

Input that stops inside an unfinished construct continues on the next line.
A line that starts with a binary operator, such as "+ 1", extends the
previous expression. Type :quit to exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []parser.Option
			if rightAssoc {
				opts = append(opts, parser.WithRightAssociativeOperators())
			}
			return runRepl(&replSession{opts: opts})
		},
	}

	cmd.Flags().BoolVar(&rightAssoc, "right-assoc", false, "parse ^ and .. as right-associative")

	return cmd
}

func runRepl(session *replSession) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readInput(ln)
		if !ok {
			fmt.Println()
			return nil
		}
		trimmed := strings.TrimSpace(src)
		switch {
		case trimmed == "":
			continue
		case trimmed == ":quit":
			return nil
		case strings.HasPrefix(trimmed, ":"):
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		out, err := session.eval(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Println(out)
	}
}

// readInput prompts until the collected lines no longer end inside an
// unfinished construct. It reports false at end of input.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			log.Errorf("prompt: %s", err)
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if src := b.String(); !incomplete(src) {
			return src, true
		}
	}
}

// incomplete reports whether src neither parses as a chunk nor as an
// expression, and more input could fix one of the two.
func incomplete(src string) bool {
	_, chunkErr := parser.ParseString(src)
	if chunkErr == nil {
		return false
	}
	_, exprErr := parser.ParseExpressionString(src)
	if exprErr == nil {
		return false
	}
	return parser.IsIncomplete(chunkErr) || parser.IsIncomplete(exprErr)
}

// replSession remembers the last expression so that a following line can
// continue it.
type replSession struct {
	opts []parser.Option
	last parser.Expression
}

// eval parses src as a chunk, then as an expression, then as the
// continuation of the previous expression, and returns the tree of the
// first reading that succeeds.
func (s *replSession) eval(src string) (string, error) {
	chunk, chunkErr := parser.ParseString(src, s.opts...)
	if chunkErr == nil {
		return parser.Dump(chunk), nil
	}

	if expr, err := parser.ParseExpressionString(src, s.opts...); err == nil {
		s.last = expr
		return parser.Dump(expr), nil
	}

	if s.last != nil {
		p := parser.New(parser.ScanString(src, ""), s.opts...)
		if expr, err := p.ContinueExpression(s.last); err == nil {
			s.last = expr
			return parser.Dump(expr), nil
		}
	}
	return "", chunkErr
}
