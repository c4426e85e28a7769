// Package grammar holds an EBNF description of the Lua dialect accepted by
// the parser. The grammar documents the language and is checked against
// the parser's token tables. It is not used to drive parsing.
//
// Productions starting with an upper-case letter are syntactic; lower-case
// productions describe tokens. A binary operator may also start an
// expression, which the parser accepts only when it is given a left
// operand to continue from.
package grammar

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// Start is the production a chunk is parsed from.
const Start = "Chunk"

//go:embed lua.ebnf
var source []byte

// Source returns the text of the built-in grammar.
func Source() []byte {
	return bytes.Clone(source)
}

// Load parses and verifies the built-in grammar.
func Load() (ebnf.Grammar, error) {
	return Parse("lua.ebnf", bytes.NewReader(source), Start)
}

// LoadFile parses a grammar file. If start is not empty the grammar is also
// verified from that production.
func LoadFile(filename, start string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return Parse(filename, f, start)
}

func Parse(filename string, r io.Reader, start string) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if start == "" {
		return g, nil
	}
	if err := ebnf.Verify(g, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}

// Terminals returns the literal tokens used by the syntactic productions
// of g, sorted and without duplicates.
func Terminals(g ebnf.Grammar) []string {
	seen := make(map[string]bool)
	for name, prod := range g {
		if IsLexical(name) {
			continue
		}
		collect(prod.Expr, seen)
	}
	out := make([]string, 0, len(seen))
	for tok := range seen {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// IsLexical reports whether a production name describes a token.
func IsLexical(name string) bool {
	r, size := utf8.DecodeRuneInString(name)
	return size > 0 && !unicode.IsUpper(r)
}

func collect(expr ebnf.Expression, seen map[string]bool) {
	switch e := expr.(type) {
	case ebnf.Alternative:
		for _, x := range e {
			collect(x, seen)
		}
	case ebnf.Sequence:
		for _, x := range e {
			collect(x, seen)
		}
	case *ebnf.Group:
		collect(e.Body, seen)
	case *ebnf.Option:
		collect(e.Body, seen)
	case *ebnf.Repetition:
		collect(e.Body, seen)
	case *ebnf.Token:
		seen[e.String] = true
	}
}
