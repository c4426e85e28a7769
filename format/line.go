package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/luast/lua/parser"
)

// TokenLineEncoder writes one tab-separated line per token:
// position, kind and the quoted literal.
type TokenLineEncoder struct {
	w          io.Writer
	tokens     []parser.Token
	whitespace bool
}

func NewTokenLineEncoder(w io.Writer) *TokenLineEncoder {
	return &TokenLineEncoder{w: w}
}

// IncludeWhitespace makes the encoder keep whitespace, newline and comment
// tokens.
func (e *TokenLineEncoder) IncludeWhitespace(include bool) *TokenLineEncoder {
	e.whitespace = include
	return e
}

func (e *TokenLineEncoder) Encode(tokens []parser.Token) error {
	e.tokens = tokens
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TokenLineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, tok := range e.tokens {
		if tok.Kind.Insignificant() && !e.whitespace {
			continue
		}
		fmt.Fprintf(&sb, "%d:%d\t%s\t%q\n",
			tok.Pos.Line,
			tok.Pos.Column,
			e.kindStr(tok.Kind),
			tok.Literal,
		)
	}
	return []byte(sb.String()), nil
}

func (e *TokenLineEncoder) kindStr(kind parser.TokenKind) string {
	switch {
	case kind == parser.TokenEOF:
		return "eof"
	case kind == parser.TokenError:
		return "error"
	case kind.Insignificant():
		return strings.ToLower(kind.String())
	case kind == parser.TokenName, kind == parser.TokenNumber, kind == parser.TokenString, kind == parser.TokenLongString:
		return strings.Trim(kind.String(), "<>")
	case parser.LookupKeyword(kind.String()) == kind:
		return "keyword"
	default:
		return "punct"
	}
}
