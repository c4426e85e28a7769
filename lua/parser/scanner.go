package parser

import (
	"errors"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// TokenSource is the contract between the parser and the scanner. Next
// produces tokens on demand, including insignificant ones. Unread pushes the
// most recently produced token back so that the following Next returns it
// again; only one level of pushback is supported.
type TokenSource interface {
	Next() Token
	Unread()
	Text() string
	Position() Position
}

// Long brackets are matched up to level 4; RE2 has no back-references.
var luaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Newline", Pattern: `\r\n|\n|\r`},
	{Name: "Whitespace", Pattern: `[ \t\f\v]+`},
	{Name: "Comment", Pattern: `--(?:` + longBracket + `)|--[^\r\n]*`},
	{Name: "LongString", Pattern: longBracket},
	{Name: "String", Pattern: `"(?:[^"\\\r\n]|\\[\s\S])*"|'(?:[^'\\\r\n]|\\[\s\S])*'`},
	{Name: "Number", Pattern: `0[xX][0-9a-fA-F]*(?:\.[0-9a-fA-F]*)?(?:[pP][+-]?[0-9]+)?|[0-9]+(?:\.[0-9]*)?(?:[eE][+-]?[0-9]+)?|\.[0-9]+(?:[eE][+-]?[0-9]+)?`},
	{Name: "Name", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `\.\.\.|\.\.|::|//|<<|>>|==|~=|<=|>=|[-+*/%^#&~|<>=(){}\[\];:,.]`},
})

var longBracket = strings.Join([]string{
	`\[\[[\s\S]*?\]\]`,
	`\[=\[[\s\S]*?\]=\]`,
	`\[==\[[\s\S]*?\]==\]`,
	`\[===\[[\s\S]*?\]===\]`,
	`\[====\[[\s\S]*?\]====\]`,
}, "|")

var ruleKinds = func() map[lexer.TokenType]TokenKind {
	byName := map[string]TokenKind{
		"Newline":    TokenNewline,
		"Whitespace": TokenWhitespace,
		"Comment":    TokenComment,
		"LongString": TokenLongString,
		"String":     TokenString,
		"Number":     TokenNumber,
		"Name":       TokenName,
	}
	kinds := make(map[lexer.TokenType]TokenKind, len(byName))
	for name, typ := range luaLexer.Symbols() {
		if kind, ok := byName[name]; ok {
			kinds[typ] = kind
		}
	}
	return kinds
}()

var punctType = luaLexer.Symbols()["Punct"]

// Scanner turns Lua source text into tokens. It reports whitespace, newlines
// and comments as tokens of their own and supports a single token of
// pushback.
type Scanner struct {
	lex    lexer.Lexer
	file   string
	prev   Token
	last   Token
	pushed bool
	failed bool
}

func NewScanner(r io.Reader, file string) (*Scanner, error) {
	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return nil, err
	}
	return ScanString(sb.String(), file), nil
}

func ScanString(src string, file string) *Scanner {
	lex, err := luaLexer.LexString(file, src)
	return newScanner(lex, err, file)
}

// newScanner starts out failed when the lexer could not be created, so the
// first Next already reports the error.
func newScanner(lex lexer.Lexer, err error, file string) *Scanner {
	s := &Scanner{lex: lex, file: file}
	if err != nil {
		s.failed = true
		s.last = Token{Kind: TokenError, Literal: err.Error(), Pos: Position{File: file, Line: 1, Column: 1}}
	}
	return s
}

func (s *Scanner) Next() Token {
	if s.pushed {
		s.pushed = false
		return s.last
	}
	if s.failed {
		return s.last
	}
	s.prev = s.last
	s.last = s.scan()
	return s.last
}

// Unread re-presents the last token on the next call to Next and puts Text
// and Position back to where they were before it was produced. Calling it
// twice without an intervening Next has the same effect as calling it once.
func (s *Scanner) Unread() {
	s.pushed = true
}

// Text returns the raw text of the most recently produced token.
func (s *Scanner) Text() string {
	if s.pushed {
		return s.prev.Literal
	}
	return s.last.Literal
}

// Position returns the start of the most recently produced token.
func (s *Scanner) Position() Position {
	if s.pushed {
		return s.prev.Pos
	}
	return s.last.Pos
}

func (s *Scanner) scan() Token {
	tok, err := s.lex.Next()
	if err != nil {
		s.failed = true
		pos := Position{File: s.file}
		msg := err.Error()
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			pos = convertPosition(lexErr.Pos)
			msg = lexErr.Msg
		}
		return Token{Kind: TokenError, Literal: msg, Pos: pos}
	}
	if tok.EOF() {
		return Token{Kind: TokenEOF, Pos: convertPosition(tok.Pos)}
	}

	if tok.Type == punctType {
		return Token{Kind: punctuation[tok.Value], Literal: tok.Value, Pos: convertPosition(tok.Pos)}
	}
	kind := ruleKinds[tok.Type]
	if kind == TokenName {
		kind = LookupKeyword(tok.Value)
	}
	return Token{Kind: kind, Literal: tok.Value, Pos: convertPosition(tok.Pos)}
}

func convertPosition(pos lexer.Position) Position {
	return Position{
		File:   pos.Filename,
		Offset: pos.Offset,
		Line:   pos.Line,
		Column: pos.Column,
	}
}

// Tokenize returns every token of src, insignificant ones included, up to
// and including the EOF or error token.
func Tokenize(src string, file string) []Token {
	s := ScanString(src, file)
	var tokens []Token
	for {
		tok := s.Next()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF || tok.Kind == TokenError {
			return tokens
		}
	}
}
