package parser

import (
	"errors"
	"strings"
	"testing"
)

func significantKinds(src string) []TokenKind {
	var kinds []TokenKind
	for _, tok := range Tokenize(src, "test.lua") {
		if !tok.Kind.Insignificant() {
			kinds = append(kinds, tok.Kind)
		}
	}
	return kinds
}

func TestScannerKinds(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"local", []TokenKind{TokenLocal, TokenEOF}},
		{"local x = 1", []TokenKind{TokenLocal, TokenName, TokenAssign, TokenNumber, TokenEOF}},
		{"locals", []TokenKind{TokenName, TokenEOF}},
		{"3.14 0x1F 1e10 .5", []TokenKind{TokenNumber, TokenNumber, TokenNumber, TokenNumber, TokenEOF}},
		{`"a\"b" 'c'`, []TokenKind{TokenString, TokenString, TokenEOF}},
		{"[[long\nstring]]", []TokenKind{TokenLongString, TokenEOF}},
		{"[==[a]]b]==]", []TokenKind{TokenLongString, TokenEOF}},
		{"-- comment\nbreak", []TokenKind{TokenBreak, TokenEOF}},
		{"--[[ block\ncomment ]] do", []TokenKind{TokenDo, TokenEOF}},
		{"--[=[ level\none ]=] do", []TokenKind{TokenDo, TokenEOF}},
		{"--[==[ a ]] b ]=] c\n]==] do", []TokenKind{TokenDo, TokenEOF}},
		{"x = [=[a]=]", []TokenKind{TokenName, TokenAssign, TokenLongString, TokenEOF}},
		{"x = [===[a]==]b]===]", []TokenKind{TokenName, TokenAssign, TokenLongString, TokenEOF}},
		{"a..b", []TokenKind{TokenName, TokenConcat, TokenName, TokenEOF}},
		{"...", []TokenKind{TokenEllipsis, TokenEOF}},
		{"+ - * / // % ^ #", []TokenKind{TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenDoubleSlash, TokenPercent, TokenCaret, TokenHash, TokenEOF}},
		{"& ~ | << >>", []TokenKind{TokenAmpersand, TokenTilde, TokenPipe, TokenShl, TokenShr, TokenEOF}},
		{"== ~= <= >= < > =", []TokenKind{TokenEQ, TokenNE, TokenLE, TokenGE, TokenLT, TokenGT, TokenAssign, TokenEOF}},
		{"( ) { } [ ] :: ; : , .", []TokenKind{TokenLParen, TokenRParen, TokenLBrace, TokenRBrace, TokenLBracket, TokenRBracket, TokenDoubleColon, TokenSemicolon, TokenColon, TokenComma, TokenDot, TokenEOF}},
		{"goto continue", []TokenKind{TokenGoto, TokenContinue, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := significantKinds(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestScannerInsignificantTokens(t *testing.T) {
	tokens := Tokenize("x -- c\n", "test.lua")
	want := []TokenKind{TokenName, TokenWhitespace, TokenComment, TokenNewline, TokenEOF}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i, tok := range tokens {
		if tok.Kind != want[i] {
			t.Errorf("token %d: got %v, want %v", i, tok.Kind, want[i])
		}
	}
	if tokens[2].Literal != "-- c" {
		t.Errorf("comment literal = %q, want %q", tokens[2].Literal, "-- c")
	}
}

func TestScannerPositions(t *testing.T) {
	tokens := Tokenize("local x\n  y", "pos.lua")
	var names []Token
	for _, tok := range tokens {
		if tok.Kind == TokenName {
			names = append(names, tok)
		}
	}
	if len(names) != 2 {
		t.Fatalf("got %d names, want 2", len(names))
	}
	if names[0].Pos.Line != 1 || names[0].Pos.Column != 7 {
		t.Errorf("x at %s, want 1:7", names[0].Pos)
	}
	if names[1].Pos.Line != 2 || names[1].Pos.Column != 3 {
		t.Errorf("y at %s, want 2:3", names[1].Pos)
	}
	if names[1].Pos.File != "pos.lua" {
		t.Errorf("file = %q, want pos.lua", names[1].Pos.File)
	}
}

func TestScannerUnread(t *testing.T) {
	s := ScanString("a b", "")
	first := s.Next()
	if first.Kind != TokenName || s.Text() != "a" {
		t.Fatalf("first token = %v", first)
	}
	ws := s.Next()
	if ws.Kind != TokenWhitespace {
		t.Fatalf("second token = %v, want whitespace", ws)
	}

	s.Unread()
	if s.Text() != "a" {
		t.Errorf("Text after Unread = %q, want %q", s.Text(), "a")
	}
	if s.Position() != first.Pos {
		t.Errorf("Position after Unread = %s, want %s", s.Position(), first.Pos)
	}

	again := s.Next()
	if again != ws {
		t.Errorf("Next after Unread = %v, want %v", again, ws)
	}
	if next := s.Next(); next.Kind != TokenName || next.Literal != "b" {
		t.Errorf("third token = %v, want name b", next)
	}
	if next := s.Next(); next.Kind != TokenEOF {
		t.Errorf("fourth token = %v, want EOF", next)
	}
}

func TestScannerError(t *testing.T) {
	tokens := Tokenize("x = @", "")
	last := tokens[len(tokens)-1]
	if last.Kind != TokenError {
		t.Fatalf("last token = %v, want error", last)
	}
	if last.Literal == "" {
		t.Error("error token has no message")
	}

	s := ScanString("@", "")
	s.Next()
	if tok := s.Next(); tok.Kind != TokenError {
		t.Errorf("scanner did not stay failed, got %v", tok)
	}
}

func TestNewScanner(t *testing.T) {
	s, err := NewScanner(strings.NewReader("return"), "r.lua")
	if err != nil {
		t.Fatal(err)
	}
	if tok := s.Next(); tok.Kind != TokenReturn {
		t.Errorf("got %v, want return", tok)
	}
}

func TestScannerLeveledLongBrackets(t *testing.T) {
	tokens := Tokenize("--[==[\nfirst\nsecond\n]==]\nx", "")
	if tokens[0].Kind != TokenComment {
		t.Fatalf("first token = %v, want comment", tokens[0])
	}
	if tokens[0].Literal != "--[==[\nfirst\nsecond\n]==]" {
		t.Errorf("comment literal = %q", tokens[0].Literal)
	}

	tokens = Tokenize("[=[a]=]", "")
	if tokens[0].Kind != TokenLongString || tokens[0].Literal != "[=[a]=]" {
		t.Errorf("long string = %v", tokens[0])
	}

	chunk := mustParse(t, "--[=[\nnot code\n]=]\nx = 1")
	if got := Dump(chunk); got != "(chunk (block (= (x) (1))))" {
		t.Errorf("Dump = %s", got)
	}
	mustFail(t, "x = 1 [=[junk]=]")
}

func TestScannerLexerFailure(t *testing.T) {
	s := newScanner(nil, errors.New("cannot lex"), "bad.lua")
	tok := s.Next()
	if tok.Kind != TokenError || tok.Literal != "cannot lex" {
		t.Fatalf("first token = %v, want error", tok)
	}
	if tok.Pos.File != "bad.lua" || tok.Pos.Line != 1 {
		t.Errorf("error position = %s", tok.Pos)
	}
	if again := s.Next(); again != tok {
		t.Errorf("scanner did not stay failed, got %v", again)
	}

	_, err := New(newScanner(nil, errors.New("cannot lex"), "bad.lua")).Parse()
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) || syntaxErr.Message != "cannot lex" {
		t.Errorf("Parse error = %v, want syntax error %q", err, "cannot lex")
	}
}
