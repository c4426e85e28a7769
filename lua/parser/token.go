package parser

import (
	"fmt"
	"sort"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenNewline
	TokenComment

	// Literals
	TokenName
	TokenNumber
	TokenString
	TokenLongString

	// Keywords
	TokenAnd
	TokenBreak
	TokenContinue
	TokenDo
	TokenElse
	TokenElseif
	TokenEnd
	TokenFalse
	TokenFor
	TokenFunction
	TokenGoto
	TokenIf
	TokenIn
	TokenLocal
	TokenNil
	TokenNot
	TokenOr
	TokenRepeat
	TokenReturn
	TokenThen
	TokenTrue
	TokenUntil
	TokenWhile

	// Operators and punctuation
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenDoubleSlash
	TokenPercent
	TokenCaret
	TokenHash
	TokenAmpersand
	TokenTilde
	TokenPipe
	TokenShl
	TokenShr
	TokenConcat
	TokenEQ
	TokenNE
	TokenLE
	TokenGE
	TokenLT
	TokenGT
	TokenAssign
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenDoubleColon
	TokenSemicolon
	TokenColon
	TokenComma
	TokenDot
	TokenEllipsis

	tokenKindCount
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:         "<eof>",
	TokenError:       "Error",
	TokenWhitespace:  "Whitespace",
	TokenNewline:     "Newline",
	TokenComment:     "Comment",
	TokenName:        "<name>",
	TokenNumber:      "<number>",
	TokenString:      "<string>",
	TokenLongString:  "<string>",
	TokenAnd:         "and",
	TokenBreak:       "break",
	TokenContinue:    "continue",
	TokenDo:          "do",
	TokenElse:        "else",
	TokenElseif:      "elseif",
	TokenEnd:         "end",
	TokenFalse:       "false",
	TokenFor:         "for",
	TokenFunction:    "function",
	TokenGoto:        "goto",
	TokenIf:          "if",
	TokenIn:          "in",
	TokenLocal:       "local",
	TokenNil:         "nil",
	TokenNot:         "not",
	TokenOr:          "or",
	TokenRepeat:      "repeat",
	TokenReturn:      "return",
	TokenThen:        "then",
	TokenTrue:        "true",
	TokenUntil:       "until",
	TokenWhile:       "while",
	TokenPlus:        "+",
	TokenMinus:       "-",
	TokenStar:        "*",
	TokenSlash:       "/",
	TokenDoubleSlash: "//",
	TokenPercent:     "%",
	TokenCaret:       "^",
	TokenHash:        "#",
	TokenAmpersand:   "&",
	TokenTilde:       "~",
	TokenPipe:        "|",
	TokenShl:         "<<",
	TokenShr:         ">>",
	TokenConcat:      "..",
	TokenEQ:          "==",
	TokenNE:          "~=",
	TokenLE:          "<=",
	TokenGE:          ">=",
	TokenLT:          "<",
	TokenGT:          ">",
	TokenAssign:      "=",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenLBrace:      "{",
	TokenRBrace:      "}",
	TokenLBracket:    "[",
	TokenRBracket:    "]",
	TokenDoubleColon: "::",
	TokenSemicolon:   ";",
	TokenColon:       ":",
	TokenComma:       ",",
	TokenDot:         ".",
	TokenEllipsis:    "...",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Insignificant reports whether the cursor skips tokens of this kind.
func (k TokenKind) Insignificant() bool {
	return k == TokenWhitespace || k == TokenNewline || k == TokenComment
}

type Token struct {
	Kind    TokenKind
	Literal string
	Pos     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q @%s", t.Kind, t.Literal, t.Pos)
}

var keywords = map[string]TokenKind{
	"and":      TokenAnd,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"do":       TokenDo,
	"else":     TokenElse,
	"elseif":   TokenElseif,
	"end":      TokenEnd,
	"false":    TokenFalse,
	"for":      TokenFor,
	"function": TokenFunction,
	"goto":     TokenGoto,
	"if":       TokenIf,
	"in":       TokenIn,
	"local":    TokenLocal,
	"nil":      TokenNil,
	"not":      TokenNot,
	"or":       TokenOr,
	"repeat":   TokenRepeat,
	"return":   TokenReturn,
	"then":     TokenThen,
	"true":     TokenTrue,
	"until":    TokenUntil,
	"while":    TokenWhile,
}

var punctuation = map[string]TokenKind{
	"+":   TokenPlus,
	"-":   TokenMinus,
	"*":   TokenStar,
	"/":   TokenSlash,
	"//":  TokenDoubleSlash,
	"%":   TokenPercent,
	"^":   TokenCaret,
	"#":   TokenHash,
	"&":   TokenAmpersand,
	"~":   TokenTilde,
	"|":   TokenPipe,
	"<<":  TokenShl,
	">>":  TokenShr,
	"..":  TokenConcat,
	"==":  TokenEQ,
	"~=":  TokenNE,
	"<=":  TokenLE,
	">=":  TokenGE,
	"<":   TokenLT,
	">":   TokenGT,
	"=":   TokenAssign,
	"(":   TokenLParen,
	")":   TokenRParen,
	"{":   TokenLBrace,
	"}":   TokenRBrace,
	"[":   TokenLBracket,
	"]":   TokenRBracket,
	"::":  TokenDoubleColon,
	";":   TokenSemicolon,
	":":   TokenColon,
	",":   TokenComma,
	".":   TokenDot,
	"...": TokenEllipsis,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenName
}

// LookupPunctuation returns the kind of an operator or delimiter.
func LookupPunctuation(text string) (TokenKind, bool) {
	kind, ok := punctuation[text]
	return kind, ok
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
