// Package parser turns Lua source text into an abstract syntax tree.
//
// # Overview
//
// Parsing happens in three layers:
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Scanner   │────▶│   cursor    │────▶│   Parser    │
//	│  (tokens)   │     │ (lookahead) │     │   (AST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// The Scanner produces every token of the input, whitespace and comments
// included, and supports one token of pushback. The cursor skips the
// insignificant tokens and gives the grammar single-token lookahead. The
// Parser is a recursive-descent statement grammar on top of a
// precedence-climbing expression engine.
//
// # Usage
//
//	chunk, err := parser.ParseString("local x = 1 + 2", parser.WithFile("init.lua"))
//	if err != nil {
//	    var syntaxErr *parser.SyntaxError
//	    if errors.As(err, &syntaxErr) {
//	        fmt.Println(syntaxErr.Line, syntaxErr.Column, syntaxErr.Message)
//	    }
//	}
//	fmt.Println(parser.Dump(chunk))
//
// Any TokenSource can drive the parser through New.
//
// # Errors
//
// Parsing stops at the first problem. Malformed input yields a
// *SyntaxError formatted as "(line,column): message". An *InternalError
// means the operator tables disagree with the token kinds.
//
// # Operators
//
// Binary operators are grouped into twelve precedence levels, from "or"
// (1) to "^" (12). Unary operands are parsed at level 11. Every binary
// operator is left-associative unless the parser is built with
// WithRightAssociativeOperators, which makes "^" and ".." fold to the right.
//
// # Parent links
//
// Each node points back at the node that holds it. The link is set after
// the child is built and stored, and is only meant for looking upwards;
// Walk and Children traverse through the owning fields.
package parser
