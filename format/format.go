package format

import (
	"github.com/dhamidi/luast/lua/parser"
)

// Encoder writes a syntax tree in some output format.
type Encoder interface {
	Encode(node parser.Node) error
}

var (
	_ Encoder = (*ASTJSONEncoder)(nil)
	_ Encoder = (*LuaPrinter)(nil)
)
