package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/luast/lua/parser"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText(node parser.Node) ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(node), "", "  ")
}

type astJSONNode struct {
	Kind     string           `json:"kind"`
	Pos      *astJSONPosition `json:"pos,omitempty"`
	Token    string           `json:"token,omitempty"`
	Type     string           `json:"type,omitempty"`
	Local    bool             `json:"local,omitempty"`
	Vararg   bool             `json:"vararg,omitempty"`
	Method   bool             `json:"method,omitempty"`
	Named    bool             `json:"named,omitempty"`
	Paren    bool             `json:"parenthesized,omitempty"`
	Children []*astJSONNode   `json:"children,omitempty"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func nodeToJSON(n parser.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind: n.Kind().String(),
	}

	if pos := n.Pos(); pos.Line != 0 {
		jn.Pos = &astJSONPosition{Line: pos.Line, Column: pos.Column}
	}

	switch n := n.(type) {
	case *parser.Chunk:
		jn.Token = n.Name
	case *parser.Identifier:
		jn.Token = n.Name
		jn.Local = n.IsLocal
	case *parser.Constant:
		jn.Token = n.Text
		jn.Type = n.Type.String()
	case *parser.Unary:
		jn.Token = n.Operator.String()
	case *parser.Binary:
		jn.Token = n.Operator.String()
	case *parser.Member:
		jn.Token = n.Indexer
	case *parser.LocalFunction:
		jn.Local = n.IsLocal
		jn.Vararg = n.IsVararg
	case *parser.FunctionDeclaration:
		jn.Vararg = n.IsVararg
		jn.Method = n.IsMethod
	case *parser.Function:
		jn.Vararg = n.IsVararg
	case *parser.TableField:
		jn.Named = n.Named
	case *parser.Vararg:
		jn.Paren = n.Parenthesized
	case *parser.Call:
		jn.Paren = n.Parenthesized
	}

	children := parser.Children(n)
	if len(children) > 0 {
		jn.Children = make([]*astJSONNode, len(children))
		for i, child := range children {
			jn.Children[i] = nodeToJSON(child)
		}
	}

	return jn
}
