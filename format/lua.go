package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/luast/lua/parser"
)

// unaryLevel is the precedence a unary operand is parsed at.
const unaryLevel = 11

// LuaPrinter writes a syntax tree back out as Lua source in a canonical
// layout. Re-parsing the output yields the same tree. Comments and the
// original layout are not preserved since the tree does not carry them.
type LuaPrinter struct {
	w         io.Writer
	indentStr string
	indent    int
}

func NewLuaPrinter(w io.Writer) *LuaPrinter {
	return &LuaPrinter{
		w:         w,
		indentStr: "  ",
	}
}

// WithIndent sets the string used for one level of indentation.
func (p *LuaPrinter) WithIndent(indent string) *LuaPrinter {
	p.indentStr = indent
	return p
}

func (p *LuaPrinter) Encode(node parser.Node) error {
	return p.Print(node)
}

func (p *LuaPrinter) Print(node parser.Node) error {
	var sb strings.Builder
	switch n := node.(type) {
	case *parser.Chunk:
		p.block(&sb, n.Body)
	case *parser.Block:
		p.block(&sb, n)
	case parser.Statement:
		p.statement(&sb, n)
	case parser.Expression:
		sb.WriteString(p.expr(n))
		sb.WriteString("\n")
	default:
		return fmt.Errorf("cannot print %s node", node.Kind())
	}
	_, err := io.WriteString(p.w, sb.String())
	return err
}

func (p *LuaPrinter) line(sb *strings.Builder, text string) {
	sb.WriteString(strings.Repeat(p.indentStr, p.indent))
	sb.WriteString(text)
	sb.WriteString("\n")
}

func (p *LuaPrinter) nested(sb *strings.Builder, body *parser.Block) {
	p.indent++
	p.block(sb, body)
	p.indent--
}

func (p *LuaPrinter) block(sb *strings.Builder, b *parser.Block) {
	for _, stmt := range b.Statements {
		p.statement(sb, stmt)
	}
}

func (p *LuaPrinter) statement(sb *strings.Builder, stmt parser.Statement) {
	switch n := stmt.(type) {
	case *parser.Local:
		text := "local " + p.names(n.Names)
		if len(n.Initializers) > 0 {
			text += " = " + p.exprList(n.Initializers)
		}
		p.line(sb, text)
	case *parser.LocalFunction:
		p.line(sb, "local function "+n.Name.Name+p.params(n.Params, n.IsVararg))
		p.nested(sb, n.Body)
		p.line(sb, "end")
	case *parser.Do:
		p.line(sb, "do")
		p.nested(sb, n.Body)
		p.line(sb, "end")
	case *parser.Break:
		p.line(sb, "break")
	case *parser.Continue:
		p.line(sb, "continue")
	case *parser.Return:
		if len(n.Values) == 0 {
			p.line(sb, "return")
		} else {
			p.line(sb, "return "+p.exprList(n.Values))
		}
	case *parser.While:
		p.line(sb, "while "+p.expr(n.Condition)+" do")
		p.nested(sb, n.Body)
		p.line(sb, "end")
	case *parser.Repeat:
		p.line(sb, "repeat")
		p.nested(sb, n.Body)
		p.line(sb, "until "+p.expr(n.Condition))
	case *parser.If:
		for i, clause := range n.Clauses {
			keyword := "elseif"
			if i == 0 {
				keyword = "if"
			}
			p.line(sb, keyword+" "+p.expr(clause.Condition)+" then")
			p.nested(sb, clause.Body)
		}
		if n.Else != nil {
			p.line(sb, "else")
			p.nested(sb, n.Else)
		}
		p.line(sb, "end")
	case *parser.NumericFor:
		text := "for " + n.Variable.Name + " = " + p.expr(n.Start) + ", " + p.expr(n.Limit)
		if n.Step != nil {
			text += ", " + p.expr(n.Step)
		}
		p.line(sb, text+" do")
		p.nested(sb, n.Body)
		p.line(sb, "end")
	case *parser.GenericFor:
		p.line(sb, "for "+p.names(n.Names)+" in "+p.exprList(n.Iterators)+" do")
		p.nested(sb, n.Body)
		p.line(sb, "end")
	case *parser.FunctionDeclaration:
		p.line(sb, "function "+p.expr(n.Name)+p.params(n.Params, n.IsVararg))
		p.nested(sb, n.Body)
		p.line(sb, "end")
	case *parser.Goto:
		p.line(sb, "goto "+n.Label.Name)
	case *parser.Label:
		p.line(sb, "::"+n.Name.Name+"::")
	case *parser.Assignment:
		p.line(sb, separator(n.Targets[0])+p.exprList(n.Targets)+" = "+p.exprList(n.Values))
	case *parser.CallStatement:
		p.line(sb, separator(n.Call)+p.expr(n.Call))
	}
}

// separator returns ";" for statements that start with a parenthesis, which
// would otherwise continue the call chain of the previous statement.
func separator(expr parser.Expression) string {
	for {
		switch e := expr.(type) {
		case *parser.Call:
			if e.Parenthesized {
				return ";"
			}
			expr = e.Base
		case *parser.Member:
			expr = e.Base
		case *parser.Index:
			expr = e.Base
		case *parser.Identifier:
			return ""
		default:
			return ";"
		}
	}
}

func (p *LuaPrinter) names(ids []*parser.Identifier) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.Name
	}
	return strings.Join(parts, ", ")
}

func (p *LuaPrinter) params(ids []*parser.Identifier, vararg bool) string {
	text := p.names(ids)
	if vararg {
		if text != "" {
			text += ", "
		}
		text += "..."
	}
	return "(" + text + ")"
}

func (p *LuaPrinter) exprList(exprs []parser.Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = p.expr(e)
	}
	return strings.Join(parts, ", ")
}

func (p *LuaPrinter) expr(expr parser.Expression) string {
	switch n := expr.(type) {
	case *parser.Identifier:
		return n.Name
	case *parser.Constant:
		return n.Text
	case *parser.Vararg:
		if n.Parenthesized {
			return "(...)"
		}
		return "..."
	case *parser.Unary:
		return p.unary(n)
	case *parser.Binary:
		return p.operand(n.Left, n.Operator, false) + " " + n.Operator.String() + " " + p.operand(n.Right, n.Operator, true)
	case *parser.Member:
		return p.prefix(n.Base) + n.Indexer + n.Field.Name
	case *parser.Index:
		return p.prefix(n.Base) + "[" + p.bracketed(n.Key) + "]"
	case *parser.Call:
		text := p.prefix(n.Base) + "(" + p.exprList(n.Arguments) + ")"
		if n.Parenthesized {
			return "(" + text + ")"
		}
		return text
	case *parser.Function:
		var sb strings.Builder
		sb.WriteString("function" + p.params(n.Params, n.IsVararg) + "\n")
		p.nested(&sb, n.Body)
		sb.WriteString(strings.Repeat(p.indentStr, p.indent) + "end")
		return sb.String()
	case *parser.Table:
		return p.table(n)
	}
	return ""
}

func (p *LuaPrinter) unary(n *parser.Unary) string {
	op := n.Operator.String()
	if n.Operator == parser.OpNot {
		op += " "
	}
	operand := p.expr(n.Operand)
	switch o := n.Operand.(type) {
	case *parser.Unary:
		operand = "(" + operand + ")"
	case *parser.Binary:
		if parser.BinaryPrecedence(o.Operator) <= unaryLevel {
			operand = "(" + operand + ")"
		}
	}
	return op + operand
}

// operand prints one side of a binary expression, adding the parentheses
// needed for the operand to be parsed back in the same place whichever way
// ^ and .. associate.
func (p *LuaPrinter) operand(child parser.Expression, parent parser.Operator, right bool) string {
	text := p.expr(child)
	prec := parser.BinaryPrecedence(parent)
	switch c := child.(type) {
	case *parser.Binary:
		childPrec := parser.BinaryPrecedence(c.Operator)
		if childPrec < prec {
			return "(" + text + ")"
		}
		if childPrec == prec && (right || parent == parser.OpPow || parent == parser.OpConcat) {
			return "(" + text + ")"
		}
	case *parser.Unary:
		if !right && prec > unaryLevel {
			return "(" + text + ")"
		}
	}
	return text
}

// prefix prints the base of a field access, index or call.
func (p *LuaPrinter) prefix(base parser.Expression) string {
	switch base.(type) {
	case *parser.Identifier, *parser.Member, *parser.Index, *parser.Call:
		return p.expr(base)
	}
	return "(" + p.expr(base) + ")"
}

// bracketed keeps a key that starts with a long bracket from merging with
// the surrounding [ ].
func (p *LuaPrinter) bracketed(key parser.Expression) string {
	text := p.expr(key)
	if strings.HasPrefix(text, "[") {
		return " " + text + " "
	}
	return text
}

func (p *LuaPrinter) table(t *parser.Table) string {
	if len(t.Fields) == 0 {
		return "{}"
	}
	parts := make([]string, len(t.Fields))
	for i, field := range t.Fields {
		switch {
		case field.Named:
			parts[i] = field.Key.(*parser.Constant).Text + " = " + p.expr(field.Value)
		case field.Key != nil:
			parts[i] = "[" + p.bracketed(field.Key) + "] = " + p.expr(field.Value)
		default:
			parts[i] = p.expr(field.Value)
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// PrettyPrintLua parses source and prints it in canonical layout.
func PrettyPrintLua(source []byte, filename string, opts ...parser.Option) ([]byte, error) {
	if filename != "" {
		opts = append(opts, parser.WithFile(filename))
	}
	chunk, err := parser.ParseReader(bytes.NewReader(source), opts...)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	pp := NewLuaPrinter(&buf)
	if err := pp.Print(chunk); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HasComments reports whether source contains a comment. The printer drops
// comments, so callers that replace the source with its formatted form
// should leave such files alone.
func HasComments(source string) bool {
	for _, tok := range parser.Tokenize(source, "") {
		if tok.Kind == parser.TokenComment {
			return true
		}
	}
	return false
}
