package parser

import "strings"

// Dump renders n as a compact S-expression, for example
// (+ 1 (* 2 3)) or (call (. a b) c). A call or vararg written in
// parentheses is wrapped as (paren ...). It is meant for tests and debugging
// output; the format is not stable.
func Dump(n Node) string {
	var sb strings.Builder
	dump(&sb, n)
	return sb.String()
}

func dump(sb *strings.Builder, n Node) {
	open := func(head string) {
		sb.WriteString("(")
		sb.WriteString(head)
	}
	child := func(c Node) {
		sb.WriteString(" ")
		dump(sb, c)
	}
	exprs := func(list []Expression) {
		sb.WriteString(" (")
		for i, e := range list {
			if i > 0 {
				sb.WriteString(" ")
			}
			dump(sb, e)
		}
		sb.WriteString(")")
	}
	names := func(list []*Identifier, vararg bool) {
		sb.WriteString(" (")
		for i, id := range list {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(id.Name)
		}
		if vararg {
			if len(list) > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString("...")
		}
		sb.WriteString(")")
	}

	switch n := n.(type) {
	case nil:
		sb.WriteString("nil")
		return
	case *Chunk:
		open("chunk")
		child(n.Body)
	case *Block:
		open("block")
		for _, stmt := range n.Statements {
			child(stmt)
		}
	case *Local:
		open("local")
		names(n.Names, false)
		if len(n.Initializers) > 0 {
			exprs(n.Initializers)
		}
	case *LocalFunction:
		open("local-function " + n.Name.Name)
		names(n.Params, n.IsVararg)
		child(n.Body)
	case *Do:
		open("do")
		child(n.Body)
	case *Break:
		open("break")
	case *Continue:
		open("continue")
	case *Return:
		open("return")
		for _, v := range n.Values {
			child(v)
		}
	case *While:
		open("while")
		child(n.Condition)
		child(n.Body)
	case *Repeat:
		open("repeat")
		child(n.Body)
		child(n.Condition)
	case *If:
		open("if")
		for _, clause := range n.Clauses {
			child(clause)
		}
		if n.Else != nil {
			sb.WriteString(" (else")
			child(n.Else)
			sb.WriteString(")")
		}
	case *IfClause:
		open("clause")
		child(n.Condition)
		child(n.Body)
	case *NumericFor:
		open("for " + n.Variable.Name)
		child(n.Start)
		child(n.Limit)
		if n.Step != nil {
			child(n.Step)
		}
		child(n.Body)
	case *GenericFor:
		open("for-in")
		names(n.Names, false)
		exprs(n.Iterators)
		child(n.Body)
	case *FunctionDeclaration:
		open("function")
		child(n.Name)
		names(n.Params, n.IsVararg)
		child(n.Body)
	case *Goto:
		open("goto " + n.Label.Name)
	case *Label:
		open("label " + n.Name.Name)
	case *Assignment:
		open("=")
		exprs(n.Targets)
		exprs(n.Values)
	case *CallStatement:
		dump(sb, n.Call)
		return
	case *Identifier:
		sb.WriteString(n.Name)
		return
	case *Constant:
		sb.WriteString(n.Text)
		return
	case *Vararg:
		if n.Parenthesized {
			sb.WriteString("(paren ...)")
			return
		}
		sb.WriteString("...")
		return
	case *Unary:
		open(n.Operator.String())
		child(n.Operand)
	case *Binary:
		open(n.Operator.String())
		child(n.Left)
		child(n.Right)
	case *Member:
		open(n.Indexer)
		child(n.Base)
		child(n.Field)
	case *Index:
		open("[]")
		child(n.Base)
		child(n.Key)
	case *Call:
		if n.Parenthesized {
			open("paren ")
			defer sb.WriteString(")")
		}
		open("call")
		child(n.Base)
		for _, arg := range n.Arguments {
			child(arg)
		}
	case *Function:
		open("fn")
		names(n.Params, n.IsVararg)
		child(n.Body)
	case *Table:
		open("table")
		for _, field := range n.Fields {
			child(field)
		}
	case *TableField:
		switch {
		case n.Named:
			open("= " + constantName(n.Key))
			child(n.Value)
		case n.Key != nil:
			open("[]=")
			child(n.Key)
			child(n.Value)
		default:
			dump(sb, n.Value)
			return
		}
	default:
		sb.WriteString("<" + n.Kind().String() + ">")
		return
	}
	sb.WriteString(")")
}

func constantName(key Expression) string {
	if c, ok := key.(*Constant); ok {
		return c.Text
	}
	return Dump(key)
}
