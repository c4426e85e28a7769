package parser

// Children returns the nodes n owns, in source order. Nil optional parts
// such as a missing else block or step expression are left out.
func Children(n Node) []Node {
	var out []Node
	add := func(child Node) {
		if child != nil {
			out = append(out, child)
		}
	}

	switch n := n.(type) {
	case *Chunk:
		if n.Body != nil {
			add(n.Body)
		}
	case *Block:
		for _, stmt := range n.Statements {
			add(stmt)
		}
	case *Local:
		for _, name := range n.Names {
			add(name)
		}
		for _, expr := range n.Initializers {
			add(expr)
		}
	case *LocalFunction:
		add(n.Name)
		for _, param := range n.Params {
			add(param)
		}
		add(n.Body)
	case *Do:
		add(n.Body)
	case *Return:
		for _, expr := range n.Values {
			add(expr)
		}
	case *While:
		add(n.Condition)
		add(n.Body)
	case *Repeat:
		add(n.Body)
		add(n.Condition)
	case *If:
		for _, clause := range n.Clauses {
			add(clause)
		}
		if n.Else != nil {
			add(n.Else)
		}
	case *IfClause:
		add(n.Condition)
		add(n.Body)
	case *NumericFor:
		add(n.Variable)
		add(n.Start)
		add(n.Limit)
		if n.Step != nil {
			add(n.Step)
		}
		add(n.Body)
	case *GenericFor:
		for _, name := range n.Names {
			add(name)
		}
		for _, expr := range n.Iterators {
			add(expr)
		}
		add(n.Body)
	case *FunctionDeclaration:
		add(n.Name)
		for _, param := range n.Params {
			add(param)
		}
		add(n.Body)
	case *Goto:
		add(n.Label)
	case *Label:
		add(n.Name)
	case *Assignment:
		for _, target := range n.Targets {
			add(target)
		}
		for _, value := range n.Values {
			add(value)
		}
	case *CallStatement:
		add(n.Call)
	case *Unary:
		add(n.Operand)
	case *Binary:
		add(n.Left)
		add(n.Right)
	case *Member:
		add(n.Base)
		add(n.Field)
	case *Index:
		add(n.Base)
		add(n.Key)
	case *Call:
		add(n.Base)
		for _, arg := range n.Arguments {
			add(arg)
		}
	case *Function:
		for _, param := range n.Params {
			add(param)
		}
		add(n.Body)
	case *Table:
		for _, field := range n.Fields {
			add(field)
		}
	case *TableField:
		if n.Key != nil {
			add(n.Key)
		}
		add(n.Value)
	}
	return out
}

// Walk visits n and its descendants depth-first in source order. The
// children of a node are skipped when visit returns false for it.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, visit)
	}
}
