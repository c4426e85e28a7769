package parser

type NodeKind int

const (
	KindError NodeKind = iota

	KindChunk
	KindBlock

	// Statements
	KindLocal
	KindLocalFunction
	KindDo
	KindBreak
	KindContinue
	KindReturn
	KindWhile
	KindRepeat
	KindIf
	KindIfClause
	KindNumericFor
	KindGenericFor
	KindFunctionDeclaration
	KindGoto
	KindLabel
	KindAssignment
	KindCallStatement

	// Expressions
	KindIdentifier
	KindConstant
	KindVararg
	KindUnary
	KindBinary
	KindMember
	KindIndex
	KindCall
	KindFunction
	KindTable
	KindTableField
)

var nodeKindNames = map[NodeKind]string{
	KindError:               "Error",
	KindChunk:               "Chunk",
	KindBlock:               "Block",
	KindLocal:               "Local",
	KindLocalFunction:       "LocalFunction",
	KindDo:                  "Do",
	KindBreak:               "Break",
	KindContinue:            "Continue",
	KindReturn:              "Return",
	KindWhile:               "While",
	KindRepeat:              "Repeat",
	KindIf:                  "If",
	KindIfClause:            "IfClause",
	KindNumericFor:          "NumericFor",
	KindGenericFor:          "GenericFor",
	KindFunctionDeclaration: "FunctionDeclaration",
	KindGoto:                "Goto",
	KindLabel:               "Label",
	KindAssignment:          "Assignment",
	KindCallStatement:       "CallStatement",
	KindIdentifier:          "Identifier",
	KindConstant:            "Constant",
	KindVararg:              "Vararg",
	KindUnary:               "Unary",
	KindBinary:              "Binary",
	KindMember:              "Member",
	KindIndex:               "Index",
	KindCall:                "Call",
	KindFunction:            "Function",
	KindTable:               "Table",
	KindTableField:          "TableField",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is implemented by every AST node. Parent returns the node that holds
// this one in one of its fields; it is a back-reference for diagnostics and
// is never needed to traverse the tree.
type Node interface {
	Kind() NodeKind
	Pos() Position
	Parent() Node
	setParent(Node)
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

type node struct {
	pos    Position
	parent Node
}

func (n *node) Pos() Position         { return n.pos }
func (n *node) Parent() Node          { return n.parent }
func (n *node) setParent(parent Node) { n.parent = parent }

// attach records parent as the container of child. It is the second phase
// of node construction: the child is built first, stored in its slot in
// parent, and then pointed back at it.
func attach[T Node](parent Node, child T) T {
	child.setParent(parent)
	return child
}

type Chunk struct {
	node
	Name string
	Body *Block
}

type Block struct {
	node
	Statements []Statement
}

// ---------------------------------------------------------
// Statements
// ---------------------------------------------------------

// Local: local a, b = 1, 2
type Local struct {
	node
	Names        []*Identifier
	Initializers []Expression
}

// LocalFunction: local function f(a, b) ... end
type LocalFunction struct {
	node
	Name     *Identifier
	Params   []*Identifier
	IsVararg bool
	Body     *Block
	IsLocal  bool
}

type Do struct {
	node
	Body *Block
}

type Break struct{ node }

type Continue struct{ node }

type Return struct {
	node
	Values []Expression
}

type While struct {
	node
	Condition Expression
	Body      *Block
}

type Repeat struct {
	node
	Body      *Block
	Condition Expression
}

// If holds the leading if and every elseif as clauses, in source order.
type If struct {
	node
	Clauses []*IfClause
	Else    *Block
}

type IfClause struct {
	node
	Condition Expression
	Body      *Block
}

// NumericFor: for i = start, limit[, step] do ... end
type NumericFor struct {
	node
	Variable *Identifier
	Start    Expression
	Limit    Expression
	Step     Expression
	Body     *Block
}

// GenericFor: for k, v in explist do ... end
type GenericFor struct {
	node
	Names     []*Identifier
	Iterators []Expression
	Body      *Block
}

// FunctionDeclaration: function a.b.c:m(...) ... end. Name is an Identifier
// or a chain of Member nodes; the last Member uses ":" for methods.
type FunctionDeclaration struct {
	node
	Name     Expression
	IsMethod bool
	Params   []*Identifier
	IsVararg bool
	Body     *Block
}

type Goto struct {
	node
	Label *Identifier
}

type Label struct {
	node
	Name *Identifier
}

type Assignment struct {
	node
	Targets []Expression
	Values  []Expression
}

type CallStatement struct {
	node
	Call *Call
}

func (*Local) statementNode()               {}
func (*LocalFunction) statementNode()       {}
func (*Do) statementNode()                  {}
func (*Break) statementNode()               {}
func (*Continue) statementNode()            {}
func (*Return) statementNode()              {}
func (*While) statementNode()               {}
func (*Repeat) statementNode()              {}
func (*If) statementNode()                  {}
func (*NumericFor) statementNode()          {}
func (*GenericFor) statementNode()          {}
func (*FunctionDeclaration) statementNode() {}
func (*Goto) statementNode()                {}
func (*Label) statementNode()               {}
func (*Assignment) statementNode()          {}
func (*CallStatement) statementNode()       {}

// ---------------------------------------------------------
// Expressions
// ---------------------------------------------------------

type Identifier struct {
	node
	Name    string
	IsLocal bool
}

type ConstantKind int

const (
	ConstNil ConstantKind = iota
	ConstBoolean
	ConstString
	ConstInteger
	ConstFloat
)

var constantKindNames = map[ConstantKind]string{
	ConstNil:     "Nil",
	ConstBoolean: "Boolean",
	ConstString:  "String",
	ConstInteger: "Integer",
	ConstFloat:   "Float",
}

func (k ConstantKind) String() string {
	if name, ok := constantKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Constant keeps the literal exactly as written, quotes and brackets
// included.
type Constant struct {
	node
	Type ConstantKind
	Text string
}

// Vararg is "...". Parenthesized marks "(...)", which yields only the first
// value.
type Vararg struct {
	node
	Parenthesized bool
}

type Unary struct {
	node
	Operator Operator
	Operand  Expression
}

type Binary struct {
	node
	Operator Operator
	Left     Expression
	Right    Expression
}

// Member: base.field, or base:field as the callee of a method call.
type Member struct {
	node
	Indexer string
	Base    Expression
	Field   *Identifier
}

type Index struct {
	node
	Base Expression
	Key  Expression
}

// Call is a function or method call. Parenthesized marks a call written
// inside parentheses, which truncates its results to one value.
type Call struct {
	node
	Base          Expression
	Arguments     []Expression
	Parenthesized bool
}

// Function is an anonymous function expression.
type Function struct {
	node
	Params   []*Identifier
	IsVararg bool
	Body     *Block
}

type Table struct {
	node
	Fields []*TableField
}

// TableField is one entry of a table constructor. Key is nil for positional
// entries; Named marks the name = value form, whose Key is a string Constant.
type TableField struct {
	node
	Key   Expression
	Value Expression
	Named bool
}

func (*Identifier) expressionNode() {}
func (*Constant) expressionNode()   {}
func (*Vararg) expressionNode()     {}
func (*Unary) expressionNode()      {}
func (*Binary) expressionNode()     {}
func (*Member) expressionNode()     {}
func (*Index) expressionNode()      {}
func (*Call) expressionNode()       {}
func (*Function) expressionNode()   {}
func (*Table) expressionNode()      {}

func (*Chunk) Kind() NodeKind               { return KindChunk }
func (*Block) Kind() NodeKind               { return KindBlock }
func (*Local) Kind() NodeKind               { return KindLocal }
func (*LocalFunction) Kind() NodeKind       { return KindLocalFunction }
func (*Do) Kind() NodeKind                  { return KindDo }
func (*Break) Kind() NodeKind               { return KindBreak }
func (*Continue) Kind() NodeKind            { return KindContinue }
func (*Return) Kind() NodeKind              { return KindReturn }
func (*While) Kind() NodeKind               { return KindWhile }
func (*Repeat) Kind() NodeKind              { return KindRepeat }
func (*If) Kind() NodeKind                  { return KindIf }
func (*IfClause) Kind() NodeKind            { return KindIfClause }
func (*NumericFor) Kind() NodeKind          { return KindNumericFor }
func (*GenericFor) Kind() NodeKind          { return KindGenericFor }
func (*FunctionDeclaration) Kind() NodeKind { return KindFunctionDeclaration }
func (*Goto) Kind() NodeKind                { return KindGoto }
func (*Label) Kind() NodeKind               { return KindLabel }
func (*Assignment) Kind() NodeKind          { return KindAssignment }
func (*CallStatement) Kind() NodeKind       { return KindCallStatement }
func (*Identifier) Kind() NodeKind          { return KindIdentifier }
func (*Constant) Kind() NodeKind            { return KindConstant }
func (*Vararg) Kind() NodeKind              { return KindVararg }
func (*Unary) Kind() NodeKind               { return KindUnary }
func (*Binary) Kind() NodeKind              { return KindBinary }
func (*Member) Kind() NodeKind              { return KindMember }
func (*Index) Kind() NodeKind               { return KindIndex }
func (*Call) Kind() NodeKind                { return KindCall }
func (*Function) Kind() NodeKind            { return KindFunction }
func (*Table) Kind() NodeKind               { return KindTable }
func (*TableField) Kind() NodeKind          { return KindTableField }
