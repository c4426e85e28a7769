package parser

type Operator int

const (
	OpInvalid Operator = iota

	// Binary
	OpOr
	OpAnd
	OpLT
	OpGT
	OpLE
	OpGE
	OpEQ
	OpNE
	OpBitOr
	OpBitXor
	OpBitAnd
	OpShl
	OpShr
	OpConcat
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpIntDiv
	OpMod
	OpPow

	// Unary
	OpNeg
	OpLen
	OpBitNot
	OpNot
)

var operatorLexemes = map[Operator]string{
	OpOr:     "or",
	OpAnd:    "and",
	OpLT:     "<",
	OpGT:     ">",
	OpLE:     "<=",
	OpGE:     ">=",
	OpEQ:     "==",
	OpNE:     "~=",
	OpBitOr:  "|",
	OpBitXor: "~",
	OpBitAnd: "&",
	OpShl:    "<<",
	OpShr:    ">>",
	OpConcat: "..",
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpIntDiv: "//",
	OpMod:    "%",
	OpPow:    "^",
	OpNeg:    "-",
	OpLen:    "#",
	OpBitNot: "~",
	OpNot:    "not",
}

func (op Operator) String() string {
	if lexeme, ok := operatorLexemes[op]; ok {
		return lexeme
	}
	return "Unknown"
}

// unaryPrecedence is the limit the operand of a unary operator is parsed
// with. Only exponentiation binds tighter.
const unaryPrecedence = 11

// Tables indexed by token kind. A zero precedence ends any climbing loop.
var (
	binaryPrecedence [tokenKindCount]int
	binaryOperators  [tokenKindCount]Operator
	unaryOperators   [tokenKindCount]Operator
)

func init() {
	binary := []struct {
		kind TokenKind
		op   Operator
		prec int
	}{
		{TokenOr, OpOr, 1},
		{TokenAnd, OpAnd, 2},
		{TokenLT, OpLT, 3},
		{TokenGT, OpGT, 3},
		{TokenLE, OpLE, 3},
		{TokenGE, OpGE, 3},
		{TokenEQ, OpEQ, 3},
		{TokenNE, OpNE, 3},
		{TokenPipe, OpBitOr, 4},
		{TokenTilde, OpBitXor, 5},
		{TokenAmpersand, OpBitAnd, 6},
		{TokenShl, OpShl, 7},
		{TokenShr, OpShr, 7},
		{TokenConcat, OpConcat, 8},
		{TokenPlus, OpAdd, 9},
		{TokenMinus, OpSub, 9},
		{TokenStar, OpMul, 10},
		{TokenSlash, OpDiv, 10},
		{TokenDoubleSlash, OpIntDiv, 10},
		{TokenPercent, OpMod, 10},
		{TokenCaret, OpPow, 12},
	}
	for _, b := range binary {
		binaryPrecedence[b.kind] = b.prec
		binaryOperators[b.kind] = b.op
	}

	unaryOperators[TokenMinus] = OpNeg
	unaryOperators[TokenHash] = OpLen
	unaryOperators[TokenTilde] = OpBitNot
	unaryOperators[TokenNot] = OpNot
}

// Precedence returns the binary precedence of kind, or 0 if kind is not a
// binary operator.
func Precedence(kind TokenKind) int {
	if kind < 0 || kind >= tokenKindCount {
		return 0
	}
	return binaryPrecedence[kind]
}

// rightAssociative reports whether op folds to the right when the parser
// was built with WithRightAssociativeOperators.
func rightAssociative(op Operator) bool {
	return op == OpPow || op == OpConcat
}

// BinaryPrecedence returns the precedence level op was parsed at.
func BinaryPrecedence(op Operator) int {
	for kind, candidate := range binaryOperators {
		if candidate == op && op != OpInvalid {
			return binaryPrecedence[kind]
		}
	}
	return 0
}
