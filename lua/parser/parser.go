package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tliron/commonlog"
)

const defaultMaxDepth = 200

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithMaxDepth bounds the nesting of blocks and expressions. Deeper input is
// reported as a syntax error instead of exhausting the stack.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithRightAssociativeOperators makes ^ and .. fold to the right, as the Lua
// reference manual specifies. By default every binary operator folds left.
func WithRightAssociativeOperators() Option {
	return func(p *Parser) {
		p.rightAssoc = true
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// Parser is single-use and must not be shared between goroutines; run
// concurrent parses on separate instances.
type Parser struct {
	*cursor

	file       string
	maxDepth   int
	depth      int
	rightAssoc bool
	log        commonlog.Logger

	// seed is a left-hand value supplied by ContinueExpression.
	seed Expression
}

func New(src TokenSource, opts ...Option) *Parser {
	p := &Parser{
		cursor:   newCursor(src),
		maxDepth: defaultMaxDepth,
		log:      commonlog.GetLogger("luast.parser"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func ParseString(src string, opts ...Option) (*Chunk, error) {
	p := New(nil, opts...)
	p.src = ScanString(src, p.file)
	return p.Parse()
}

func ParseRuneReader(r io.RuneReader, opts ...Option) (*Chunk, error) {
	var sb strings.Builder
	for {
		ch, _, err := r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		sb.WriteRune(ch)
	}
	return ParseString(sb.String(), opts...)
}

func ParseReader(r io.Reader, opts ...Option) (*Chunk, error) {
	return ParseRuneReader(bufio.NewReader(r), opts...)
}

// ParseExpressionString parses src as a single expression.
func ParseExpressionString(src string, opts ...Option) (Expression, error) {
	p := New(nil, opts...)
	p.src = ScanString(src, p.file)
	return p.ParseExpression()
}

// Parse reads the whole token source and returns its chunk. The first syntax
// error ends the parse.
func (p *Parser) Parse() (chunk *Chunk, err error) {
	defer func() {
		if err != nil {
			p.log.Debugf("parse %s failed: %s", p.displayName(), err)
			chunk = nil
		}
	}()
	defer recoverFault(&err)

	p.log.Debugf("parsing %s", p.displayName())
	chunk = &Chunk{Name: p.displayName()}
	chunk.Body = attach(chunk, p.parseBlock(chunk))
	p.expect("'<eof>' expected", TokenEOF)
	chunk.pos = chunk.Body.pos
	p.log.Debugf("parsed %s: %d statements", p.displayName(), len(chunk.Body.Statements))
	return chunk, nil
}

// ParseExpression parses one expression and requires the input to end after
// it.
func (p *Parser) ParseExpression() (expr Expression, err error) {
	defer recoverFault(&err)
	expr = p.parseExpression(nil)
	p.expect("'<eof>' expected", TokenEOF)
	return expr, nil
}

// ContinueExpression parses the rest of an expression whose left-hand value
// the caller has already built, such as the "+ 1" after "x". The returned
// expression takes the place of left. left only fills an operand missing at
// the very start of the input, so p must not have read any tokens yet.
func (p *Parser) ContinueExpression(left Expression) (expr Expression, err error) {
	defer recoverFault(&err)
	p.seed = left
	defer func() { p.seed = nil }()
	expr = p.parseExpression(left)
	p.expect("'<eof>' expected", TokenEOF)
	return expr, nil
}

func (p *Parser) displayName() string {
	if p.file == "" {
		return "<input>"
	}
	return p.file
}

func (p *Parser) enter() {
	p.depth++
	if p.depth > p.maxDepth {
		syntaxErrorAt(p.peekToken(), "chunk has too many syntax levels")
	}
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) startNode() node {
	return node{pos: p.peekToken().Pos}
}

func (p *Parser) nodeAt(tok Token) node {
	return node{pos: tok.Pos}
}

// ---------------------------------------------------------
// Blocks and statements
// ---------------------------------------------------------

func blockFollows(kind TokenKind) bool {
	switch kind {
	case TokenEOF, TokenEnd, TokenElse, TokenElseif, TokenUntil:
		return true
	}
	return false
}

// parseBlock collects statements until a token that cannot start one. That
// token is left for the enclosing construct to check.
func (p *Parser) parseBlock(parent Node) *Block {
	p.enter()
	defer p.leave()

	block := &Block{node: p.startNode()}
	for {
		kind := p.peek()
		if blockFollows(kind) {
			break
		}
		if kind == TokenSemicolon {
			p.advance()
			continue
		}
		if kind == TokenReturn {
			block.Statements = append(block.Statements, attach(block, Statement(p.parseReturn(block))))
			break
		}
		stmt := p.parseStatement(block)
		if stmt == nil {
			break
		}
		block.Statements = append(block.Statements, attach(block, stmt))
		p.accept(TokenSemicolon)
	}
	return block
}

// parseStatement returns nil when the upcoming token does not start a
// statement.
func (p *Parser) parseStatement(block *Block) Statement {
	switch p.peek() {
	case TokenLocal:
		local := p.advance()
		if p.accept(TokenFunction) {
			return p.parseLocalFunction(block, local)
		}
		return p.parseLocalVarList(block, local)
	case TokenBreak:
		return &Break{node: p.nodeAt(p.advance())}
	case TokenContinue:
		return &Continue{node: p.nodeAt(p.advance())}
	case TokenDo:
		return p.parseDo(block)
	case TokenWhile:
		return p.parseWhile(block)
	case TokenRepeat:
		return p.parseRepeat(block)
	case TokenIf:
		return p.parseIf(block)
	case TokenFor:
		return p.parseFor(block)
	case TokenFunction:
		return p.parseFunctionDeclaration(block)
	case TokenGoto:
		return p.parseGoto(block)
	case TokenDoubleColon:
		return p.parseLabel(block)
	case TokenName, TokenLParen:
		return p.parseExpressionStatement(block)
	}
	return nil
}

// expectClosing consumes the keyword that ends a construct opened on line.
func (p *Parser) expectClosing(what TokenKind, opener TokenKind, line int) Token {
	return p.expect(fmt.Sprintf("'%s' expected (to close '%s' at line %d)", what, opener, line), what)
}

func (p *Parser) parseDo(parent Node) *Do {
	tok := p.expect("'do' expected", TokenDo)
	stmt := &Do{node: p.nodeAt(tok)}
	stmt.Body = attach(stmt, p.parseBlock(stmt))
	p.expectClosing(TokenEnd, TokenDo, tok.Pos.Line)
	return stmt
}

// parseLocalFunction continues after "local function".
func (p *Parser) parseLocalFunction(parent Node, local Token) *LocalFunction {
	stmt := &LocalFunction{node: p.nodeAt(local), IsLocal: true}
	stmt.Name = attach(stmt, p.parseName(stmt))
	stmt.Name.IsLocal = true
	stmt.Params, stmt.IsVararg = p.parseParams(stmt)
	stmt.Body = attach(stmt, p.parseBlock(stmt))
	p.expectClosing(TokenEnd, TokenFunction, local.Pos.Line)
	return stmt
}

// parseParams parses "(" [namelist] [, "..."] ")" and attaches the names to
// parent.
func (p *Parser) parseParams(parent Node) ([]*Identifier, bool) {
	p.expect("'(' expected", TokenLParen)
	if p.accept(TokenRParen) {
		return nil, false
	}
	if p.accept(TokenEllipsis) {
		p.expect("')' expected", TokenRParen)
		return nil, true
	}

	var params []*Identifier
	vararg := false
	params = append(params, attach(parent, p.parseName(parent)))
	for p.accept(TokenComma) {
		if p.accept(TokenEllipsis) {
			vararg = true
			break
		}
		params = append(params, attach(parent, p.parseName(parent)))
	}
	for _, param := range params {
		param.IsLocal = true
	}
	p.expect("')' expected", TokenRParen)
	return params, vararg
}

// parseLocalVarList continues after "local". The number of names and
// initializers is not checked here.
func (p *Parser) parseLocalVarList(parent Node, local Token) *Local {
	stmt := &Local{node: p.nodeAt(local)}
	stmt.Names = p.parseNameList(stmt)
	for _, name := range stmt.Names {
		name.IsLocal = true
	}
	if p.accept(TokenAssign) {
		stmt.Initializers = p.parseExpList(stmt)
	}
	return stmt
}

func (p *Parser) parseName(parent Node) *Identifier {
	tok := p.expect("<name> expected", TokenName)
	return &Identifier{node: p.nodeAt(tok), Name: p.currentText()}
}

func (p *Parser) parseNameList(parent Node) []*Identifier {
	names := []*Identifier{attach(parent, p.parseName(parent))}
	for p.accept(TokenComma) {
		names = append(names, attach(parent, p.parseName(parent)))
	}
	return names
}

func (p *Parser) parseExpList(parent Node) []Expression {
	exprs := []Expression{attach(parent, p.parseExpression(parent))}
	for p.accept(TokenComma) {
		exprs = append(exprs, attach(parent, p.parseExpression(parent)))
	}
	return exprs
}

func (p *Parser) parseReturn(parent Node) *Return {
	tok := p.expect("'return' expected", TokenReturn)
	stmt := &Return{node: p.nodeAt(tok)}
	if kind := p.peek(); !blockFollows(kind) && kind != TokenSemicolon {
		stmt.Values = p.parseExpList(stmt)
	}
	p.accept(TokenSemicolon)
	return stmt
}

func (p *Parser) parseWhile(parent Node) *While {
	tok := p.expect("'while' expected", TokenWhile)
	stmt := &While{node: p.nodeAt(tok)}
	stmt.Condition = attach(stmt, p.parseExpression(stmt))
	p.expect("'do' expected", TokenDo)
	stmt.Body = attach(stmt, p.parseBlock(stmt))
	p.expectClosing(TokenEnd, TokenWhile, tok.Pos.Line)
	return stmt
}

func (p *Parser) parseRepeat(parent Node) *Repeat {
	tok := p.expect("'repeat' expected", TokenRepeat)
	stmt := &Repeat{node: p.nodeAt(tok)}
	stmt.Body = attach(stmt, p.parseBlock(stmt))
	p.expectClosing(TokenUntil, TokenRepeat, tok.Pos.Line)
	stmt.Condition = attach(stmt, p.parseExpression(stmt))
	return stmt
}

func (p *Parser) parseIf(parent Node) *If {
	tok := p.expect("'if' expected", TokenIf)
	stmt := &If{node: p.nodeAt(tok)}
	stmt.Clauses = append(stmt.Clauses, attach(stmt, p.parseIfClause(stmt, tok)))
	for p.peek() == TokenElseif {
		clause := p.parseIfClause(stmt, p.advance())
		stmt.Clauses = append(stmt.Clauses, attach(stmt, clause))
	}
	if p.accept(TokenElse) {
		stmt.Else = attach(stmt, p.parseBlock(stmt))
	}
	p.expectClosing(TokenEnd, TokenIf, tok.Pos.Line)
	return stmt
}

// parseIfClause continues after "if" or "elseif".
func (p *Parser) parseIfClause(parent Node, keyword Token) *IfClause {
	clause := &IfClause{node: p.nodeAt(keyword)}
	clause.Condition = attach(clause, p.parseExpression(clause))
	p.expect("'then' expected", TokenThen)
	clause.Body = attach(clause, p.parseBlock(clause))
	return clause
}

func (p *Parser) parseFor(parent Node) Statement {
	tok := p.expect("'for' expected", TokenFor)
	first := p.parseName(nil)
	first.IsLocal = true

	switch p.peek() {
	case TokenAssign:
		p.advance()
		stmt := &NumericFor{node: p.nodeAt(tok)}
		stmt.Variable = attach(stmt, first)
		stmt.Start = attach(stmt, p.parseExpression(stmt))
		p.expect("',' expected", TokenComma)
		stmt.Limit = attach(stmt, p.parseExpression(stmt))
		if p.accept(TokenComma) {
			stmt.Step = attach(stmt, p.parseExpression(stmt))
		}
		p.parseLoopBody(stmt, &stmt.Body, tok)
		return stmt
	case TokenComma, TokenIn:
		stmt := &GenericFor{node: p.nodeAt(tok)}
		stmt.Names = []*Identifier{attach(stmt, first)}
		for p.accept(TokenComma) {
			name := attach(stmt, p.parseName(stmt))
			name.IsLocal = true
			stmt.Names = append(stmt.Names, name)
		}
		p.expect("'in' expected", TokenIn)
		stmt.Iterators = p.parseExpList(stmt)
		p.parseLoopBody(stmt, &stmt.Body, tok)
		return stmt
	}
	p.advance()
	syntaxErrorAt(p.current, "'=' or 'in' expected")
	return nil
}

func (p *Parser) parseLoopBody(loop Node, body **Block, forTok Token) {
	p.expect("'do' expected", TokenDo)
	*body = attach(loop, p.parseBlock(loop))
	p.expectClosing(TokenEnd, TokenFor, forTok.Pos.Line)
}

// parseFunctionDeclaration parses "function" funcname funcbody, where
// funcname is Name {'.' Name} [':' Name].
func (p *Parser) parseFunctionDeclaration(parent Node) *FunctionDeclaration {
	tok := p.expect("'function' expected", TokenFunction)
	stmt := &FunctionDeclaration{node: p.nodeAt(tok)}

	var name Expression = p.parseName(nil)
	for p.peek() == TokenDot || p.peek() == TokenColon {
		indexer := p.advance()
		member := &Member{node: p.nodeAt(indexer), Indexer: p.currentText()}
		member.Base = attach(member, name)
		member.Field = attach(member, p.parseName(member))
		name = member
		if indexer.Kind == TokenColon {
			stmt.IsMethod = true
			break
		}
	}
	stmt.Name = attach(stmt, name)
	stmt.Params, stmt.IsVararg = p.parseParams(stmt)
	stmt.Body = attach(stmt, p.parseBlock(stmt))
	p.expectClosing(TokenEnd, TokenFunction, tok.Pos.Line)
	return stmt
}

func (p *Parser) parseGoto(parent Node) *Goto {
	tok := p.expect("'goto' expected", TokenGoto)
	stmt := &Goto{node: p.nodeAt(tok)}
	stmt.Label = attach(stmt, p.parseName(stmt))
	return stmt
}

func (p *Parser) parseLabel(parent Node) *Label {
	tok := p.expect("'::' expected", TokenDoubleColon)
	stmt := &Label{node: p.nodeAt(tok)}
	stmt.Name = attach(stmt, p.parseName(stmt))
	p.expect("'::' expected", TokenDoubleColon)
	return stmt
}

// parseExpressionStatement parses a function call or an assignment.
func (p *Parser) parseExpressionStatement(parent Node) Statement {
	start := p.peekToken()
	first, grouped := p.parseSuffixedExpression(nil)

	if call, ok := first.(*Call); ok && !grouped && !p.isAssignmentAhead() {
		stmt := &CallStatement{node: p.nodeAt(start)}
		stmt.Call = attach(stmt, call)
		return stmt
	}

	stmt := &Assignment{node: p.nodeAt(start)}
	stmt.Targets = []Expression{attach(stmt, p.checkAssignable(first, grouped))}
	for p.accept(TokenComma) {
		target, grouped := p.parseSuffixedExpression(stmt)
		stmt.Targets = append(stmt.Targets, attach(stmt, p.checkAssignable(target, grouped)))
	}
	p.expect("'=' expected", TokenAssign)
	stmt.Values = p.parseExpList(stmt)
	return stmt
}

func (p *Parser) isAssignmentAhead() bool {
	kind := p.peek()
	return kind == TokenAssign || kind == TokenComma
}

// checkAssignable accepts a name, an index or a field access. A grouped
// expression such as (a) is a value, never a target.
func (p *Parser) checkAssignable(expr Expression, grouped bool) Expression {
	if grouped {
		syntaxErrorAt(p.peekToken(), "syntax error")
	}
	switch e := expr.(type) {
	case *Identifier, *Index:
		return expr
	case *Member:
		if e.Indexer == "." {
			return expr
		}
	}
	syntaxErrorAt(p.peekToken(), "syntax error")
	return nil
}
