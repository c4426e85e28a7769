package parser

import "strings"

// parseExpression parses a full expression. parent is the node that will
// hold the result.
func (p *Parser) parseExpression(parent Node) Expression {
	expr := p.parseSubexpression(parent, 0)
	if expr == nil {
		internalError("expression parser produced no node")
	}
	return expr
}

// parseSubexpression parses an expression whose binary operators all bind
// tighter than limit. Operators of equal precedence fold to the left.
func (p *Parser) parseSubexpression(parent Node, limit int) Expression {
	p.enter()
	defer p.leave()

	var left Expression
	tok := p.peekToken()
	switch {
	case unaryOperators[tok.Kind] != OpInvalid:
		p.advance()
		unary := &Unary{node: p.nodeAt(tok), Operator: unaryOperators[tok.Kind]}
		unary.Operand = attach(unary, p.parseSubexpression(unary, unaryPrecedence))
		left = unary
	case tok.Kind == TokenEllipsis:
		p.advance()
		left = &Vararg{node: p.nodeAt(tok)}
	case tok.Kind == TokenNil:
		p.advance()
		left = &Constant{node: p.nodeAt(tok), Type: ConstNil, Text: p.currentText()}
	case tok.Kind == TokenTrue, tok.Kind == TokenFalse:
		p.advance()
		left = &Constant{node: p.nodeAt(tok), Type: ConstBoolean, Text: p.currentText()}
	case tok.Kind == TokenString, tok.Kind == TokenLongString:
		p.advance()
		left = &Constant{node: p.nodeAt(tok), Type: ConstString, Text: p.currentText()}
	case tok.Kind == TokenNumber:
		p.advance()
		left = &Constant{node: p.nodeAt(tok), Type: numberKind(p.currentText()), Text: p.currentText()}
	case tok.Kind == TokenFunction:
		p.advance()
		left = p.parseFunction(parent, tok)
	case tok.Kind == TokenLBrace:
		left = p.parseTable(parent)
	case Precedence(tok.Kind) > 0:
		left = p.parseLeadingOperator(parent, tok)
	default:
		left = p.parsePrefix(parent)
	}

	for {
		next := p.peekToken()
		prec := Precedence(next.Kind)
		if prec <= limit {
			break
		}
		p.advance()
		op := binaryOperators[next.Kind]
		if op == OpInvalid {
			internalError("no binary operator for token %s", next.Kind)
		}
		binary := &Binary{node: p.nodeAt(next), Operator: op}
		binary.Left = attach(binary, left)
		rightLimit := prec
		if p.rightAssoc && rightAssociative(op) {
			rightLimit = prec - 1
		}
		binary.Right = attach(binary, p.parseSubexpression(binary, rightLimit))
		left = binary
	}

	if left != nil && Node(left) == parent {
		syntaxErrorAt(p.peekToken(), "unexpected symbol")
	}
	return left
}

// parseLeadingOperator handles a binary operator with no left operand
// before it. Only a left-hand value seeded through ContinueExpression can
// stand in for the missing operand, and only as the very first token of the
// input; anywhere else the operator is a syntax error.
func (p *Parser) parseLeadingOperator(parent Node, tok Token) Expression {
	seed := p.seed
	if seed == nil || parent != Node(seed) || p.current != (Token{}) {
		p.advance()
		syntaxErrorAt(tok, "unexpected symbol")
	}
	p.seed = nil

	p.advance()
	prec := Precedence(tok.Kind)
	op := binaryOperators[tok.Kind]
	binary := &Binary{node: p.nodeAt(tok), Operator: op}
	binary.Left = attach(binary, seed)
	rightLimit := prec
	if p.rightAssoc && rightAssociative(op) {
		rightLimit = prec - 1
	}
	binary.Right = attach(binary, p.parseSubexpression(binary, rightLimit))
	return binary
}

// numberKind classifies a numeric literal by the presence of a decimal
// point.
func numberKind(lexeme string) ConstantKind {
	if strings.Contains(lexeme, ".") {
		return ConstFloat
	}
	return ConstInteger
}

func (p *Parser) parsePrimary(parent Node) Expression {
	tok := p.advance()
	switch tok.Kind {
	case TokenName:
		return &Identifier{node: p.nodeAt(tok), Name: p.currentText()}
	case TokenLParen:
		expr := p.parseExpression(parent)
		p.expect("')' expected", TokenRParen)
		switch e := expr.(type) {
		case *Call:
			e.Parenthesized = true
		case *Vararg:
			e.Parenthesized = true
		}
		return expr
	}
	syntaxErrorAt(tok, "unexpected symbol")
	return nil
}

// parsePrefix parses a primary expression followed by any number of field
// accesses, index operations and calls.
func (p *Parser) parsePrefix(parent Node) Expression {
	expr, _ := p.parseSuffixedExpression(parent)
	return expr
}

// parseSuffixedExpression is parsePrefix that also reports whether the
// result is a bare parenthesized expression with no suffix after it. Such
// an expression can be neither assigned to nor used as a statement.
func (p *Parser) parseSuffixedExpression(parent Node) (expr Expression, grouped bool) {
	grouped = p.peek() == TokenLParen
	expr = p.parsePrimary(parent)
	for {
		tok := p.peekToken()
		switch tok.Kind {
		case TokenDot:
			p.advance()
			member := &Member{node: p.nodeAt(tok), Indexer: p.currentText()}
			member.Base = attach(member, expr)
			member.Field = attach(member, p.parseName(member))
			expr = member
		case TokenColon:
			p.advance()
			member := &Member{node: p.nodeAt(tok), Indexer: p.currentText()}
			member.Base = attach(member, expr)
			member.Field = attach(member, p.parseName(member))
			call := &Call{node: p.nodeAt(tok)}
			call.Base = attach(call, Expression(member))
			call.Arguments = p.parseArgs(call)
			expr = call
		case TokenLBracket:
			p.advance()
			index := &Index{node: p.nodeAt(tok)}
			index.Base = attach(index, expr)
			index.Key = attach(index, p.parseExpression(index))
			p.expect("']' expected", TokenRBracket)
			expr = index
		case TokenLParen, TokenString, TokenLongString, TokenLBrace:
			call := &Call{node: p.nodeAt(tok)}
			call.Base = attach(call, expr)
			call.Arguments = p.parseArgs(call)
			expr = call
		default:
			return expr, grouped
		}
		grouped = false
	}
}

// parseArgs parses the arguments of a call: a parenthesized list, a single
// string literal or a single table constructor.
func (p *Parser) parseArgs(call *Call) []Expression {
	tok := p.peekToken()
	switch tok.Kind {
	case TokenLParen:
		p.advance()
		if p.accept(TokenRParen) {
			return nil
		}
		args := p.parseExpList(call)
		p.expect("')' expected", TokenRParen)
		return args
	case TokenString, TokenLongString:
		p.advance()
		arg := &Constant{node: p.nodeAt(tok), Type: ConstString, Text: p.currentText()}
		return []Expression{attach(call, Expression(arg))}
	case TokenLBrace:
		return []Expression{attach(call, Expression(p.parseTable(call)))}
	}
	p.advance()
	syntaxErrorAt(tok, "function arguments expected")
	return nil
}

// parseFunction continues an anonymous function expression after the
// "function" keyword.
func (p *Parser) parseFunction(parent Node, keyword Token) *Function {
	fn := &Function{node: p.nodeAt(keyword)}
	fn.Params, fn.IsVararg = p.parseParams(fn)
	fn.Body = attach(fn, p.parseBlock(fn))
	p.expectClosing(TokenEnd, TokenFunction, keyword.Pos.Line)
	return fn
}

func (p *Parser) parseTable(parent Node) *Table {
	open := p.expect("'{' expected", TokenLBrace)
	table := &Table{node: p.nodeAt(open)}
	for p.peek() != TokenRBrace {
		table.Fields = append(table.Fields, attach(table, p.parseTableField(table)))
		if !p.accept(TokenComma, TokenSemicolon) {
			break
		}
	}
	p.expectClosing(TokenRBrace, TokenLBrace, open.Pos.Line)
	return table
}

// parseTableField parses one of [key] = value, name = value or value.
func (p *Parser) parseTableField(table *Table) *TableField {
	start := p.peekToken()
	field := &TableField{node: p.nodeAt(start)}

	if start.Kind == TokenLBracket {
		p.advance()
		field.Key = attach(field, p.parseExpression(field))
		p.expect("']' expected", TokenRBracket)
		p.expect("'=' expected", TokenAssign)
		field.Value = attach(field, p.parseExpression(field))
		return field
	}

	value := p.parseExpression(field)
	if name, ok := value.(*Identifier); ok && start.Kind == TokenName && p.accept(TokenAssign) {
		key := &Constant{node: name.node, Type: ConstString, Text: name.Name}
		field.Key = attach(field, Expression(key))
		field.Named = true
		value = p.parseExpression(field)
	}
	field.Value = attach(field, value)
	return field
}
