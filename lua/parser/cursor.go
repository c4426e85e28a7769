package parser

// cursor gives the grammar single-token lookahead over a TokenSource. Only
// advance moves it forward for good; peek and a failed consumeIf undo their
// advance by pushing the token back into the source.
type cursor struct {
	src     TokenSource
	current Token
	last    Token

	text    string
	hasText bool
}

func newCursor(src TokenSource) *cursor {
	return &cursor{src: src}
}

// advance moves to the next significant token and returns it.
func (c *cursor) advance() Token {
	tok := c.src.Next()
	for tok.Kind.Insignificant() {
		tok = c.src.Next()
	}
	if tok.Kind == TokenError {
		raise(&SyntaxError{
			File:    tok.Pos.File,
			Line:    tok.Pos.Line,
			Column:  tok.Pos.Column,
			Message: tok.Literal,
		})
	}
	c.last = c.current
	c.current = tok
	c.hasText = false
	return tok
}

func (c *cursor) unread(current, last Token) {
	c.src.Unread()
	c.current = current
	c.last = last
	c.hasText = false
}

// peek reports the kind of the upcoming token without consuming it.
func (c *cursor) peek() TokenKind {
	return c.peekToken().Kind
}

func (c *cursor) peekToken() Token {
	current, last := c.current, c.last
	tok := c.advance()
	c.unread(current, last)
	return tok
}

// consumeIf consumes the upcoming token only if pred accepts it.
func (c *cursor) consumeIf(pred func(Token) bool) bool {
	current, last := c.current, c.last
	tok := c.advance()
	if !pred(tok) {
		c.unread(current, last)
		return false
	}
	return true
}

func (c *cursor) accept(kinds ...TokenKind) bool {
	return c.consumeIf(func(tok Token) bool {
		return tok.is(kinds...)
	})
}

// expect consumes the upcoming token and faults with msg unless it is one
// of kinds.
func (c *cursor) expect(msg string, kinds ...TokenKind) Token {
	tok := c.advance()
	if !tok.is(kinds...) {
		syntaxErrorAt(tok, msg)
	}
	return tok
}

// currentText returns the raw text of the current token.
func (c *cursor) currentText() string {
	if !c.hasText {
		c.text = c.current.Literal
		c.hasText = true
	}
	return c.text
}

func (t Token) is(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if t.Kind == kind {
			return true
		}
	}
	return false
}
