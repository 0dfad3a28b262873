package main

import "strings"

const (
	operatorChars    = "+-*/%=&|^!<>?."
	punctuationChars = "(){}[],;:#"
)

var keywords = map[string]bool{
	"let":      true,
	"func":     true,
	"if":       true,
	"else":     true,
	"return":   true,
	"while":    true,
	"true":     true,
	"false":    true,
	"operator": true,
	"prefix":   true,
	"postfix":  true,
	"infix":    true,
	"prec":     true,
	"assoc":    true,
	"left":     true,
	"right":    true,
	"none":     true,
}

// Lexer turns source text into a stream of tokens. It never fails: malformed
// input is reported as TokenError tokens and the cursor always advances, so
// the stream is finite and ends in exactly one TokenEndOfFile.
type Lexer struct {
	source string
	index  int
	line   int
	column int
}

// NewLexer creates a lexer over the given source text.
func NewLexer(source string) *Lexer {
	l := &Lexer{}
	l.Reset(source)
	return l
}

// Reset re-points the lexer at new source content, rewinding position state.
func (l *Lexer) Reset(source string) {
	l.source = source
	l.index = 0
	l.line = 1
	l.column = 1
}

// TokenizeAll drains the lexer, returning every token including the final
// TokenEndOfFile. Comment tokens are included; the parser skips them.
func (l *Lexer) TokenizeAll() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEndOfFile {
			return tokens
		}
	}
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.atEnd() {
		return Token{Kind: TokenEndOfFile, Line: l.line, Column: l.column, EndColumn: l.column}
	}

	c := l.peek()
	switch {
	case isDigit(c):
		return l.lexNumber()
	case isIdentifierStart(c):
		return l.lexIdentifierOrKeyword()
	case c == '"':
		return l.lexString()
	case isOperatorChar(c):
		return l.lexOperator()
	case isPunctuationChar(c):
		return l.lexPunctuationOrComment()
	}

	// Unknown character: advance exactly one character so lexing always
	// makes progress, even on garbage input.
	startLine, startColumn := l.line, l.column
	l.advance()
	return Token{
		Kind:      TokenError,
		Lexeme:    "Unexpected character: " + string(c),
		Line:      startLine,
		Column:    startColumn,
		EndColumn: l.column,
	}
}

func (l *Lexer) lexNumber() Token {
	startIndex := l.index
	startLine, startColumn := l.line, l.column

	sawDot := false
	sawExponent := false

	for !l.atEnd() {
		c := l.peek()
		if isDigit(c) {
			l.advance()
			continue
		}
		if c == '.' && !sawDot && !sawExponent {
			sawDot = true
			l.advance()
			continue
		}
		if c == 'e' || c == 'E' {
			// Only consume the exponent marker if a digit (or signed digit)
			// follows; otherwise leave it for the next token, so "123abc"
			// lexes as Integer("123") then Identifier("abc").
			if next, ok := l.peekAt(1); ok {
				if isDigit(next) {
					sawExponent = true
					l.advance()
					continue
				}
				if next == '+' || next == '-' {
					if digit, ok := l.peekAt(2); ok && isDigit(digit) {
						sawExponent = true
						l.advance()
						l.advance()
						continue
					}
				}
			}
		}
		break
	}

	kind := TokenInteger
	if sawDot || sawExponent {
		kind = TokenFloat
	}
	return Token{
		Kind:      kind,
		Lexeme:    l.source[startIndex:l.index],
		Line:      startLine,
		Column:    startColumn,
		EndColumn: l.column,
	}
}

func (l *Lexer) lexIdentifierOrKeyword() Token {
	startIndex := l.index
	startLine, startColumn := l.line, l.column

	l.advance() // first character already validated
	for !l.atEnd() && isIdentifierPart(l.peek()) {
		l.advance()
	}

	lexeme := l.source[startIndex:l.index]
	kind := TokenIdentifier
	if keywords[lexeme] {
		kind = TokenKeyword
	}
	return Token{
		Kind:      kind,
		Lexeme:    lexeme,
		Line:      startLine,
		Column:    startColumn,
		EndColumn: l.column,
	}
}

func (l *Lexer) lexString() Token {
	startLine, startColumn := l.line, l.column

	l.advance() // consume opening quote
	contentStart := l.index

	escaped := false
	terminated := false
	for !l.atEnd() {
		c := l.peek()
		if c == '\n' && !escaped {
			// A bare newline ends the (broken) literal. Consume it so the
			// next scan starts on the following line; the span still ends at
			// the newline itself.
			endColumn := l.column
			l.advance()
			return Token{
				Kind:      TokenError,
				Lexeme:    "Unterminated string literal",
				Line:      startLine,
				Column:    startColumn,
				EndColumn: endColumn,
			}
		}
		l.advance()
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == '"' {
			terminated = true
			break
		}
	}

	if !terminated {
		return Token{
			Kind:      TokenError,
			Lexeme:    "Unterminated string literal",
			Line:      startLine,
			Column:    startColumn,
			EndColumn: l.column,
		}
	}

	raw := l.source[contentStart : l.index-1] // exclude closing quote
	decoded, errPos, ok := decodeStringEscapes(raw)
	if !ok {
		// errPos is relative to the content; +1 accounts for the opening quote.
		return Token{
			Kind:        TokenError,
			Lexeme:      "Invalid string escape",
			Line:        startLine,
			Column:      startColumn,
			EndColumn:   l.column,
			ErrorOffset: errPos + 1,
		}
	}

	return Token{
		Kind:      TokenString,
		Lexeme:    decoded,
		Line:      startLine,
		Column:    startColumn,
		EndColumn: l.column,
	}
}

// decodeStringEscapes decodes the escape sequences in a raw string body.
// On failure it reports the byte offset of the offending backslash.
func decodeStringEscapes(raw string) (decoded string, errPos int, ok bool) {
	var out strings.Builder
	out.Grow(len(raw))

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			out.WriteByte(c)
			continue
		}
		if i+1 >= len(raw) {
			return "", i, false
		}
		i++
		switch raw[i] {
		case '\\', '"', '\'':
			out.WriteByte(raw[i])
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		case 'b':
			out.WriteByte('\b')
		case 'f':
			out.WriteByte('\f')
		case '0':
			out.WriteByte(0)
		default:
			return "", i - 1, false
		}
	}
	return out.String(), 0, true
}

func (l *Lexer) lexOperator() Token {
	startIndex := l.index
	startLine, startColumn := l.line, l.column

	// Maximal run of operator characters. The lexer has no notion of which
	// multi-character operators exist; operator declarations give runs
	// meaning later.
	for !l.atEnd() && isOperatorChar(l.peek()) {
		l.advance()
	}

	return Token{
		Kind:      TokenOperator,
		Lexeme:    l.source[startIndex:l.index],
		Line:      startLine,
		Column:    startColumn,
		EndColumn: l.column,
	}
}

func (l *Lexer) lexPunctuationOrComment() Token {
	startLine, startColumn := l.line, l.column
	c := l.advance()

	if c == '#' {
		commentStart := l.index
		for !l.atEnd() && l.peek() != '\n' {
			l.advance()
		}
		lexeme := l.source[commentStart:l.index]
		endColumn := l.column
		if !l.atEnd() {
			l.advance() // consume the newline
		}
		return Token{
			Kind:      TokenComment,
			Lexeme:    lexeme,
			Line:      startLine,
			Column:    startColumn,
			EndColumn: endColumn,
		}
	}

	return Token{
		Kind:      TokenPunctuation,
		Lexeme:    string(c),
		Line:      startLine,
		Column:    startColumn,
		EndColumn: l.column,
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) atEnd() bool {
	return l.index >= len(l.source)
}

func (l *Lexer) peek() byte {
	return l.source[l.index]
}

func (l *Lexer) peekAt(offset int) (byte, bool) {
	if l.index+offset >= len(l.source) {
		return 0, false
	}
	return l.source[l.index+offset], true
}

func (l *Lexer) advance() byte {
	c := l.source[l.index]
	l.index++
	if c == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return c
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentifierStart(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isIdentifierPart(c byte) bool {
	return isIdentifierStart(c) || isDigit(c)
}

func isOperatorChar(c byte) bool {
	return strings.IndexByte(operatorChars, c) >= 0
}

func isPunctuationChar(c byte) bool {
	return strings.IndexByte(punctuationChars, c) >= 0
}
