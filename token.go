package main

// TokenKind classifies a lexed token.
type TokenKind int

const (
	TokenEndOfFile TokenKind = iota
	TokenInteger
	TokenFloat
	TokenString
	TokenIdentifier
	TokenKeyword
	TokenOperator
	TokenPunctuation
	TokenComment
	TokenError
)

func (k TokenKind) String() string {
	switch k {
	case TokenEndOfFile:
		return "EndOfFile"
	case TokenInteger:
		return "Integer"
	case TokenFloat:
		return "Float"
	case TokenString:
		return "String"
	case TokenIdentifier:
		return "Identifier"
	case TokenKeyword:
		return "Keyword"
	case TokenOperator:
		return "Operator"
	case TokenPunctuation:
		return "Punctuation"
	case TokenComment:
		return "Comment"
	case TokenError:
		return "Error"
	}
	return "Unknown"
}

// Token is one lexed unit of source text. For TokenString the lexeme holds
// the decoded value, not the raw source; for TokenError it holds the
// diagnostic message.
type Token struct {
	Kind      TokenKind
	Lexeme    string
	Line      int // 1-based
	Column    int // 1-based, start of token
	EndColumn int // 1-based, one past the last column of the token

	// For TokenError only: offset from Column to the character the error is
	// actually about. In "bad\qescape", Column points at the opening quote
	// and Column+ErrorOffset points at the backslash.
	ErrorOffset int
}

// Loc returns the token's span as a SourceLocation.
func (t Token) Loc() SourceLocation {
	return SourceLocation{Line: t.Line, Column: t.Column, EndColumn: t.EndColumn}
}
