package main

import "strings"

// SourceLocation is the span attached to every AST node and diagnostic.
// Line and Column are 1-based; EndColumn is exclusive. Zero means unknown.
type SourceLocation struct {
	Line      int
	Column    int
	EndColumn int
}

// TypeExpr is a source-level type annotation. Only named types exist today;
// this is the placeholder for a richer type grammar.
type TypeExpr struct {
	Name string
	Loc  SourceLocation
}

// Parameter is one function or operator parameter. Type is nil when the
// source omitted the annotation.
type Parameter struct {
	Name string
	Type *TypeExpr
	Loc  SourceLocation
}

// ===== Expressions =====

// Expr is the closed set of expression nodes. Every Expr exclusively owns
// its children: the AST is a tree, never a graph.
type Expr interface {
	exprNode()
	ExprLoc() SourceLocation
}

// IntLitExpr stores its value undecoded; numeric parsing happens downstream.
type IntLitExpr struct {
	Value string
	Loc   SourceLocation
}

type FloatLitExpr struct {
	Value string
	Loc   SourceLocation
}

// StringLitExpr holds the decoded string value, not the raw source text.
type StringLitExpr struct {
	Value string
	Loc   SourceLocation
}

type BoolLitExpr struct {
	Value bool
	Loc   SourceLocation
}

type IdentExpr struct {
	Name string
	Loc  SourceLocation
}

// BinaryExpr is an infix application. The parser never produces these;
// they exist only as resolver output.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Loc   SourceLocation
}

// UnaryExpr is a prefix or postfix application, also resolver-only.
type UnaryExpr struct {
	Op       string
	Operand  Expr
	Position OpPosition
	Loc      SourceLocation
}

// OpSeqItem is one element of an unresolved operator sequence: either an
// operator symbol or an operand expression.
type OpSeqItem struct {
	Op      string // non-empty for operator items
	Operand Expr   // non-nil for operand items
	Loc     SourceLocation
}

// IsOperator reports whether the item is an operator symbol.
func (i OpSeqItem) IsOperator() bool { return i.Operand == nil }

// OperatorSeqExpr is the parser's flat, precedence-free expression form.
// Example: "a + b * c" parses to [Operand(a) Op(+) Operand(b) Op(*) Operand(c)].
// No two operand items are ever adjacent; operator items may run consecutively.
// Resolution replaces every one of these with Binary/Unary trees.
type OperatorSeqExpr struct {
	Items []OpSeqItem
	Loc   SourceLocation
}

type CallExpr struct {
	Callee Expr
	Args   []Expr
	Loc    SourceLocation
}

func (*IntLitExpr) exprNode()      {}
func (*FloatLitExpr) exprNode()    {}
func (*StringLitExpr) exprNode()   {}
func (*BoolLitExpr) exprNode()     {}
func (*IdentExpr) exprNode()       {}
func (*BinaryExpr) exprNode()      {}
func (*UnaryExpr) exprNode()       {}
func (*OperatorSeqExpr) exprNode() {}
func (*CallExpr) exprNode()        {}

func (e *IntLitExpr) ExprLoc() SourceLocation      { return e.Loc }
func (e *FloatLitExpr) ExprLoc() SourceLocation    { return e.Loc }
func (e *StringLitExpr) ExprLoc() SourceLocation   { return e.Loc }
func (e *BoolLitExpr) ExprLoc() SourceLocation     { return e.Loc }
func (e *IdentExpr) ExprLoc() SourceLocation       { return e.Loc }
func (e *BinaryExpr) ExprLoc() SourceLocation      { return e.Loc }
func (e *UnaryExpr) ExprLoc() SourceLocation       { return e.Loc }
func (e *OperatorSeqExpr) ExprLoc() SourceLocation { return e.Loc }
func (e *CallExpr) ExprLoc() SourceLocation        { return e.Loc }

// ===== Statements =====

// Stmt is the closed set of statement nodes.
type Stmt interface {
	stmtNode()
	StmtLoc() SourceLocation
}

type LetStmt struct {
	Name string
	Type *TypeExpr // nil when omitted
	Init Expr
	Loc  SourceLocation
}

// FuncStmt with a nil Body is a declaration only (e.g. an extern).
type FuncStmt struct {
	Name       string
	Params     []Parameter
	ReturnType *TypeExpr // nil means void
	Body       *BlockStmt
	Loc        SourceLocation
}

type OperatorDeclStmt struct {
	Op         string
	Position   OpPosition
	Params     []Parameter
	ReturnType *TypeExpr
	Precedence int           // infix only
	Assoc      Associativity // infix only
	Body       *BlockStmt    // nil for declaration-only
	Loc        SourceLocation
}

type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt // nil, *BlockStmt, or a chained *IfStmt
	Loc       SourceLocation
}

type ReturnStmt struct {
	Value Expr // nil for bare return
	Loc   SourceLocation
}

type WhileStmt struct {
	Condition Expr
	Body      Stmt
	Loc       SourceLocation
}

type ExprStmt struct {
	Expr Expr
	Loc  SourceLocation
}

// BlockStmt owns a fresh lexical scope during symbol table construction.
type BlockStmt struct {
	Stmts []Stmt
	Loc   SourceLocation
}

func (*LetStmt) stmtNode()          {}
func (*FuncStmt) stmtNode()         {}
func (*OperatorDeclStmt) stmtNode() {}
func (*IfStmt) stmtNode()           {}
func (*ReturnStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()        {}
func (*ExprStmt) stmtNode()         {}
func (*BlockStmt) stmtNode()        {}

func (s *LetStmt) StmtLoc() SourceLocation          { return s.Loc }
func (s *FuncStmt) StmtLoc() SourceLocation         { return s.Loc }
func (s *OperatorDeclStmt) StmtLoc() SourceLocation { return s.Loc }
func (s *IfStmt) StmtLoc() SourceLocation           { return s.Loc }
func (s *ReturnStmt) StmtLoc() SourceLocation       { return s.Loc }
func (s *WhileStmt) StmtLoc() SourceLocation        { return s.Loc }
func (s *ExprStmt) StmtLoc() SourceLocation         { return s.Loc }
func (s *BlockStmt) StmtLoc() SourceLocation        { return s.Loc }

// ===== S-expression dump =====

// ToSExpr renders an expression as an s-expression string. The output is
// valid sexy syntax, so markdown test assertions can be matched against it
// structurally.
func ToSExpr(e Expr) string {
	switch n := e.(type) {
	case *IntLitExpr:
		return "(integer " + n.Value + ")"
	case *FloatLitExpr:
		return "(float \"" + n.Value + "\")"
	case *StringLitExpr:
		return "(string " + quoteSExpr(n.Value) + ")"
	case *BoolLitExpr:
		if n.Value {
			return "(bool true)"
		}
		return "(bool false)"
	case *IdentExpr:
		return "(ident \"" + n.Name + "\")"
	case *BinaryExpr:
		return "(binary \"" + n.Op + "\" " + ToSExpr(n.Left) + " " + ToSExpr(n.Right) + ")"
	case *UnaryExpr:
		pos := "prefix"
		if n.Position == Postfix {
			pos = "postfix"
		}
		return "(unary " + pos + " \"" + n.Op + "\" " + ToSExpr(n.Operand) + ")"
	case *OperatorSeqExpr:
		var sb strings.Builder
		sb.WriteString("(opseq")
		for _, item := range n.Items {
			sb.WriteString(" ")
			if item.IsOperator() {
				sb.WriteString("(op \"" + item.Op + "\")")
			} else {
				sb.WriteString(ToSExpr(item.Operand))
			}
		}
		sb.WriteString(")")
		return sb.String()
	case *CallExpr:
		var sb strings.Builder
		sb.WriteString("(call " + ToSExpr(n.Callee))
		for _, arg := range n.Args {
			sb.WriteString(" " + ToSExpr(arg))
		}
		sb.WriteString(")")
		return sb.String()
	}
	return ""
}

// StmtToSExpr renders a statement as an s-expression string.
func StmtToSExpr(s Stmt) string {
	switch n := s.(type) {
	case *LetStmt:
		out := "(let \"" + n.Name + "\""
		if n.Type != nil {
			out += " (type \"" + n.Type.Name + "\")"
		}
		return out + " " + ToSExpr(n.Init) + ")"
	case *FuncStmt:
		var sb strings.Builder
		sb.WriteString("(func \"" + n.Name + "\" " + paramsToSExpr(n.Params))
		if n.ReturnType != nil {
			sb.WriteString(" (ret \"" + n.ReturnType.Name + "\")")
		}
		if n.Body != nil {
			sb.WriteString(" " + StmtToSExpr(n.Body))
		} else {
			sb.WriteString(" declared")
		}
		sb.WriteString(")")
		return sb.String()
	case *OperatorDeclStmt:
		var sb strings.Builder
		sb.WriteString("(operator " + n.Position.String() + " \"" + n.Op + "\" " + paramsToSExpr(n.Params))
		if n.ReturnType != nil {
			sb.WriteString(" (ret \"" + n.ReturnType.Name + "\")")
		}
		if n.Position == Infix {
			sb.WriteString(" (prec " + itoa(n.Precedence) + " " + n.Assoc.String() + ")")
		}
		if n.Body != nil {
			sb.WriteString(" " + StmtToSExpr(n.Body))
		} else {
			sb.WriteString(" declared")
		}
		sb.WriteString(")")
		return sb.String()
	case *IfStmt:
		out := "(if " + ToSExpr(n.Condition) + " " + StmtToSExpr(n.Then)
		if n.Else != nil {
			out += " " + StmtToSExpr(n.Else)
		}
		return out + ")"
	case *ReturnStmt:
		if n.Value == nil {
			return "(return)"
		}
		return "(return " + ToSExpr(n.Value) + ")"
	case *WhileStmt:
		return "(while " + ToSExpr(n.Condition) + " " + StmtToSExpr(n.Body) + ")"
	case *ExprStmt:
		return "(expr " + ToSExpr(n.Expr) + ")"
	case *BlockStmt:
		var sb strings.Builder
		sb.WriteString("(block")
		for _, stmt := range n.Stmts {
			sb.WriteString(" " + StmtToSExpr(stmt))
		}
		sb.WriteString(")")
		return sb.String()
	}
	return ""
}

func paramsToSExpr(params []Parameter) string {
	var sb strings.Builder
	sb.WriteString("(params")
	for _, p := range params {
		sb.WriteString(" (param \"" + p.Name + "\"")
		if p.Type != nil {
			sb.WriteString(" (type \"" + p.Type.Name + "\")")
		}
		sb.WriteString(")")
	}
	sb.WriteString(")")
	return sb.String()
}

func quoteSExpr(s string) string {
	escaped := strings.ReplaceAll(s, "\\", "\\\\")
	escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
	return "\"" + escaped + "\""
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	negative := n < 0
	if negative {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}
