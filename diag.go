package main

import (
	"fmt"
	"strings"
)

// Diagnostic is the error shape shared by every compilation stage: a
// message anchored at a 1-based line/column, with an optional exclusive
// end column for range highlighting.
type Diagnostic struct {
	Message   string
	Line      int
	Column    int
	EndColumn int // 0 when no range is known
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
	}
	return d.Message
}

// ErrorCollection accumulates diagnostics across a stage. Stages collect
// every error they can find rather than stopping at the first one; the
// driver decides whether a non-empty collection gates the next stage.
type ErrorCollection struct {
	diags []Diagnostic
}

// Add appends a diagnostic.
func (e *ErrorCollection) Add(d Diagnostic) {
	e.diags = append(e.diags, d)
}

// Addf appends a diagnostic with a formatted message.
func (e *ErrorCollection) Addf(line, column int, format string, args ...any) {
	e.Add(Diagnostic{Message: fmt.Sprintf(format, args...), Line: line, Column: column})
}

// HasErrors reports whether anything was collected.
func (e *ErrorCollection) HasErrors() bool {
	return len(e.diags) > 0
}

// All returns the collected diagnostics in order.
func (e *ErrorCollection) All() []Diagnostic {
	return e.diags
}

func (e *ErrorCollection) String() string {
	var sb strings.Builder
	for i, d := range e.diags {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.String())
	}
	return sb.String()
}

// TypeChecker is the boundary to the type checking stage. It consumes the
// resolved statements (and may annotate them) together with the built
// symbol table, and reports errors in the shared Diagnostic shape.
type TypeChecker interface {
	Check(stmts []Stmt, symbols *ScopedSymbolTable) *ErrorCollection
}

// CodeGenerator is the boundary to the backend. It consumes resolved,
// type-checked statements plus the symbol table and emits lower-level IR;
// its internals are outside this front end.
type CodeGenerator interface {
	Generate(stmts []Stmt, symbols *ScopedSymbolTable) *ErrorCollection
}
