package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func collectProgram(t *testing.T, input string) (*ScopedSymbolTable, *SymbolTableBuilder) {
	t.Helper()

	tokens := NewLexer(input).TokenizeAll()
	p := NewParser(tokens)
	stmts := p.ParseProgram()
	be.True(t, !p.Errors.HasErrors())

	symbols := NewScopedSymbolTable()
	builder := NewSymbolTableBuilder()
	builder.Collect(stmts, symbols)
	return symbols, builder
}

func TestCollectFunction(t *testing.T) {
	symbols, builder := collectProgram(t, "func add(a: i32, b: i32): i32 { return a + b; }")
	be.True(t, !builder.Errors.HasErrors())

	sigs := symbols.Globals().FindFunctions("add")
	be.Equal(t, len(sigs), 1)
	be.Equal(t, sigs[0].ParamTypes, []string{"i32", "i32"})
	be.Equal(t, sigs[0].ReturnType, "i32")
	be.Equal(t, sigs[0].IsDeclarationOnly, false)
	be.Equal(t, sigs[0].Origin, OriginUser)
}

func TestCollectDeclarationOnlyFunction(t *testing.T) {
	symbols, builder := collectProgram(t, "func write(fd: i32, buf: string, count: i32): i32;")
	be.True(t, !builder.Errors.HasErrors())

	sigs := symbols.Globals().FindFunctions("write")
	be.Equal(t, len(sigs), 1)
	be.Equal(t, sigs[0].IsDeclarationOnly, true)

	// No body means no scope.
	be.Equal(t, len(symbols.RootScope().Children()), 0)
}

func TestFunctionBodyScopeNesting(t *testing.T) {
	// Parameters live in the function scope; body locals live in a block
	// scope nested under it.
	symbols, builder := collectProgram(t, "func f(a: i32) {\n    let x = 1;\n}")
	be.True(t, !builder.Errors.HasErrors())

	root := symbols.RootScope()
	be.Equal(t, len(root.Children()), 1)

	fnScope := root.Children()[0]
	be.Equal(t, fnScope.Kind(), FunctionScope)
	be.Equal(t, fnScope.Description(), "function f")
	be.True(t, fnScope.HasVariableLocal("a"))
	be.True(t, !fnScope.HasVariableLocal("x"))

	be.Equal(t, len(fnScope.Children()), 1)
	bodyScope := fnScope.Children()[0]
	be.Equal(t, bodyScope.Kind(), BlockScope)
	be.Equal(t, bodyScope.Description(), "block #0 at line 1")
	be.True(t, bodyScope.HasVariableLocal("x"))
}

func TestBlockNumbering(t *testing.T) {
	symbols, builder := collectProgram(t, "{ let a = 1; }\n{ let b = 2; }")
	be.True(t, !builder.Errors.HasErrors())

	root := symbols.RootScope()
	be.Equal(t, len(root.Children()), 2)
	be.Equal(t, root.Children()[0].Description(), "block #0 at line 1")
	be.Equal(t, root.Children()[1].Description(), "block #1 at line 2")
}

func TestIfBranchesGetBlockScopes(t *testing.T) {
	// The if itself has no scope; its branch blocks do.
	symbols, builder := collectProgram(t, "if x { let a = 1; } else { let b = 2; }")
	be.True(t, !builder.Errors.HasErrors())

	root := symbols.RootScope()
	be.Equal(t, len(root.Children()), 2)
	be.True(t, root.Children()[0].HasVariableLocal("a"))
	be.True(t, root.Children()[1].HasVariableLocal("b"))
}

func TestOperatorBodyGetsNoScope(t *testing.T) {
	symbols, builder := collectProgram(t,
		"operator infix <>(a: i32, b: i32) : bool prec 60 { return a != b; }")
	be.True(t, !builder.Errors.HasErrors())

	be.True(t, symbols.Globals().HasOperator("<>", Infix))
	be.Equal(t, len(symbols.RootScope().Children()), 0)
}

func TestCollectOperatorInfo(t *testing.T) {
	symbols, builder := collectProgram(t,
		"operator infix **(a: f64, b: f64) : f64 prec 90 assoc right;")
	be.True(t, !builder.Errors.HasErrors())

	info, ok := symbols.Globals().FindOperator("**", Infix)
	be.True(t, ok)
	be.Equal(t, info.Precedence, 90)
	be.Equal(t, info.Assoc, AssocRight)
	be.Equal(t, info.Signature.ParamTypes, []string{"f64", "f64"})
	be.Equal(t, info.Signature.ReturnType, "f64")
}

func TestLetRedeclarationInSameScope(t *testing.T) {
	_, builder := collectProgram(t, "let x = 1;\nlet x = 2;")
	be.True(t, builder.Errors.HasErrors())
	be.Equal(t, builder.Errors.All()[0].Message, "Variable 'x' already defined in current scope")
}

func TestLetShadowingInNestedScopeAllowed(t *testing.T) {
	_, builder := collectProgram(t, "let x = 1;\n{ let x = 2; }")
	be.True(t, !builder.Errors.HasErrors())
}

func TestNestedFunctionRejected(t *testing.T) {
	_, builder := collectProgram(t, "func outer() {\n    func inner() { }\n}")
	be.True(t, builder.Errors.HasErrors())
	be.Equal(t, builder.Errors.All()[0].Message,
		"Nested function definitions are not yet supported (closures unimplemented)")
}

func TestFunctionParamRequiresType(t *testing.T) {
	_, builder := collectProgram(t, "func f(a) { }")
	be.True(t, builder.Errors.HasErrors())
	be.Equal(t, builder.Errors.All()[0].Message,
		"Function parameter 'a' requires explicit type (generics unimplemented)")
}

func TestLoadPreludeSource(t *testing.T) {
	symbols := NewScopedSymbolTable()
	builder := NewSymbolTableBuilder()
	ok := builder.LoadPreludeSource("operator infix @@(a: i32, b: i32) : i32 prec 42;", symbols)
	be.True(t, !ok)

	// '@' never lexes, so the prelude is rejected at the lexing stage.
	be.True(t, builder.Errors.HasErrors())
}

func TestPreludeOriginTagging(t *testing.T) {
	symbols := NewScopedSymbolTable()
	builder := NewSymbolTableBuilder()
	ok := builder.LoadPreludeSource(
		"func write(fd: i32, buf: string, count: i32): i32;\n"+
			"operator infix +(a: i32, b: i32) : i32 prec 70;", symbols)
	be.True(t, ok)

	sigs := symbols.Globals().FindFunctions("write")
	be.Equal(t, sigs[0].Origin, OriginPrelude)

	info, found := symbols.Globals().FindOperator("+", Infix)
	be.True(t, found)
	be.Equal(t, info.Origin, OriginPrelude)
}

func TestUserSymbolsAfterPreludeAreUserOrigin(t *testing.T) {
	symbols := NewScopedSymbolTable()
	builder := NewSymbolTableBuilder()
	ok := builder.LoadPreludeSource("operator infix +(a: i32, b: i32) : i32 prec 70;", symbols)
	be.True(t, ok)

	tokens := NewLexer("let x = 1;").TokenizeAll()
	p := NewParser(tokens)
	stmts := p.ParseProgram()
	be.True(t, builder.Collect(stmts, symbols))

	binding, found := symbols.RootScope().FindVariable("x")
	be.True(t, found)
	be.Equal(t, binding.Origin, OriginUser)
}

func TestLoadPreludeMissingFile(t *testing.T) {
	symbols := NewScopedSymbolTable()
	builder := NewSymbolTableBuilder()
	ok := builder.LoadPrelude("does/not/exist.pec", symbols)
	be.True(t, !ok)
	be.Equal(t, builder.Errors.All()[0].Message,
		"Failed to open prelude file: does/not/exist.pec")
}

func TestLoadPreludeParseError(t *testing.T) {
	symbols := NewScopedSymbolTable()
	builder := NewSymbolTableBuilder()
	ok := builder.LoadPreludeSource("operator infix +(a: i32) : i32 prec 70;", symbols)
	be.True(t, !ok)

	msg := builder.Errors.All()[0].Message
	be.Equal(t, msg, "Parse error in prelude: Infix operator must have exactly 2 parameters")
}
