// Front end pipeline tests
//
// Exercises the staged pipeline end to end: lexing gates parsing, parsing
// gates collection, collection gates resolution. Mirrors what the check
// command does, minus the printing.

package main

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

// pipelineResult carries everything the staged front end produced for a
// source text: statements, symbols, and the diagnostics of whichever stage
// failed first.
type pipelineResult struct {
	stmts       []Stmt
	symbols     *ScopedSymbolTable
	diagnostics []Diagnostic
}

func runPipeline(source string) pipelineResult {
	var result pipelineResult

	tokens := NewLexer(source).TokenizeAll()
	for _, tok := range tokens {
		if tok.Kind == TokenError {
			result.diagnostics = append(result.diagnostics,
				Diagnostic{Message: tok.Lexeme, Line: tok.Line, Column: tok.Column})
		}
	}
	if len(result.diagnostics) > 0 {
		return result
	}

	parser := NewParser(tokens)
	result.stmts = parser.ParseProgram()
	if parser.Errors.HasErrors() {
		result.diagnostics = parser.Errors.All()
		return result
	}

	symbols := NewScopedSymbolTable()
	builder := NewSymbolTableBuilder()
	if !builder.LoadPreludeSource(DefaultPreludeSource(), symbols) {
		result.diagnostics = builder.Errors.All()
		return result
	}
	if !builder.Collect(result.stmts, symbols) {
		result.diagnostics = builder.Errors.All()
		return result
	}
	result.symbols = symbols

	resolver := NewResolver(symbols.Globals())
	resolver.ResolveStmts(result.stmts)
	result.diagnostics = resolver.Errors.All()
	return result
}

func TestPipelineCleanProgram(t *testing.T) {
	source := `
func fib(n: i32): i32 {
    if n < 2 {
        return n;
    }
    return fib(n - 1) + fib(n - 2);
}

let result = fib(10);
`
	result := runPipeline(source)
	be.Equal(t, len(result.diagnostics), 0)
	be.Equal(t, len(result.stmts), 2)
	be.True(t, result.symbols.Globals().HasFunction("fib"))

	// Everything resolved; no flat sequences survive.
	dump := programDump(result.stmts)
	be.True(t, !strings.Contains(dump, "opseq"))
	be.True(t, strings.Contains(dump,
		"(binary \"+\" (call (ident \"fib\") (binary \"-\" (ident \"n\") (integer 1))) "+
			"(call (ident \"fib\") (binary \"-\" (ident \"n\") (integer 2))))"))
}

func TestPipelineUserOperatorProgram(t *testing.T) {
	source := `
operator infix <>(a: i32, b: i32) : bool prec 55 {
    return a != b;
}

let different = 1 <> 2;
`
	result := runPipeline(source)
	be.Equal(t, len(result.diagnostics), 0)
	be.True(t, result.symbols.Globals().HasOperator("<>", Infix))
	be.True(t, strings.Contains(programDump(result.stmts),
		"(let \"different\" (binary \"<>\" (integer 1) (integer 2)))"))
}

func TestPipelineLexErrorGatesParsing(t *testing.T) {
	result := runPipeline("let x = @;")
	be.Equal(t, len(result.diagnostics), 1)
	be.Equal(t, result.diagnostics[0].Message, "Unexpected character: @")
	be.Equal(t, len(result.stmts), 0)
}

func TestPipelineParseErrorGatesCollection(t *testing.T) {
	result := runPipeline("let = 1;")
	be.True(t, len(result.diagnostics) > 0)
	be.Equal(t, result.diagnostics[0].Message, "Expected identifier after 'let'")
	be.True(t, result.symbols == nil)
}

func TestPipelineCollectErrorGatesResolution(t *testing.T) {
	// The unresolvable "?" sequence never reaches the resolver because the
	// redeclaration stops the pipeline first.
	result := runPipeline("let x = 1;\nlet x = 2;\nlet y = a ? b;")
	be.True(t, len(result.diagnostics) > 0)
	be.Equal(t, len(result.diagnostics), 1)
	be.Equal(t, result.diagnostics[0].Message, "Variable 'x' already defined in current scope")
}

func TestPipelineResolverErrors(t *testing.T) {
	result := runPipeline("let x = 1 <!> 2;")
	be.True(t, len(result.diagnostics) > 0)
	be.Equal(t, result.diagnostics[0].Message,
		"Operator '<!>' cannot be used as infix operator")
}

func TestPipelineCollectsMultipleParseErrors(t *testing.T) {
	result := runPipeline("let = 1;\nfunc (x: i32);\nlet ok = 3;")
	be.Equal(t, len(result.diagnostics), 2)
	be.Equal(t, result.diagnostics[0].Message, "Expected identifier after 'let'")
	be.Equal(t, result.diagnostics[1].Message, "Expected function name after 'func'")
}

func TestPipelineWhileAndAssignment(t *testing.T) {
	source := `
func countdown(n: i32) {
    while n > 0 {
        n = n - 1;
    }
}
`
	result := runPipeline(source)
	be.Equal(t, len(result.diagnostics), 0)
	be.True(t, strings.Contains(programDump(result.stmts),
		"(while (binary \">\" (ident \"n\") (integer 0)) "+
			"(block (expr (binary \"=\" (ident \"n\") (binary \"-\" (ident \"n\") (integer 1))))))"))
}

func TestPipelinePreludeSymbolsVisible(t *testing.T) {
	result := runPipeline("let n = write(1, \"hi\", 2);")
	be.Equal(t, len(result.diagnostics), 0)

	sigs := result.symbols.Globals().FindFunctions("write")
	be.Equal(t, len(sigs), 1)
	be.Equal(t, sigs[0].Origin, OriginPrelude)
}
