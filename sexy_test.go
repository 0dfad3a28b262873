package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Pecco-314/pecco-lang/sexy"
	"github.com/nalgeon/be"
)

// TestSexyAllTests runs every markdown-driven test document under test/.
// Each document holds test cases with a pec-expr or pec-program input
// fence and ast / resolved-ast / error assertion fences.
func TestSexyAllTests(t *testing.T) {
	testFiles, err := filepath.Glob("test/*_test.md")
	be.Err(t, err, nil)

	for _, testFile := range testFiles {
		fileName := filepath.Base(testFile)
		testName := strings.TrimSuffix(fileName, ".md")

		t.Run(testName, func(t *testing.T) {
			content, err := os.ReadFile(testFile)
			be.Err(t, err, nil)

			testCases, err := sexy.ExtractTestCases(string(content))
			be.Err(t, err, nil)

			for _, tc := range testCases {
				t.Run(tc.Name, func(t *testing.T) {
					runSexyTestCase(t, tc)
				})
			}
		})
	}
}

func runSexyTestCase(t *testing.T, tc sexy.TestCase) {
	var diagnostics []string

	tokens := NewLexer(tc.Input).TokenizeAll()
	for _, tok := range tokens {
		if tok.Kind == TokenError {
			diagnostics = append(diagnostics, tok.Lexeme)
		}
	}

	var stmts []Stmt
	var expr Expr

	parser := NewParser(tokens)
	switch tc.InputType {
	case sexy.InputTypePecExpr:
		expr = parser.ParseExpression()
	case sexy.InputTypePecProgram:
		stmts = parser.ParseProgram()
	default:
		t.Fatalf("Unknown input type: %s", tc.InputType)
	}
	for _, diag := range parser.Errors.All() {
		diagnostics = append(diagnostics, diag.Message)
	}

	// Flat AST assertions run before resolution.
	for i, assertion := range tc.Assertions {
		if assertion.Type == sexy.AssertionTypeAST {
			assertSexyDump(t, dumpInput(expr, stmts), assertion, "assertion_"+string(rune('a'+i)))
		}
	}

	needsResolution := false
	for _, assertion := range tc.Assertions {
		if assertion.Type == sexy.AssertionTypeResolvedAST || assertion.Type == sexy.AssertionTypeError {
			needsResolution = true
		}
	}

	if needsResolution && len(diagnostics) == 0 {
		symbols := NewScopedSymbolTable()
		builder := NewSymbolTableBuilder()
		if !builder.LoadPreludeSource(DefaultPreludeSource(), symbols) {
			t.Fatalf("failed to load prelude: %s", builder.Errors.String())
		}
		builder.Collect(stmts, symbols)
		for _, diag := range builder.Errors.All() {
			diagnostics = append(diagnostics, diag.Message)
		}

		resolver := NewResolver(symbols.Globals())
		if expr != nil {
			expr = resolver.ResolveExpr(expr)
		}
		resolver.ResolveStmts(stmts)
		for _, diag := range resolver.Errors.All() {
			diagnostics = append(diagnostics, diag.Message)
		}
	}

	for i, assertion := range tc.Assertions {
		name := "assertion_" + string(rune('a'+i))
		switch assertion.Type {
		case sexy.AssertionTypeResolvedAST:
			if len(diagnostics) > 0 {
				t.Errorf("%s: unexpected diagnostics: %s", name, strings.Join(diagnostics, "; "))
				continue
			}
			assertSexyDump(t, dumpInput(expr, stmts), assertion, name)
		case sexy.AssertionTypeError:
			assertDiagnosticMatch(t, diagnostics, assertion.Content, name)
		}
	}
}

// dumpInput renders whichever of expr/stmts is populated, one s-expression
// per line.
func dumpInput(expr Expr, stmts []Stmt) string {
	if expr != nil {
		return ToSExpr(expr)
	}
	var lines []string
	for _, stmt := range stmts {
		lines = append(lines, StmtToSExpr(stmt))
	}
	return strings.Join(lines, "\n")
}

// assertSexyDump parses the dump back into Sexy nodes and matches them
// against the assertion's pattern datums, ellipsis wildcards included.
func assertSexyDump(t *testing.T, dump string, assertion sexy.Assertion, name string) {
	actual, err := sexy.ParseAll(dump)
	if err != nil {
		t.Errorf("%s: failed to parse dump %q: %v", name, dump, err)
		return
	}

	expected := assertion.ParsedSexy
	if len(expected) != len(actual) {
		t.Errorf("%s: expected %d top-level forms, got %d\ndump: %s", name, len(expected), len(actual), dump)
		return
	}

	for i := range expected {
		if err := sexy.Match(expected[i], actual[i]); err != nil {
			t.Errorf("%s: form %d: %v\ndump: %s", name, i, err, dump)
		}
	}
}

func assertDiagnosticMatch(t *testing.T, diagnostics []string, want, name string) {
	for _, diag := range diagnostics {
		if strings.Contains(diag, want) {
			return
		}
	}
	t.Errorf("%s: no diagnostic containing %q, got: %s", name, want, strings.Join(diagnostics, "; "))
}
