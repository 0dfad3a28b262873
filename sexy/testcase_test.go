package sexy

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestExtractTestCases_BasicTest(t *testing.T) {
	markdown := `# Binary expressions

## Test: addition
` + "```pec-expr" + `
1 + 2
` + "```" + `
` + "```resolved-ast" + `
(binary "+" (integer 1) (integer 2))
` + "```" + `

## Test: subtraction
` + "```pec-expr" + `
1 - 2
` + "```" + `
` + "```resolved-ast" + `
(binary "-" (integer 1) (integer 2))
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	tc1 := testCases[0]
	be.Equal(t, tc1.Name, "addition")
	be.Equal(t, tc1.Input, "1 + 2")
	be.Equal(t, tc1.InputType, InputTypePecExpr)
	be.Equal(t, len(tc1.Assertions), 1)
	be.Equal(t, tc1.Assertions[0].Type, AssertionTypeResolvedAST)
	be.Equal(t, tc1.Assertions[0].Content, `(binary "+" (integer 1) (integer 2))`)
	be.Equal(t, len(tc1.Assertions[0].ParsedSexy), 1)
	be.Equal(t, tc1.Assertions[0].ParsedSexy[0].String(), `(binary "+" (integer 1) (integer 2))`)

	tc2 := testCases[1]
	be.Equal(t, tc2.Name, "subtraction")
	be.Equal(t, tc2.Input, "1 - 2")
	be.Equal(t, len(tc2.Assertions), 1)
	be.Equal(t, tc2.Assertions[0].ParsedSexy[0].String(), `(binary "-" (integer 1) (integer 2))`)
}

func TestExtractTestCases_MultipleAssertions(t *testing.T) {
	markdown := `## Test: flat and resolved
` + "```pec-expr" + `
x + y
` + "```" + `
` + "```ast" + `
(opseq (ident "x") (op "+") (ident "y"))
` + "```" + `
` + "```resolved-ast" + `
(binary "+" (ident "x") (ident "y"))
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, tc.Name, "flat and resolved")
	be.Equal(t, len(tc.Assertions), 2)
	be.Equal(t, tc.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc.Assertions[1].Type, AssertionTypeResolvedAST)
}

func TestExtractTestCases_ProgramInput(t *testing.T) {
	markdown := `## Test: pec-program input
` + "```pec-program" + `
let x = 42;
` + "```" + `
` + "```ast" + `
(let "x" (integer 42))
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, tc.InputType, InputTypePecProgram)
	be.Equal(t, tc.Input, "let x = 42;")
}

func TestExtractTestCases_ErrorAssertionNotParsed(t *testing.T) {
	markdown := `## Test: bad prefix
` + "```pec-expr" + `
* 5
` + "```" + `
` + "```error" + `
cannot be used as prefix operator here
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, len(tc.Assertions), 1)
	be.Equal(t, tc.Assertions[0].Type, AssertionTypeError)
	be.Equal(t, tc.Assertions[0].Content, "cannot be used as prefix operator here")
	be.Equal(t, len(tc.Assertions[0].ParsedSexy), 0)
}

func TestExtractTestCases_MultiStatementAssertion(t *testing.T) {
	markdown := `## Test: two statements
` + "```pec-program" + `
let x = 1;
x;
` + "```" + `
` + "```ast" + `
(let "x" (integer 1))
(expr (ident "x"))
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, len(testCases[0].Assertions[0].ParsedSexy), 2)
}

func TestExtractTestCases_MissingInput(t *testing.T) {
	markdown := `## Test: no input
` + "```ast" + `
(integer 1)
` + "```"

	_, err := ExtractTestCases(markdown)
	if err == nil || !strings.Contains(err.Error(), "has no input fence") {
		t.Errorf("expected missing input error, got %v", err)
	}
}

func TestExtractTestCases_MissingAssertions(t *testing.T) {
	markdown := `## Test: no assertions
` + "```pec-expr" + `
1 + 2
` + "```"

	_, err := ExtractTestCases(markdown)
	if err == nil || !strings.Contains(err.Error(), "has no assertion fences") {
		t.Errorf("expected missing assertion error, got %v", err)
	}
}

func TestExtractTestCases_UnknownFence(t *testing.T) {
	markdown := `## Test: unknown fence
` + "```pec-expr" + `
1 + 2
` + "```" + `
` + "```wasm" + `
whatever
` + "```"

	_, err := ExtractTestCases(markdown)
	if err == nil || !strings.Contains(err.Error(), "unknown fence language") {
		t.Errorf("expected unknown fence error, got %v", err)
	}
}

func TestExtractTestCases_MultipleInputFences(t *testing.T) {
	markdown := `## Test: double input
` + "```pec-expr" + `
1
` + "```" + `
` + "```pec-expr" + `
2
` + "```" + `
` + "```ast" + `
(integer 1)
` + "```"

	_, err := ExtractTestCases(markdown)
	if err == nil || !strings.Contains(err.Error(), "multiple input fences") {
		t.Errorf("expected multiple input fence error, got %v", err)
	}
}

func TestExtractTestCases_FenceOutsideTest(t *testing.T) {
	markdown := "```pec-expr\n1 + 2\n```"

	_, err := ExtractTestCases(markdown)
	if err == nil || !strings.Contains(err.Error(), "outside of test case") {
		t.Errorf("expected outside-of-test error, got %v", err)
	}
}

func TestExtractTestCases_PlainFencesIgnored(t *testing.T) {
	markdown := `Some prose with an example:

` + "```" + `
not a test fence
` + "```" + `

## Test: real test
` + "```pec-expr" + `
1
` + "```" + `
` + "```ast" + `
(integer 1)
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
}
