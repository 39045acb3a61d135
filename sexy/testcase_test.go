package sexy

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func TestExtractTestCases_BasicTest(t *testing.T) {
	markdown := `# Expressions

## Test: not input
` + fence + `knot-expr
not input()
` + fence + `
` + fence + `ast
(not (input))
` + fence + `

## Test: literal
` + fence + `knot-expr
true
` + fence + `
` + fence + `target
[,*]
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	tc1 := testCases[0]
	be.Equal(t, tc1.Name, "not input")
	be.Equal(t, tc1.Input, "not input()")
	be.Equal(t, tc1.InputType, InputTypeKnotExpr)
	be.Equal(t, len(tc1.Assertions), 1)
	be.Equal(t, tc1.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc1.Assertions[0].Content, "(not (input))")
	be.Equal(t, tc1.Assertions[0].ParsedSexy.String(), "(not (input))")

	tc2 := testCases[1]
	be.Equal(t, tc2.Name, "literal")
	be.Equal(t, tc2.Input, "true")
	be.Equal(t, tc2.Assertions[0].Type, AssertionTypeTarget)
	be.Equal(t, tc2.Assertions[0].Content, "[,*]")
	be.True(t, tc2.Assertions[0].ParsedSexy == nil)
}

func TestExtractTestCases_MultipleAssertions(t *testing.T) {
	markdown := `## Test: declare and output
` + fence + `knot-program
binary b = input();
output(b);
` + fence + `
` + fence + `ast
(program (binary "b" (input)) (output (ident "b")))
` + fence + `
` + fence + `target
>0+0-+<
` + fence + `
` + fence + `indices
(indices (binary "b" 0))
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, tc.InputType, InputTypeKnotProgram)
	be.Equal(t, tc.Input, "binary b = input();\noutput(b);")
	be.Equal(t, len(tc.Assertions), 3)
	be.Equal(t, tc.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc.Assertions[1].Type, AssertionTypeTarget)
	be.Equal(t, tc.Assertions[1].Content, ">0+0-+<")
	be.Equal(t, tc.Assertions[2].Type, AssertionTypeIndices)
	be.Equal(t, tc.Assertions[2].ParsedSexy.String(), `(indices (binary "b" 0))`)
}

func TestExtractTestCases_CompileErrorIsNotParsed(t *testing.T) {
	markdown := `## Test: undeclared
` + fence + `knot-program
output(x);
` + fence + `
` + fence + `compile-error
name x is not declared
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, testCases[0].Assertions[0].Type, AssertionTypeCompileError)
	be.Equal(t, testCases[0].Assertions[0].Content, "name x is not declared")
	be.True(t, testCases[0].Assertions[0].ParsedSexy == nil)
}

func TestExtractTestCases_EmptyTargetAllowed(t *testing.T) {
	markdown := `## Test: stack emits nothing
` + fence + `knot-program
stack s;
` + fence + `
` + fence + `target
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, testCases[0].Assertions[0].Content, "")
}

func TestExtractTestCases_EmptyFile(t *testing.T) {
	testCases, err := ExtractTestCases("")
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_NoTestCases(t *testing.T) {
	markdown := `# Just prose

Some text about Brainknot.

## Not a test heading
`
	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_InvalidSexyAssertion(t *testing.T) {
	markdown := `## Test: broken
` + fence + `knot-expr
true
` + fence + `
` + fence + `ast
(boolean true
` + fence

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "failed to parse Sexy assertion"))
	be.True(t, strings.Contains(err.Error(), "line"))
}

func TestExtractTestCases_FenceOutsideTestCase(t *testing.T) {
	for _, fenceType := range []string{"knot-program", "knot-expr", "ast", "target", "compile-error", "indices"} {
		t.Run(fenceType, func(t *testing.T) {
			markdown := "# Header\n\n" + fence + fenceType + "\ncontent\n" + fence + "\n"
			_, err := ExtractTestCases(markdown)
			be.True(t, err != nil)
			be.True(t, strings.Contains(err.Error(), fenceType+" fence found outside of test case"))
			be.True(t, strings.Contains(err.Error(), "line 4"))
		})
	}
}

func TestExtractTestCases_UnknownFenceOutsideTest(t *testing.T) {
	markdown := fence + "go\nfunc main() {}\n" + fence + "\n"
	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "unknown fence language 'go' found outside of test case"))
}

func TestExtractTestCases_UnknownFenceInTest(t *testing.T) {
	markdown := `## Test: shell
` + fence + `knot-expr
input()
` + fence + `
` + fence + `shell
echo hi
` + fence

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "unknown fence language 'shell'"))
	be.True(t, strings.Contains(err.Error(), "line"))
}

func TestExtractTestCases_TestMissingInputFence(t *testing.T) {
	markdown := `## Test: no input
` + fence + `target
<
` + fence

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "test 'no input' has no input fence"))
}

func TestExtractTestCases_TestMissingAssertionFence(t *testing.T) {
	markdown := `## Test: no assertions
` + fence + `knot-program
stack s;
` + fence

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "test 'no assertions' has no assertion fences"))
}

func TestExtractTestCases_MultipleInputFences(t *testing.T) {
	markdown := `## Test: twice
` + fence + `knot-program
stack a;
` + fence + `
` + fence + `knot-expr
true
` + fence + `
` + fence + `target
` + fence

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "multiple input fences found in test 'twice'"))
}

func TestExtractTestCases_ErrorInSecondTest(t *testing.T) {
	markdown := `## Test: first
` + fence + `knot-expr
true
` + fence + `
` + fence + `target
[,*]
` + fence + `

## Test: second test missing input
` + fence + `target
[*]
` + fence

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "test 'second test missing input' has no input fence"))
}

func TestExtractTestCases_AllowFencesWithoutLanguage(t *testing.T) {
	markdown := `Example output:

` + fence + `
main:([,*]<)
` + fence + `

## Test: plain fence inside a test
` + fence + `knot-expr
false
` + fence + `
` + fence + `
notes
` + fence + `
` + fence + `target
[*]
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, len(testCases[0].Assertions), 1)
}
