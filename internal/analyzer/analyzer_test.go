package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/nasalint/nasalint/internal/types"
)

func codesOf(diags []tt.Diagnostic) []string {
	codes := make([]string, 0, len(diags))
	for _, d := range diags {
		codes = append(codes, d.Code)
	}
	return codes
}

func TestAnalyzeForbiddenCalls(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{
			name:     "bare eval call",
			code:     "eval('1 + 1')\n",
			expected: 1,
		},
		{
			name:     "attribute call to forbidden name",
			code:     "import builtins\nbuiltins.eval('1')\n",
			expected: 1,
		},
		{
			name:     "one diagnostic per call site",
			code:     "eval('a')\nexec('b')\ncompile('c', '<s>', 'eval')\n",
			expected: 3,
		},
		{
			name:     "allowed calls are silent",
			code:     "print('hello')\nlen([1, 2])\n",
			expected: 0,
		},
		{
			name:     "forbidden name referenced but not called",
			code:     "f = eval\n",
			expected: 0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			diags := Analyze(tc.code)
			assert.Len(t, diags, tc.expected)
			for _, d := range diags {
				assert.Equal(t, tt.CodeForbiddenCall, d.Code)
				assert.Contains(t, d.Message, "forbidden API")
			}
		})
	}
}

func TestAnalyzeForbiddenCallRange(t *testing.T) {
	t.Parallel()
	diags := Analyze("eval('1 + 1')\n")
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, tt.CodeForbiddenCall, d.Code)
	assert.Equal(t, "Call to forbidden API 'eval' (restricted subset)", d.Message)
	// the range covers the call target, not the argument list
	assert.Equal(t, tt.Position{Line: 0, Character: 0}, d.Range.Start)
	assert.Equal(t, tt.Position{Line: 0, Character: 4}, d.Range.End)
}

func TestAnalyzeUnboundedLoop(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		code    string
		flagged bool
	}{
		{name: "while True", code: "while True:\n    pass\n", flagged: true},
		{name: "while False", code: "while False:\n    pass\n", flagged: false},
		{name: "non-constant condition", code: "x = 1\nwhile x:\n    x -= 1\n", flagged: false},
		{name: "for loop over range", code: "for i in range(10):\n    pass\n", flagged: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			diags := Analyze(tc.code)
			if !tc.flagged {
				assert.NotContains(t, codesOf(diags), tt.CodeUnboundedLoop)
				return
			}
			require.Len(t, diags, 1)
			assert.Equal(t, tt.CodeUnboundedLoop, diags[0].Code)
			assert.Equal(t, "Unbounded loop 'while True' (loops must be bounded)", diags[0].Message)
			assert.Equal(t, tt.Position{Line: 0, Character: 0}, diags[0].Range.Start)
		})
	}
}

func TestAnalyzeRecursion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		code      string
		recursive bool
	}{
		{
			name: "direct recursion",
			code: "def fact(n):\n" +
				"    assert n >= 0\n" +
				"    assert n < 100\n" +
				"    return fact(n - 1)\n",
			recursive: true,
		},
		{
			name: "mutual recursion is not detected",
			code: "def even(n):\n" +
				"    assert True\n" +
				"    assert True\n" +
				"    return odd(n - 1)\n" +
				"def odd(n):\n" +
				"    assert True\n" +
				"    assert True\n" +
				"    return even(n - 1)\n",
			recursive: false,
		},
		{
			name: "call to a nested function of the same name pattern",
			code: "def outer():\n" +
				"    assert True\n" +
				"    assert True\n" +
				"    def inner():\n" +
				"        assert True\n" +
				"        assert True\n" +
				"        outer()\n",
			recursive: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			diags := Analyze(tc.code)
			if tc.recursive {
				require.NotEmpty(t, diags)
				assert.Contains(t, codesOf(diags), tt.CodeRecursion)
			} else {
				assert.NotContains(t, codesOf(diags), tt.CodeRecursion)
			}
		})
	}
}

func TestAnalyzeFunctionLengthBoundary(t *testing.T) {
	t.Parallel()

	// funcWithBodyLines builds a def whose body spans exactly n lines, so
	// the definition runs from line 1 through line n+1.
	funcWithBodyLines := func(n int) string {
		return "def long_one():\n" + strings.Repeat("    assert True\n", n)
	}

	t.Run("59-line difference passes", func(t *testing.T) {
		t.Parallel()
		diags := Analyze(funcWithBodyLines(59))
		assert.NotContains(t, codesOf(diags), tt.CodeFuncLength)
	})

	t.Run("60-line difference is flagged", func(t *testing.T) {
		t.Parallel()
		diags := Analyze(funcWithBodyLines(60))
		require.Len(t, diags, 1)
		assert.Equal(t, tt.CodeFuncLength, diags[0].Code)
		assert.Equal(t,
			"Function 'long_one' longer than 60 lines (No function longer than 60 lines)",
			diags[0].Message)
		// anchored to the name on the def line
		assert.Equal(t, 0, diags[0].Range.Start.Line)
		assert.Equal(t, 4, diags[0].Range.Start.Character)
	})
}

func TestAnalyzeAssertCount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		code     string
		flagged  bool
		fragment string
	}{
		{
			name:     "zero asserts",
			code:     "def foo():\n    pass\n",
			flagged:  true,
			fragment: "only 0 assert(s)",
		},
		{
			name:     "one assert",
			code:     "def foo():\n    assert True\n",
			flagged:  true,
			fragment: "only 1 assert(s)",
		},
		{
			name:    "two asserts",
			code:    "def foo():\n    assert True\n    assert True\n",
			flagged: false,
		},
		{
			name: "asserts in a nested def do not count for the outer",
			code: "def outer():\n" +
				"    def inner():\n" +
				"        assert True\n" +
				"        assert True\n",
			flagged:  true,
			fragment: "Function 'outer'",
		},
		{
			name:    "module-level code is never checked for asserts",
			code:    "x = 1\ny = x + 1\n",
			flagged: false,
		},
		{
			name:    "lambda is not a function definition",
			code:    "f = lambda x: x + 1\n",
			flagged: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			diags := Analyze(tc.code)
			if !tc.flagged {
				assert.NotContains(t, codesOf(diags), tt.CodeAssertCount)
				return
			}
			require.NotEmpty(t, diags)
			found := false
			for _, d := range diags {
				if d.Code == tt.CodeAssertCount && strings.Contains(d.Message, tc.fragment) {
					found = true
				}
			}
			assert.True(t, found, "expected an assert-count diagnostic containing %q, got %v", tc.fragment, diags)
		})
	}
}

func TestAnalyzeAssertCountNameRange(t *testing.T) {
	t.Parallel()
	diags := Analyze("def foo():\n    pass\n")
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, tt.CodeAssertCount, d.Code)
	assert.Equal(t,
		"Function 'foo' has only 0 assert(s); expected at least 2 asserts (use assertions to detect impossible conditions)",
		d.Message)
	assert.Equal(t, tt.Position{Line: 0, Character: 4}, d.Range.Start)
	assert.Equal(t, tt.Position{Line: 0, Character: 7}, d.Range.End)
}

func TestAnalyzeAsyncFunction(t *testing.T) {
	t.Parallel()
	diags := Analyze("async def fetch():\n    pass\n")
	require.Len(t, diags, 1)
	assert.Equal(t, tt.CodeAssertCount, diags[0].Code)
	// name starts after "async def "
	assert.Equal(t, tt.Position{Line: 0, Character: 10}, diags[0].Range.Start)
}

func TestAnalyzeDecoratedFunction(t *testing.T) {
	t.Parallel()
	code := "@staticmethod\ndef foo():\n    pass\n"
	diags := Analyze(code)
	require.Len(t, diags, 1)
	assert.Equal(t, tt.CodeAssertCount, diags[0].Code)
	assert.Equal(t, 1, diags[0].Range.Start.Line)
}

func TestAnalyzeMethodsInsideClass(t *testing.T) {
	t.Parallel()
	code := "class Thing:\n" +
		"    def method(self):\n" +
		"        pass\n"
	diags := Analyze(code)
	require.Len(t, diags, 1)
	assert.Equal(t, tt.CodeAssertCount, diags[0].Code)
	assert.Contains(t, diags[0].Message, "'method'")
}

func TestAnalyzeMultipleViolations(t *testing.T) {
	t.Parallel()
	code := "def spin():\n" +
		"    while True:\n" +
		"        eval('tick()')\n"
	diags := Analyze(code)

	codes := codesOf(diags)
	assert.Contains(t, codes, tt.CodeAssertCount)
	assert.Contains(t, codes, tt.CodeUnboundedLoop)
	assert.Contains(t, codes, tt.CodeForbiddenCall)
	assert.Len(t, diags, 3)
}

func TestAnalyzeDocumentOrder(t *testing.T) {
	t.Parallel()
	code := "eval('a')\n" +
		"while True:\n" +
		"    pass\n" +
		"exec('b')\n"
	diags := Analyze(code)
	require.Len(t, diags, 3)

	assert.Equal(t, tt.CodeForbiddenCall, diags[0].Code)
	assert.Equal(t, tt.CodeUnboundedLoop, diags[1].Code)
	assert.Equal(t, tt.CodeForbiddenCall, diags[2].Code)

	for i := 1; i < len(diags); i++ {
		prev, cur := diags[i-1].Range.Start, diags[i].Range.Start
		assert.True(t, prev.Line < cur.Line ||
			(prev.Line == cur.Line && prev.Character <= cur.Character),
			"diagnostics out of document order at %d", i)
	}
}

func TestAnalyzeInvalidSource(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		code string
	}{
		{name: "unclosed paren", code: "def f(:\n    pass\n"},
		{name: "stray indent", code: "    x = (\n"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Empty(t, Analyze(tc.code))
		})
	}
}

func TestAnalyzeEmptySource(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Analyze(""))
	assert.Empty(t, Analyze("\n\n"))
}

func TestAnalyzeLargeCleanFile(t *testing.T) {
	t.Parallel()
	var b strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "def fn_%d(x):\n    assert x is not None\n    assert x >= 0\n    return x + %d\n", i, i)
	}
	assert.Empty(t, Analyze(b.String()))
}
