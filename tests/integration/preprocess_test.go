//go:build integration

package integration

import (
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getProjectRoot returns the path to the lambdapp project root
func getProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	// tests/integration/preprocess_test.go -> project root
	return filepath.Join(filepath.Dir(filename), "..", "..")
}

func buildPreprocessor(t *testing.T) string {
	t.Helper()
	projectRoot := getProjectRoot()

	buildCmd := exec.Command("go", "build", "-o", "dist/lambda-pp", "./cmd/lambda-pp")
	buildCmd.Dir = projectRoot
	output, err := buildCmd.CombinedOutput()
	require.NoError(t, err, "build failed: %s", string(output))

	return filepath.Join(projectRoot, "dist", "lambda-pp")
}

func runPreprocessor(t *testing.T, bin string, args ...string) string {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = filepath.Dir(bin)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "lambda-pp failed: %s", string(output))
	return string(output)
}

func testdata(name string) string {
	return filepath.Join(getProjectRoot(), "tests", "integration", "testdata", name)
}

func TestPreprocessIntegration_Basic(t *testing.T) {
	bin := buildPreprocessor(t)
	out := runPreprocessor(t, bin, testdata("basic.l.c"))

	assert.True(t, strings.HasPrefix(out, "# 1 "))
	assert.Contains(t, out, "static void lambda_0(int i);")
	assert.Contains(t, out, "use((&lambda_0)")
	assert.Contains(t, out, "static void lambda_0(int i)\n#line 4\n{")
	assert.NotContains(t, out, "lambda void")
}

func TestPreprocessIntegration_Nested(t *testing.T) {
	bin := buildPreprocessor(t)
	out := runPreprocessor(t, bin, testdata("nested.l.c"))

	for _, n := range []string{"lambda_0", "lambda_1", "lambda_2", "lambda_3"} {
		assert.Equal(t, 1, strings.Count(out, "static void "+n+"(int i);"), n)
		assert.Equal(t, 1, strings.Count(out, "(&"+n+")"), n)
	}
	assert.NotContains(t, out, "lambda void")

	// Rewriting must keep the token stream balanced.
	assert.Equal(t, strings.Count(out, "{"), strings.Count(out, "}"))
	assert.Equal(t, strings.Count(out, "("), strings.Count(out, ")"))
}

func TestPreprocessIntegration_CommentsAndShortForm(t *testing.T) {
	bin := buildPreprocessor(t)
	out := runPreprocessor(t, bin, testdata("comments.l.c"))

	// The occurrences in comments and the string literal survive untouched.
	assert.Contains(t, out, "// and so may line comments: lambda void(int) { }")
	assert.Contains(t, out, `"lambda void(int i) { inert(i); }"`)

	// Only the real one is hoisted, with the short body wrapped in braces.
	assert.Equal(t, 2, strings.Count(out, "static void lambda_0(int i)"))
	assert.Contains(t, out, "{ print(i);}")
	assert.Contains(t, out, "use((&lambda_0));")
}

func TestPreprocessIntegration_Stdin(t *testing.T) {
	bin := buildPreprocessor(t)

	cmd := exec.Command(bin, "-")
	cmd.Stdin = strings.NewReader("int main(void) {\n  use(lambda void(int i) { f(i); });\n}\n")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "lambda-pp failed: %s", string(output))

	out := string(output)
	assert.True(t, strings.HasPrefix(out, "# 1 \"<stdin>\"\n"))
	assert.Contains(t, out, "(&lambda_0)")
}

func TestPreprocessIntegration_ParseErrorExitCode(t *testing.T) {
	bin := buildPreprocessor(t)

	cmd := exec.Command(bin, "-")
	cmd.Stdin = strings.NewReader("int main(void) {")
	output, err := cmd.CombinedOutput()
	require.Error(t, err)
	assert.Contains(t, string(output), "<stdin>:1")
	assert.Contains(t, string(output), "error:")
	assert.Contains(t, string(output), "expecting `}'")
}
