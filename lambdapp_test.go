package lambdapp

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSrc = `void use(void (*f)(int));

int main(void) {
  use(lambda void(int i) { print(i); });
  return 0;
}
`

func TestProcess(t *testing.T) {
	var out bytes.Buffer
	err := New().Process("sample.c", []byte(sampleSrc), &out)
	require.NoError(t, err)

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "# 1 \"sample.c\"\n"))
	assert.Contains(t, got, "static void lambda_0(int i);")
	assert.Contains(t, got, "use((&lambda_0));")
	assert.Contains(t, got, "static void lambda_0(int i)\n#line 4\n{ print(i); }")
	assert.NotContains(t, got, "lambda void")
}

func TestProcessParseErrorWritesNothing(t *testing.T) {
	var out bytes.Buffer
	err := New().Process("bad.c", []byte("int main(void) {"), &out)
	require.Error(t, err)
	assert.Zero(t, out.Len(), "failed runs must not produce partial output")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "bad.c", perr.File)
	assert.Equal(t, 1, perr.Line)
}

func TestProcessWithKeyword(t *testing.T) {
	src := strings.ReplaceAll(sampleSrc, "lambda void", "fn void")

	var out bytes.Buffer
	require.NoError(t, New(WithKeyword("fn")).Process("sample.c", []byte(src), &out))
	assert.Contains(t, out.String(), "use((&lambda_0));")

	// With the default keyword the same input passes through untouched.
	out.Reset()
	require.NoError(t, New().Process("sample.c", []byte(src), &out))
	assert.Contains(t, out.String(), "fn void(int i)")
	assert.NotContains(t, out.String(), "lambda_0")
}

func TestProcessShortSyntaxDisabled(t *testing.T) {
	src := "int main(void) {\n  use(lambda void(int x) => print(x););\n}\n"

	var out bytes.Buffer
	require.NoError(t, New().Process("s.c", []byte(src), &out))
	assert.Contains(t, out.String(), "(&lambda_0)")

	out.Reset()
	err := New(WithShortSyntax(false)).Process("s.c", []byte(src), &out)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestProcessDeterministic(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, New().Process("sample.c", []byte(sampleSrc), &first))
	require.NoError(t, New().Process("sample.c", []byte(sampleSrc), &second))
	assert.Equal(t, first.String(), second.String())
}

func TestProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.c")
	require.NoError(t, os.WriteFile(path, []byte(sampleSrc), 0o644))

	var out bytes.Buffer
	require.NoError(t, New().ProcessFile(path, &out))
	assert.True(t, strings.HasPrefix(out.String(), "# 1 "+`"`+path+`"`+"\n"))
	assert.Contains(t, out.String(), "(&lambda_0)")
}

func TestProcessFileMissing(t *testing.T) {
	err := New().ProcessFile(filepath.Join(t.TempDir(), "missing.c"), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
