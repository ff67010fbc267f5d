package main

import (
	"bytes"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tarantula "github.com/MatthewKosloski/truncated-tarantula"
)

// testApp builds an app over an in-memory filesystem with the given script
// files, capturing program output and diagnostics separately.
func testApp(t *testing.T, files map[string]string) (*app, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, src := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(src), 0o644))
	}

	var out, errOut bytes.Buffer
	return &app{
		fs:     fs,
		out:    &out,
		errOut: &errOut,
		log:    slogt.New(t),
	}, &out, &errOut
}

func Test_RunFile_OK(t *testing.T) {
	a, out, errOut := testApp(t, map[string]string{
		"script.tt": `(println (+ 1 2 3)) (println (// 22 8))`,
	})

	code := a.runFile("script.tt")

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "6\n2\n", out.String())
	assert.Empty(t, errOut.String())
}

func Test_RunFile_Unreadable(t *testing.T) {
	a, out, errOut := testApp(t, nil)

	code := a.runFile("missing.tt")

	assert.Equal(t, exitNoInput, code)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "cannot read missing.tt")
}

func Test_RunFile_LexicalError(t *testing.T) {
	a, _, errOut := testApp(t, map[string]string{
		"script.tt": `(print "oops`,
	})

	code := a.runFile("script.tt")

	assert.Equal(t, exitSyntax, code)
	assert.Contains(t, errOut.String(),
		"script.tt:1:8: LexicalError: Unterminated string starting at ln 1, col 8")
}

func Test_RunFile_ParseError(t *testing.T) {
	a, _, errOut := testApp(t, map[string]string{
		"script.tt": "(+ 1 2",
	})

	code := a.runFile("script.tt")

	assert.Equal(t, exitSyntax, code)
	// The error is attributed to the end-of-input token, one column past
	// the last character.
	assert.Equal(t,
		"script.tt:1:7: ParseError: Expression '+' is missing a closing ')'\n"+
			"\n"+
			"\t\"(+ 1 2\"\n"+
			"\t       ^\n",
		errOut.String())
}

func Test_RunFile_RuntimeError(t *testing.T) {
	a, out, errOut := testApp(t, map[string]string{
		"script.tt": `(print "before") (/ 1 0)`,
	})

	code := a.runFile("script.tt")

	assert.Equal(t, exitRuntime, code)
	// Output written before the failure is kept.
	assert.Equal(t, "before", out.String())
	assert.Contains(t, errOut.String(),
		"script.tt:1:19: RuntimeError: Cannot divide by zero")
}

func Test_RunFile_DiagnosticQuotesOffendingLine(t *testing.T) {
	a, _, errOut := testApp(t, map[string]string{
		"script.tt": "(print 1)\n(/ 1 0)\n",
	})

	code := a.runFile("script.tt")

	assert.Equal(t, exitRuntime, code)
	assert.Equal(t,
		"script.tt:2:2: RuntimeError: Cannot divide by zero\n"+
			"\n"+
			"\t\"(/ 1 0)\"\n"+
			"\t  ^\n",
		errOut.String())
}

func Test_RunFile_UsesBaseNameInDiagnostics(t *testing.T) {
	a, _, errOut := testApp(t, map[string]string{
		"some/deep/dir/script.tt": "(/ 1 0)",
	})

	code := a.runFile("some/deep/dir/script.tt")

	assert.Equal(t, exitRuntime, code)
	assert.Contains(t, errOut.String(), "script.tt:1:2: RuntimeError:")
	assert.NotContains(t, errOut.String(), "some/deep/dir")
}

func Test_Run_InteractiveDiagnosticOmitsFilename(t *testing.T) {
	a, _, errOut := testApp(t, nil)
	ip := tarantula.NewInterpreter(a.out)

	code := a.run(ip, "(/ 1 0)", "")

	assert.Equal(t, exitRuntime, code)
	assert.Equal(t,
		"2: RuntimeError: Cannot divide by zero\n"+
			"\n"+
			"\t\"(/ 1 0)\"\n"+
			"\t  ^\n",
		errOut.String())
}

func Test_Run_GlobalScopePersistsAcrossLines(t *testing.T) {
	// The prompt loop reuses one interpreter; a failed line leaves the
	// session usable.
	a, out, _ := testApp(t, nil)
	ip := tarantula.NewInterpreter(a.out)

	assert.Equal(t, exitOK, a.run(ip, `(println "one")`, ""))
	assert.Equal(t, exitRuntime, a.run(ip, "(/ 1 0)", ""))
	assert.Equal(t, exitOK, a.run(ip, `(println "two")`, ""))

	assert.Equal(t, "one\ntwo\n", out.String())
}
