package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyze_AllPasses(t *testing.T) {
	src := `class A {
  int x;
  int x;
  void f() { y = 1; int z = true; break; }
}`
	analysis := analyzeSource(t, src)
	assertMessages(t, []string{"A symbol with this name already exists in this scope: x"}, analysis.BuilderErrors)
	assertMessages(t, []string{"Couldn't find a symbol with name: y"}, analysis.ScopeErrors)
	assertMessages(t, []string{"Can't initialize variable 'z' of type 'int' with a value of type 'boolean'"}, analysis.TypeErrors)
	require.NotNil(t, analysis.EntryPointError)
	assert.Equal(t, "Main function wasn't found in any of the classes.", analysis.EntryPointError.Message)
	assertMessages(t, []string{"'break' not inside 'while'"}, analysis.ContextErrors)
	assert.Empty(t, analysis.Skipped)
	assert.Len(t, analysis.Errors(), 5)
	assert.True(t, analysis.HasErrors())
}

func TestAnalyze_StopAtFirstFailingPass(t *testing.T) {
	testData := []struct {
		fileContent string
		skipped     []string
	}{
		{
			fileContent: `class A { int x; int x; static void main(string[] args) {} }`,
			skipped:     []string{passScope, passType, passEntryPoint, passContext},
		},
		{
			fileContent: `class A { static void main(string[] args) { y = 1; } }`,
			skipped:     []string{passType, passEntryPoint, passContext},
		},
		{
			fileContent: `class A { static void main(string[] args) { int y = true; } }`,
			skipped:     []string{passEntryPoint, passContext},
		},
		{
			fileContent: `class A { static void run(string[] args) { break; } }`,
			skipped:     []string{passContext},
		},
		{
			fileContent: `class A { static void main(string[] args) { break; } }`,
		},
		{
			// Warnings don't stop the analysis.
			fileContent: `class A { int x; } class B extends A { int x; static void main(string[] args) {} }`,
		},
	}
	for _, data := range testData {
		analysis := Analyze(parseSource(t, data.fileContent), true)
		assert.Equal(t, data.skipped, analysis.Skipped, data.fileContent)
	}
}

func TestCompile(t *testing.T) {
	dir := t.TempDir()
	library := writeFile(t, dir, "libic.sig", "class Library {\n  static void println(string s);\n  static int stoi(string s, int n);\n}")
	path := writeFile(t, dir, "prog.ic", `class Hello {
  static void main(string[] args) {
    Library.println("hi");
    int n = Library.stoi(args[0], 0);
  }
}`)

	cfg := DefaultConfig()
	cfg.Library = library
	cfg.DumpSymtab = true
	var out bytes.Buffer
	report, err := Compile(path, cfg, &out)
	require.Nil(t, err)
	assert.False(t, report.HasErrors())
	assert.Equal(t, "prog.ic", report.Program)
	assert.Contains(t, out.String(), "Global Symbol Table: prog.ic\n    Class: Library\n    Class: Hello\n")
	assert.Contains(t, out.String(), "Static method: println {string -> void}")
	assert.Contains(t, out.String(), "Type Table: prog.ic\n")
	assert.Contains(t, out.String(), "prog.ic: 0 error(s), 0 warning(s)\n")

	cfg = DefaultConfig()
	out.Reset()
	report, err = Compile(path, cfg, &out)
	require.Nil(t, err)
	assert.True(t, report.HasErrors())
	assert.Contains(t, out.String(), "semantic error at line 3: Couldn't find a symbol with name: Library\n")
	assert.Contains(t, out.String(), "Line 3:     Library.println(\"hi\");\n")
}

func TestCompile_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "prog.ic", "class A {\n  void f() { break; }\n}")
	cfg := DefaultConfig()
	cfg.Format = FormatYAML
	cfg.StopAtFirstFailingPass = true
	var out bytes.Buffer
	report, err := Compile(path, cfg, &out)
	require.Nil(t, err)
	assert.Equal(t, []string{passContext}, report.Skipped)
	assert.Contains(t, out.String(), "program: prog.ic\n")
	assert.Contains(t, out.String(), "pass: entry point")
	assert.NotContains(t, out.String(), "'break' not inside 'while'")
}

func TestCompile_Errors(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	var out bytes.Buffer

	_, err := Compile(writeFile(t, dir, "prog.txt", "class A {}"), cfg, &out)
	assert.NotNil(t, err)

	_, err = Compile(filepath.Join(dir, "missing.ic"), cfg, &out)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Compile(writeFile(t, dir, "bad.ic", "class A { int x }"), cfg, &out)
	if assert.NotNil(t, err) {
		assert.Contains(t, err.Error(), "syntax error")
	}

	cfg.Library = filepath.Join(dir, "missing.sig")
	_, err = Compile(writeFile(t, dir, "ok.ic", "class A {}"), cfg, &out)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, out.String())
}
