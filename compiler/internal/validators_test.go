package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEntryPoint(t *testing.T) {
	testData := []struct {
		fileContent string
		expected    string
		line        int
	}{
		{fileContent: `class A { static void main(string[] args) {} }`},
		{
			fileContent: `class A { void main(string[] args) {} }`,
			expected:    "Main function wasn't found in any of the classes.",
			line:        1,
		},
		{
			fileContent: `class A { static int main(string[] args) { return 0; } static void main(string args) {} }`,
			expected:    "Main function wasn't found in any of the classes.",
			line:        1,
		},
		{
			fileContent: `class A { static void main(string[][] args) {} static void main(string[] a, int b) {} }`,
			expected:    "Main function wasn't found in any of the classes.",
			line:        1,
		},
		{
			fileContent: `class A { static void run(string[] args) {} }`,
			expected:    "Main function wasn't found in any of the classes.",
			line:        1,
		},
		{
			fileContent: "class A {\n static void main(string[] args) {}\n}\nclass B {\n static void main(string[] argv) {}\n}",
			expected:    "More than one class has 'main' function: class A, class B",
			line:        5,
		},
		{
			fileContent: "class A {\n static void main(string[] args) {}\n static void main(string[] args) {}\n}",
		},
	}
	for _, data := range testData {
		err := ValidateEntryPoint(parseSource(t, data.fileContent))
		if data.expected == "" {
			assert.Nil(t, err, data.fileContent)
			continue
		}
		if assert.NotNil(t, err, data.fileContent) {
			assert.Equal(t, data.expected, err.Message)
			assert.Equal(t, data.line, err.Line, data.fileContent)
		}
	}
}

func TestValidateEntryPoint_LibraryMethod(t *testing.T) {
	program := parseSource(t, `class A { void f() {} }`)
	program.Classes = append(program.Classes, &ClassAst{
		Name: "Library",
		Methods: []*MethodAst{{
			Kind:       LibraryMethodKind,
			Name:       "main",
			ReturnType: &TypeAst{Primitive: VoidPrimitive},
			Formals:    []*FormalAst{{Type: &TypeAst{Primitive: StringPrimitive, Dimension: 1}, Name: "args"}},
		}},
	})
	assert.NotNil(t, ValidateEntryPoint(program))
}

func TestValidateContext(t *testing.T) {
	testData := []struct {
		fileContent string
		expected    []string
	}{
		{
			fileContent: `class A { void f() { while (true) { if (true) break; else continue; } } }`,
		},
		{
			fileContent: `class A { void f() { while (true) break; } }`,
		},
		{
			fileContent: `class A { void f() { while (true) { { while (false) {} break; } } } }`,
		},
		{
			fileContent: `class A { void f() { break; } }`,
			expected:    []string{"'break' not inside 'while'"},
		},
		{
			fileContent: `class A { void f() { if (true) { continue; } } }`,
			expected:    []string{"'continue' not inside 'while'"},
		},
		{
			fileContent: `class A { void f() { while (true) {} break; continue; } }`,
			expected:    []string{"'break' not inside 'while'", "'continue' not inside 'while'"},
		},
		{
			fileContent: `class A { int x; void f() { int y = this.x; this.f(); } }`,
		},
		{
			fileContent: `class A { int x; static void f() { int y = this.x; } }`,
			expected:    []string{"'this' not inside an instance method"},
		},
		{
			fileContent: `class A { static void f() { while (this.g()) { A.h(this); } } void g() {} static void h(A a) {} }`,
			expected:    []string{"'this' not inside an instance method", "'this' not inside an instance method"},
		},
	}
	for _, data := range testData {
		program := parseSource(t, data.fileContent)
		diagnostics := &Diagnostics{}
		ValidateContext(program, diagnostics)
		assertMessages(t, data.expected, diagnostics.Errors(), data.fileContent)
	}
}

func TestValidateContext_Lines(t *testing.T) {
	src := "class A {\n  static void f() {\n    while (true) {}\n    break;\n  }\n}"
	diagnostics := &Diagnostics{}
	ValidateContext(parseSource(t, src), diagnostics)
	assertMessages(t, []string{"'break' not inside 'while'"}, diagnostics.Errors())
	assert.Equal(t, 4, diagnostics.Errors()[0].Line)
}
