package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckScopes(t *testing.T) {
	testData := []struct {
		fileContent string
		expected    []string
	}{
		{
			fileContent: `
class A {
  int x;
  void set(int v) { x = v; }
  static int twice(int v) { return v * 2; }
  static void main(string[] args) {
    A a = new A();
    a.set(A.twice(3));
    int[] arr = new int[10];
    arr[0] = arr.length;
  }
}`,
		},
		{
			fileContent: `class A { static void main(string[] args) { y = 1; } }`,
			expected:    []string{"Couldn't find a symbol with name: y"},
		},
		{
			fileContent: `class A { int x; static void f() { x = 1; } }`,
			expected:    []string{"Trying to reference a non-static class member 'x'"},
		},
		{
			fileContent: `class A { void g() {} static void f() { g(); } }`,
			expected:    []string{"Trying to reference a non-static class member 'g'"},
		},
		{
			fileContent: `class A { int x; static void f() { { while (true) { x = 1; } } } }`,
			expected:    []string{"Trying to reference a non-static class member 'x'"},
		},
		{
			fileContent: `class A { Foo f; }`,
			expected:    []string{"Couldn't find a symbol with name: Foo"},
		},
		{
			fileContent: `class A { void g() {} void f() { int y = g; } }`,
			expected:    []string{"Symbol 'g' is not of kind 'Local variable' or 'Parameter' or 'Field'"},
		},
		{
			fileContent: `class A { int g; void f() { g(); } }`,
			expected:    []string{"Symbol 'g' is not of kind 'Virtual method' or 'Static method'"},
		},
		{
			fileContent: `class A { void g() {} static void f() { A.g(); } }`,
			expected:    []string{"Symbol 'g' is not of kind 'Static method'"},
		},
		{
			fileContent: `class A { static void f() { A.h(); } }`,
			expected:    []string{"Couldn't find a symbol with name: A.h"},
		},
		{
			fileContent: `class A { static void f() { B.g(); } }`,
			expected:    []string{"Couldn't find a symbol with name: B"},
		},
		{
			fileContent: `class A { void f() { A[] a = new B[3]; Object o = new C(); } }`,
			expected: []string{
				"Couldn't find a symbol with name: B",
				"Couldn't find a symbol with name: Object",
				"Couldn't find a symbol with name: C",
			},
		},
		{
			fileContent: `class A { void f() { { int y; } y = 1; } }`,
			expected:    []string{"Couldn't find a symbol with name: y"},
		},
		{
			fileContent: `class A { int x; static void f() { int x; x = 1; } }`,
		},
		{
			fileContent: `class A { int x; } class B extends A { void f() { x = 1; } }`,
		},
		{
			fileContent: `class A { static void s() {} } class B extends A { static void f() { B.s(); } }`,
		},
		{
			fileContent: `class A { void f(int p) { int q = p + this.x; } }`,
		},
	}
	for _, data := range testData {
		analysis := analyzeSource(t, data.fileContent)
		assertMessages(t, data.expected, analysis.ScopeErrors, data.fileContent)
	}
}

func TestCheckScopes_FieldHiding(t *testing.T) {
	src := `class A { int x; void m() {} }
class B extends A { int x; }
class C extends B { string m; }`
	analysis := analyzeSource(t, src)
	assertMessages(t, []string{
		"Field 'x' hides base class member field 'x'",
		"Field 'm' hides base class member virtual method 'm'",
	}, analysis.ScopeErrors)
	for _, e := range analysis.ScopeErrors {
		assert.True(t, e.IsWarning())
	}
	assert.Equal(t, 2, analysis.ScopeErrors[0].Line)
	assert.False(t, countErrors(analysis.ScopeErrors) > 0)
}

func TestCheckScopes_Lines(t *testing.T) {
	src := `class A {
  static void f() {
    int a = 1;
    b = a;
  }
}`
	analysis := analyzeSource(t, src)
	assertMessages(t, []string{"Couldn't find a symbol with name: b"}, analysis.ScopeErrors)
	assert.Equal(t, 4, analysis.ScopeErrors[0].Line)
	assert.Equal(t, "b", analysis.ScopeErrors[0].Name)
}
