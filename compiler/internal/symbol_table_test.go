package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeTable_InsertAndLookup(t *testing.T) {
	global := NewGlobalScopeTable("test.ic")
	assert.Nil(t, global.Insert(NewSymbol("A", ClassSymbol, 6, 1)))
	err := global.Insert(NewSymbol("A", ClassSymbol, 6, 5))
	assert.EqualError(t, err, "A symbol with this name already exists in this scope: A")
	symbol, _ := global.LookupLocal("A")
	assert.Equal(t, 1, symbol.Line())

	class := global.AddChild(ClassScope, "A")
	assert.Nil(t, class.Insert(NewSymbol("x", FieldSymbol, 1, 2)))
	method := class.AddChild(MethodScope, "m")
	assert.Nil(t, method.Insert(NewSymbol("p", ParameterSymbol, 1, 3)))
	block := method.AddChild(BlockScope, "statement block in m")
	assert.Nil(t, block.Insert(NewSymbol("x", LocalVariableSymbol, 2, 4)))

	found, err := block.Lookup("x")
	assert.Nil(t, err)
	assert.Equal(t, LocalVariableSymbol, found.Kind())
	found, err = method.Lookup("x")
	assert.Nil(t, err)
	assert.Equal(t, FieldSymbol, found.Kind())
	found, err = block.Lookup("A")
	assert.Nil(t, err)
	assert.Equal(t, ClassSymbol, found.Kind())

	_, err = block.Lookup("missing")
	assert.EqualError(t, err, "Couldn't find a symbol with name: missing")
	_, err = class.Lookup("p")
	assert.NotNil(t, err)

	assert.Equal(t, []*ScopeTable{class}, global.Children())
	assert.Equal(t, method, block.EnclosingMethod())
	assert.Equal(t, class, block.EnclosingClass())
	assert.Nil(t, class.EnclosingMethod())
}

func TestScopeTable_Inheritance(t *testing.T) {
	global := NewGlobalScopeTable("test.ic")
	a := global.AddChild(ClassScope, "A")
	assert.Nil(t, a.Insert(NewSymbol("x", FieldSymbol, 1, 2)))
	assert.Nil(t, a.Insert(NewSymbol("f", VirtualMethodSymbol, 8, 3)))
	b := a.AddDerivedClass("B", global)
	c := b.AddDerivedClass("C", global)
	method := c.AddChild(MethodScope, "g")

	assert.Equal(t, a, b.Parent())
	assert.Equal(t, global, b.Owner())
	assert.Equal(t, []*ScopeTable{b}, a.Children())
	assert.Equal(t, a, b.BaseClassScope())
	assert.Nil(t, a.BaseClassScope())

	symbol, err := method.Lookup("x")
	assert.Nil(t, err)
	assert.Equal(t, FieldSymbol, symbol.Kind())
	member, owner := c.LookupMember("f")
	assert.Equal(t, "f", member.Name())
	assert.Equal(t, a, owner)
	member, _ = c.LookupMember("g")
	assert.Nil(t, member)

	assert.Equal(t, c, global.LookupScope("C"))
	assert.Equal(t, c, method.LookupScope("C"))
	assert.Equal(t, b, a.LookupScope("B"))
	assert.Equal(t, method, c.LookupScope("g"))
	assert.Nil(t, global.LookupScope("D"))
	assert.Nil(t, global.LookupScope("g"))
	assert.Equal(t, c, method.EnclosingClass())
}

func TestScopeTable_Symbols(t *testing.T) {
	global := NewGlobalScopeTable("test.ic")
	for _, name := range []string{"C", "A", "B"} {
		assert.Nil(t, global.Insert(NewSymbol(name, ClassSymbol, 6, 1)))
	}
	var names []string
	for _, symbol := range global.Symbols() {
		names = append(names, symbol.Name())
	}
	assert.Equal(t, []string{"C", "A", "B"}, names)
}

func TestScopeTable_Dump(t *testing.T) {
	src := `class A {
  int x;
  static void main(string[] args) {
  }
}`
	analysis := analyzeSource(t, src)
	expected := `Global Symbol Table: test.ic
    Class: A
Children tables: A

Class Symbol Table: A
    Field: int x
    Static method: main {string[] -> void}
Children tables: main

Method Symbol Table: main
    Parameter: string[] args

`
	assert.Equal(t, expected, analysis.Tables.Global.Dump(analysis.Tables.Types))
	expectedTypes := `Type Table: test.ic
    1. Primitive type: int
    2. Primitive type: boolean
    3. Primitive type: null
    4. Primitive type: string
    5. Primitive type: void
    6. Class: A
    7. Array type: string[]
    8. Method type: {string[] -> void}
`
	assert.Equal(t, expectedTypes, analysis.Tables.Types.String())
}
