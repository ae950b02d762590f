package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeTable_Primitives(t *testing.T) {
	typeTable := NewTypeTable("test.ic")
	for i, kind := range []PrimitiveKind{IntPrimitive, BooleanPrimitive, NullPrimitive, StringPrimitive, VoidPrimitive} {
		assert.Equal(t, TypeID(i+1), typeTable.Primitive(kind))
	}
	assert.Equal(t, 5, typeTable.Len())
}

func TestTypeTable_Intern(t *testing.T) {
	typeTable := NewTypeTable("test.ic")
	intType := typeTable.Primitive(IntPrimitive)
	intArray := typeTable.ArrayOf(intType)
	assert.Equal(t, intArray, typeTable.ArrayOf(intType))
	assert.Equal(t, intArray, typeTable.TypeFor(&TypeAst{Primitive: IntPrimitive, Dimension: 1}, 0))
	assert.Equal(t, typeTable.ArrayOf(intArray), typeTable.TypeFor(&TypeAst{Primitive: IntPrimitive, Dimension: 1}, 1))

	a := typeTable.ClassTypeFor("A")
	assert.Equal(t, a, typeTable.TypeFor(&TypeAst{ClassName: "A"}, 0))
	assert.NotEqual(t, a, typeTable.ClassTypeFor("B"))

	method := &MethodAst{
		ReturnType: &TypeAst{Primitive: VoidPrimitive},
		Formals:    []*FormalAst{{Type: &TypeAst{Primitive: StringPrimitive, Dimension: 1}, Name: "args"}},
	}
	same := &MethodAst{
		ReturnType: &TypeAst{Primitive: VoidPrimitive},
		Formals:    []*FormalAst{{Type: &TypeAst{Primitive: StringPrimitive, Dimension: 1}, Name: "other"}},
	}
	methodType := typeTable.MethodTypeFor(method)
	assert.Equal(t, methodType, typeTable.MethodTypeFor(same))
	assert.Equal(t, "{string[] -> void}", typeTable.TypeName(methodType))

	size := typeTable.Len()
	typeTable.TypeFor(&TypeAst{Primitive: IntPrimitive, Dimension: 2}, 0)
	assert.Equal(t, size, typeTable.Len())
}

func TestTypeTable_Resolve(t *testing.T) {
	typeTable := NewTypeTable("test.ic")
	id := typeTable.ClassTypeFor("A")
	assert.Equal(t, "A", typeTable.Resolve(id).Name)
	assert.Equal(t, ClassTypeKind, typeTable.Resolve(id).Kind)
	assert.Panics(t, func() { typeTable.Resolve(ErrorType) })
	assert.Panics(t, func() { typeTable.Resolve(999) })
}

func TestTypeTable_IsSubtypeOrEqual(t *testing.T) {
	typeTable := NewTypeTable("test.ic")
	intType := typeTable.Primitive(IntPrimitive)
	nullType := typeTable.Primitive(NullPrimitive)
	stringType := typeTable.Primitive(StringPrimitive)
	boolType := typeTable.Primitive(BooleanPrimitive)
	a, b, c := typeTable.ClassTypeFor("A"), typeTable.ClassTypeFor("B"), typeTable.ClassTypeFor("C")
	typeTable.SetBaseClass(b, a)
	typeTable.SetBaseClass(c, b)
	intArray := typeTable.ArrayOf(intType)

	testData := []struct {
		a, b     TypeID
		expected bool
	}{
		{a: intType, b: intType, expected: true},
		{a: a, b: a, expected: true},
		{a: intType, b: boolType, expected: false},
		{a: nullType, b: a, expected: true},
		{a: a, b: nullType, expected: true},
		{a: nullType, b: intArray, expected: true},
		{a: nullType, b: stringType, expected: true},
		{a: nullType, b: intType, expected: false},
		{a: boolType, b: nullType, expected: false},
		{a: b, b: a, expected: true},
		{a: c, b: a, expected: true},
		{a: a, b: c, expected: false},
		{a: intArray, b: typeTable.ArrayOf(boolType), expected: false},
		{a: ErrorType, b: intType, expected: true},
		{a: boolType, b: ErrorType, expected: true},
	}
	for _, data := range testData {
		assert.Equal(t, data.expected, typeTable.IsSubtypeOrEqual(data.a, data.b), "%s <= %s",
			typeTable.TypeName(data.a), typeTable.TypeName(data.b))
	}
}

func TestTypeTable_IsSubtypeOrEqualCycle(t *testing.T) {
	typeTable := NewTypeTable("test.ic")
	a, b := typeTable.ClassTypeFor("A"), typeTable.ClassTypeFor("B")
	typeTable.SetBaseClass(a, b)
	typeTable.SetBaseClass(b, a)
	assert.False(t, typeTable.IsSubtypeOrEqual(a, typeTable.ClassTypeFor("C")))
}

func TestTypeTable_String(t *testing.T) {
	typeTable := NewTypeTable("test.ic")
	a := typeTable.ClassTypeFor("A")
	b := typeTable.ClassTypeFor("B")
	typeTable.SetBaseClass(b, a)
	typeTable.ArrayOf(typeTable.Primitive(StringPrimitive))
	expected := `Type Table: test.ic
    1. Primitive type: int
    2. Primitive type: boolean
    3. Primitive type: null
    4. Primitive type: string
    5. Primitive type: void
    6. Class: A
    7. Class: B, Superclass ID: 6
    8. Array type: string[]
`
	assert.Equal(t, expected, typeTable.String())
}
