package internal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TypeID identifies an interned type. Valid ids start at 1.
type TypeID int

// ErrorType is returned for expressions whose type couldn't be computed. It is never interned and is
// compatible with every type, so one failure is reported once.
const ErrorType TypeID = 0

type TypeKind int

const (
	PrimitiveTypeKind TypeKind = iota
	ClassTypeKind
	ArrayTypeKind
	MethodTypeKind
)

// Type is a structural type descriptor.
type Type struct {
	Kind      TypeKind
	Primitive PrimitiveKind // PrimitiveTypeKind
	Name      string        // ClassTypeKind
	Base      TypeID        // ClassTypeKind, ErrorType when the class has no base class.
	Element   TypeID        // ArrayTypeKind
	Params    []TypeID      // MethodTypeKind
	Return    TypeID        // MethodTypeKind
}

// key is the structural identity of the descriptor, the base class link is not part of it.
func (t *Type) key() string {
	switch t.Kind {
	case PrimitiveTypeKind:
		return "p:" + t.Primitive.String()
	case ClassTypeKind:
		return "c:" + t.Name
	case ArrayTypeKind:
		return "a:" + strconv.Itoa(int(t.Element))
	default:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = strconv.Itoa(int(p))
		}
		return "m:" + strings.Join(params, ",") + ":" + strconv.Itoa(int(t.Return))
	}
}

type TypeTable struct {
	programName string
	types       []*Type
	ids         map[string]TypeID
}

func NewTypeTable(programName string) *TypeTable {
	typeTable := &TypeTable{programName: programName, ids: map[string]TypeID{}}
	for _, kind := range []PrimitiveKind{IntPrimitive, BooleanPrimitive, NullPrimitive, StringPrimitive, VoidPrimitive} {
		typeTable.Intern(Type{Kind: PrimitiveTypeKind, Primitive: kind})
	}
	return typeTable
}

// Intern returns the id of a structurally equal type, registering t when it's new.
func (typeTable *TypeTable) Intern(t Type) TypeID {
	key := t.key()
	if id, ok := typeTable.ids[key]; ok {
		return id
	}
	stored := t
	stored.Base = ErrorType
	if t.Params != nil {
		stored.Params = append([]TypeID(nil), t.Params...)
	}
	typeTable.types = append(typeTable.types, &stored)
	id := TypeID(len(typeTable.types))
	typeTable.ids[key] = id
	return id
}

// Resolve returns the descriptor of id. Unknown ids are a programming error.
func (typeTable *TypeTable) Resolve(id TypeID) *Type {
	if id < 1 || int(id) > len(typeTable.types) {
		panic(fmt.Sprintf("type table: unknown type id %d", id))
	}
	return typeTable.types[id-1]
}

func (typeTable *TypeTable) Len() int {
	return len(typeTable.types)
}

func (typeTable *TypeTable) Primitive(kind PrimitiveKind) TypeID {
	return typeTable.Intern(Type{Kind: PrimitiveTypeKind, Primitive: kind})
}

func (typeTable *TypeTable) ClassTypeFor(name string) TypeID {
	return typeTable.Intern(Type{Kind: ClassTypeKind, Name: name})
}

func (typeTable *TypeTable) ArrayOf(element TypeID) TypeID {
	return typeTable.Intern(Type{Kind: ArrayTypeKind, Element: element})
}

// TypeFor interns the type referenced by t with extraDimension more array levels, T[][] is Array(Array(T)).
func (typeTable *TypeTable) TypeFor(t *TypeAst, extraDimension int) TypeID {
	var id TypeID
	if t.IsPrimitive() {
		id = typeTable.Primitive(t.Primitive)
	} else {
		id = typeTable.ClassTypeFor(t.ClassName)
	}
	for i := 0; i < t.Dimension+extraDimension; i++ {
		id = typeTable.ArrayOf(id)
	}
	return id
}

func (typeTable *TypeTable) MethodTypeFor(method *MethodAst) TypeID {
	params := make([]TypeID, 0, len(method.Formals))
	for _, formal := range method.Formals {
		params = append(params, typeTable.TypeFor(formal.Type, 0))
	}
	return typeTable.Intern(Type{Kind: MethodTypeKind, Params: params, Return: typeTable.TypeFor(method.ReturnType, 0)})
}

// SetBaseClass links a class type to its base class type.
func (typeTable *TypeTable) SetBaseClass(class TypeID, base TypeID) {
	typeTable.Resolve(class).Base = base
}

func (typeTable *TypeTable) IsPrimitive(id TypeID, kind PrimitiveKind) bool {
	if id == ErrorType {
		return false
	}
	t := typeTable.Resolve(id)
	return t.Kind == PrimitiveTypeKind && t.Primitive == kind
}

func (typeTable *TypeTable) IsArray(id TypeID) bool {
	return id != ErrorType && typeTable.Resolve(id).Kind == ArrayTypeKind
}

func (typeTable *TypeTable) IsClass(id TypeID) bool {
	return id != ErrorType && typeTable.Resolve(id).Kind == ClassTypeKind
}

// IsReference reports whether null may be used as a value of id: classes, arrays and string.
func (typeTable *TypeTable) IsReference(id TypeID) bool {
	if id == ErrorType {
		return false
	}
	t := typeTable.Resolve(id)
	return t.Kind == ClassTypeKind || t.Kind == ArrayTypeKind ||
		(t.Kind == PrimitiveTypeKind && t.Primitive == StringPrimitive)
}

// IsSubtypeOrEqual reports whether a value of type a can be used where b is expected.
func (typeTable *TypeTable) IsSubtypeOrEqual(a, b TypeID) bool {
	if a == ErrorType || b == ErrorType || a == b {
		return true
	}
	if typeTable.IsPrimitive(a, NullPrimitive) && typeTable.IsReference(b) {
		return true
	}
	if typeTable.IsPrimitive(b, NullPrimitive) && typeTable.IsReference(a) {
		return true
	}
	if !typeTable.IsClass(a) {
		return false
	}
	visited := map[TypeID]bool{}
	for current := typeTable.Resolve(a).Base; current != ErrorType && !visited[current]; current = typeTable.Resolve(current).Base {
		if current == b {
			return true
		}
		visited[current] = true
	}
	return false
}

// TypeName renders id the way it's written in IC.
func (typeTable *TypeTable) TypeName(id TypeID) string {
	if id == ErrorType {
		return "<error>"
	}
	t := typeTable.Resolve(id)
	switch t.Kind {
	case PrimitiveTypeKind:
		return t.Primitive.String()
	case ClassTypeKind:
		return t.Name
	case ArrayTypeKind:
		return typeTable.TypeName(t.Element) + "[]"
	default:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = typeTable.TypeName(p)
		}
		return "{" + strings.Join(params, ", ") + " -> " + typeTable.TypeName(t.Return) + "}"
	}
}

var typeHeaders = map[TypeKind]string{
	PrimitiveTypeKind: "Primitive type",
	ClassTypeKind:     "Class",
	ArrayTypeKind:     "Array type",
	MethodTypeKind:    "Method type",
}

// String dumps the table grouped by kind, each group in id order.
func (typeTable *TypeTable) String() string {
	ids := make([]TypeID, len(typeTable.types))
	for i := range typeTable.types {
		ids[i] = TypeID(i + 1)
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return typeTable.Resolve(ids[i]).Kind < typeTable.Resolve(ids[j]).Kind
	})
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Type Table: %s\n", typeTable.programName)
	for _, id := range ids {
		t := typeTable.Resolve(id)
		fmt.Fprintf(sb, "    %d. %s: %s", id, typeHeaders[t.Kind], typeTable.TypeName(id))
		if t.Kind == ClassTypeKind && t.Base != ErrorType {
			fmt.Fprintf(sb, ", Superclass ID: %d", t.Base)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
