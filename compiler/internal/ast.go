package internal

// In this file, we defined all ast of the IC programming language. An IC program is a list of classes, each class
// contains fields and methods, and methods contain statements and expressions. Every node remembers the line it
// starts at, so that semantic errors can point back to the source.
//
// Statements and expressions are closed sets: only the types in this file implement StatementAst and ExpressionAst,
// and the semantic passes switch over them by type.

// Position is embedded by every node.
type Position struct {
	LineNo int
}

func (p Position) Line() int {
	return p.LineNo
}

type Node interface {
	Line() int
}

type Program struct {
	Position
	Name    string
	Classes []*ClassAst
}

type ClassAst struct {
	Position
	Name       string
	SuperClass string // empty when the class doesn't extend anything.
	Fields     []*FieldAst
	Methods    []*MethodAst
}

func (class *ClassAst) HasSuperClass() bool {
	return class.SuperClass != ""
}

type FieldAst struct {
	Position
	Type *TypeAst
	Name string
}

type MethodKind int

const (
	VirtualMethodKind MethodKind = iota
	StaticMethodKind
	LibraryMethodKind // static signature declared in the library class, without a body.
)

type MethodAst struct {
	Position
	Kind       MethodKind
	Name       string
	ReturnType *TypeAst
	Formals    []*FormalAst
	Body       []StatementAst
}

func (method *MethodAst) IsStatic() bool {
	return method.Kind != VirtualMethodKind
}

type FormalAst struct {
	Position
	Type *TypeAst
	Name string
}

type PrimitiveKind int

// The order matters, primitive types are registered in the type table in this order.
const (
	IntPrimitive PrimitiveKind = iota
	BooleanPrimitive
	NullPrimitive
	StringPrimitive
	VoidPrimitive
)

var primitiveNames = []string{"int", "boolean", "null", "string", "void"}

func (kind PrimitiveKind) String() string {
	if int(kind) < 0 || int(kind) >= len(primitiveNames) {
		return "unknown"
	}
	return primitiveNames[kind]
}

// TypeAst is a type reference in source: either a primitive or a user class name, with an array dimension.
type TypeAst struct {
	Position
	Primitive PrimitiveKind
	ClassName string // non-empty for user types.
	Dimension int
}

func (t *TypeAst) IsPrimitive() bool {
	return t.ClassName == ""
}

func (t *TypeAst) BaseName() string {
	if t.IsPrimitive() {
		return t.Primitive.String()
	}
	return t.ClassName
}

func (t *TypeAst) String() string {
	name := t.BaseName()
	for i := 0; i < t.Dimension; i++ {
		name += "[]"
	}
	return name
}

// Statements.

type StatementAst interface {
	Node
	statementNode()
}

// AssignmentStatement: location = value;
// Location is either a *VariableRef or an *ArrayRef.
type AssignmentStatement struct {
	Position
	Location ExpressionAst
	Value    ExpressionAst
}

// CallStatement wraps a *StaticCall or a *VirtualCall used as a statement.
type CallStatement struct {
	Position
	Call ExpressionAst
}

type ReturnStatement struct {
	Position
	Value ExpressionAst // nil for `return;`
}

type IfStatement struct {
	Position
	Condition ExpressionAst
	Then      StatementAst
	Else      StatementAst // nil when there is no else branch.
}

type WhileStatement struct {
	Position
	Condition ExpressionAst
	Body      StatementAst
}

type BreakStatement struct {
	Position
}

type ContinueStatement struct {
	Position
}

type BlockStatement struct {
	Position
	Statements []StatementAst
}

type LocalVariableStatement struct {
	Position
	Type *TypeAst
	Name string
	Init ExpressionAst // nil when the variable is declared without initializer.
}

func (*AssignmentStatement) statementNode()    {}
func (*CallStatement) statementNode()          {}
func (*ReturnStatement) statementNode()        {}
func (*IfStatement) statementNode()            {}
func (*WhileStatement) statementNode()         {}
func (*BreakStatement) statementNode()         {}
func (*ContinueStatement) statementNode()      {}
func (*BlockStatement) statementNode()         {}
func (*LocalVariableStatement) statementNode() {}

// Expressions.

type ExpressionAst interface {
	Node
	expressionNode()
}

// VariableRef is `name` or `location.name`.
type VariableRef struct {
	Position
	Location ExpressionAst // nil when unqualified.
	Name     string
}

type ArrayRef struct {
	Position
	Array ExpressionAst
	Index ExpressionAst
}

// StaticCall is `Class.method(args)`.
type StaticCall struct {
	Position
	Class  string
	Method string
	Args   []ExpressionAst
}

// VirtualCall is `method(args)` or `location.method(args)`.
type VirtualCall struct {
	Position
	Location ExpressionAst // nil when unqualified.
	Method   string
	Args     []ExpressionAst
}

type ThisExpr struct {
	Position
}

type NewObject struct {
	Position
	Class string
}

// NewArray is `new T[size]`, Type is the element type T.
type NewArray struct {
	Position
	Type *TypeAst
	Size ExpressionAst
}

type LengthExpr struct {
	Position
	Array ExpressionAst
}

type BinaryOp int

const (
	PlusOp BinaryOp = iota
	MinusOp
	MultiplyOp
	DivideOp
	ModOp
	LessOp
	LessEqualOp
	GreaterOp
	GreaterEqualOp
	EqualOp
	NotEqualOp
	AndOp
	OrOp
)

var binaryOpSymbols = []string{"+", "-", "*", "/", "%", "<", "<=", ">", ">=", "==", "!=", "&&", "||"}

func (op BinaryOp) String() string {
	return binaryOpSymbols[op]
}

func (op BinaryOp) IsMath() bool {
	return op <= ModOp
}

// MathBinary holds + - * / %.
type MathBinary struct {
	Position
	Op    BinaryOp
	Left  ExpressionAst
	Right ExpressionAst
}

// LogicalBinary holds comparisons, equality, && and ||.
type LogicalBinary struct {
	Position
	Op    BinaryOp
	Left  ExpressionAst
	Right ExpressionAst
}

// MathUnary is the unary minus.
type MathUnary struct {
	Position
	Operand ExpressionAst
}

// LogicalUnary is `!`.
type LogicalUnary struct {
	Position
	Operand ExpressionAst
}

type LiteralKind int

const (
	IntegerLiteral LiteralKind = iota
	StringLiteral
	TrueLiteral
	FalseLiteral
	NullLiteral
)

// Literal keeps the source text of the value. Integer literals are range checked by the type checker.
type Literal struct {
	Position
	Kind  LiteralKind
	Value string
}

type Parenthesized struct {
	Position
	Expr ExpressionAst
}

func (*VariableRef) expressionNode()   {}
func (*ArrayRef) expressionNode()      {}
func (*StaticCall) expressionNode()    {}
func (*VirtualCall) expressionNode()   {}
func (*ThisExpr) expressionNode()      {}
func (*NewObject) expressionNode()     {}
func (*NewArray) expressionNode()      {}
func (*LengthExpr) expressionNode()    {}
func (*MathBinary) expressionNode()    {}
func (*LogicalBinary) expressionNode() {}
func (*MathUnary) expressionNode()     {}
func (*LogicalUnary) expressionNode()  {}
func (*Literal) expressionNode()       {}
func (*Parenthesized) expressionNode() {}
