package internal

import (
	"fmt"
	"strings"

	"github.com/xiaobogaga/ic/util"
)

// typeContext is threaded through the traversal instead of being kept on the checker.
type typeContext struct {
	scope      *ScopeTable
	class      TypeID
	method     *MethodAst
	returnType TypeID
}

func (ctx typeContext) withScope(scope *ScopeTable) typeContext {
	ctx.scope = scope
	return ctx
}

type typeChecker struct {
	tables      *Tables
	types       *TypeTable
	diagnostics *Diagnostics
}

// CheckTypes computes the type of every expression and checks it against where it's used. Names that the
// scope checker couldn't resolve get ErrorType here and aren't reported twice.
func CheckTypes(program *Program, tables *Tables, diagnostics *Diagnostics) {
	checker := &typeChecker{tables: tables, types: tables.Types, diagnostics: diagnostics}
	for _, class := range program.Classes {
		classScope := tables.ScopeOf(class)
		if classScope == nil {
			continue
		}
		classType := checker.types.ClassTypeFor(class.Name)
		for _, method := range class.Methods {
			if method.Kind == VirtualMethodKind {
				checker.checkOverride(classScope, method)
			}
			ctx := typeContext{
				scope:      tables.ScopeOf(method),
				class:      classType,
				method:     method,
				returnType: checker.types.TypeFor(method.ReturnType, 0),
			}
			checker.checkStatements(ctx, method.Body)
		}
	}
}

func (checker *typeChecker) typeName(t TypeID) string {
	return checker.types.TypeName(t)
}

func (checker *typeChecker) isInt(t TypeID) bool {
	return t == ErrorType || checker.types.IsPrimitive(t, IntPrimitive)
}

func (checker *typeChecker) isBoolean(t TypeID) bool {
	return t == ErrorType || checker.types.IsPrimitive(t, BooleanPrimitive)
}

func (checker *typeChecker) errorf(line int, format string, args ...interface{}) {
	checker.diagnostics.Errorf(line, format, args...)
}

// checkOverride verifies an instance method against the base class member with the same name: parameters
// may only widen and the return type may only narrow.
func (checker *typeChecker) checkOverride(classScope *ScopeTable, method *MethodAst) {
	base := classScope.BaseClassScope()
	if base == nil {
		return
	}
	member, _ := base.LookupMember(method.Name)
	if member == nil {
		return
	}
	if member.Kind() == FieldSymbol {
		checker.errorf(method.LineNo, "Method [%s] hides a field in base class", method.Name)
		return
	}
	methodType := checker.types.MethodTypeFor(method)
	var problems []string
	if member.Kind() == StaticMethodSymbol {
		problems = append(problems, "base class method is static")
	} else {
		problems = checker.overrideProblems(checker.types.Resolve(methodType), checker.types.Resolve(member.TypeID()))
	}
	if len(problems) == 0 {
		return
	}
	checker.diagnostics.Add(&SemanticError{
		Message: fmt.Sprintf("Method [%s] hides '%s' in base class. Method signature: %s, base class type: %s. Errors:\n%s",
			method.Name, strings.ToLower(member.Kind().String()), checker.typeName(methodType),
			checker.typeName(member.TypeID()), strings.Join(problems, "\n")),
		Line: method.LineNo,
		Name: method.Name,
	})
}

func (checker *typeChecker) overrideProblems(derived, base *Type) (problems []string) {
	if len(derived.Params) != len(base.Params) {
		problems = append(problems, fmt.Sprintf("Wrong number of parameters. Expected: %d, got: %d",
			len(base.Params), len(derived.Params)))
	} else {
		for i := range base.Params {
			if !checker.types.IsSubtypeOrEqual(base.Params[i], derived.Params[i]) {
				problems = append(problems, fmt.Sprintf("Parameter %d: base class type '%s' is not a subtype of '%s'",
					i+1, checker.typeName(base.Params[i]), checker.typeName(derived.Params[i])))
			}
		}
	}
	if !checker.types.IsSubtypeOrEqual(derived.Return, base.Return) {
		problems = append(problems, fmt.Sprintf("Return type '%s' is not a subtype of base class return type '%s'",
			checker.typeName(derived.Return), checker.typeName(base.Return)))
	}
	return problems
}

func (checker *typeChecker) checkStatements(ctx typeContext, statements []StatementAst) {
	for _, statement := range statements {
		checker.checkStatement(ctx, statement)
	}
}

func (checker *typeChecker) checkStatement(ctx typeContext, statement StatementAst) {
	switch stm := statement.(type) {
	case *AssignmentStatement:
		target := checker.typeOf(ctx, stm.Location)
		value := checker.typeOf(ctx, stm.Value)
		if !checker.types.IsSubtypeOrEqual(value, target) {
			checker.errorf(stm.LineNo, "Can't assign a value of type '%s' to a location of type '%s'",
				checker.typeName(value), checker.typeName(target))
		}
	case *CallStatement:
		checker.typeOf(ctx, stm.Call)
	case *ReturnStatement:
		checker.checkReturn(ctx, stm)
	case *IfStatement:
		checker.checkCondition(ctx, stm.Condition, "if")
		checker.checkStatement(ctx, stm.Then)
		if stm.Else != nil {
			checker.checkStatement(ctx, stm.Else)
		}
	case *WhileStatement:
		checker.checkCondition(ctx, stm.Condition, "while")
		checker.checkStatement(ctx, stm.Body)
	case *BlockStatement:
		if blockScope := checker.tables.ScopeOf(stm); blockScope != nil {
			ctx = ctx.withScope(blockScope)
		}
		checker.checkStatements(ctx, stm.Statements)
	case *LocalVariableStatement:
		if stm.Init == nil {
			return
		}
		declared := checker.types.TypeFor(stm.Type, 0)
		value := checker.typeOf(ctx, stm.Init)
		if !checker.types.IsSubtypeOrEqual(value, declared) {
			checker.errorf(stm.LineNo, "Can't initialize variable '%s' of type '%s' with a value of type '%s'",
				stm.Name, checker.typeName(declared), checker.typeName(value))
		}
	case *BreakStatement, *ContinueStatement:
	}
}

func (checker *typeChecker) checkReturn(ctx typeContext, stm *ReturnStatement) {
	isVoid := checker.types.IsPrimitive(ctx.returnType, VoidPrimitive)
	if stm.Value == nil {
		if !isVoid {
			checker.errorf(stm.LineNo, "A non-'void' method should return a value")
		}
		return
	}
	value := checker.typeOf(ctx, stm.Value)
	if isVoid {
		checker.errorf(stm.LineNo, "A 'void' method is trying to return a value")
		return
	}
	if !checker.types.IsSubtypeOrEqual(value, ctx.returnType) {
		checker.errorf(stm.LineNo, "Method [%s] returns '%s' but a value of type '%s' was returned",
			ctx.method.Name, checker.typeName(ctx.returnType), checker.typeName(value))
	}
}

func (checker *typeChecker) checkCondition(ctx typeContext, condition ExpressionAst, statement string) {
	t := checker.typeOf(ctx, condition)
	if !checker.isBoolean(t) {
		checker.errorf(condition.Line(), "Condition of '%s' must be of type 'boolean', got '%s'", statement,
			checker.typeName(t))
	}
}

// typeOf returns the type of expression, ErrorType when it can't be computed.
func (checker *typeChecker) typeOf(ctx typeContext, expression ExpressionAst) TypeID {
	switch expr := expression.(type) {
	case *VariableRef:
		return checker.typeOfVariable(ctx, expr)
	case *ArrayRef:
		array := checker.typeOf(ctx, expr.Array)
		index := checker.typeOf(ctx, expr.Index)
		if !checker.isInt(index) {
			checker.errorf(expr.LineNo, "Array index must be of type 'int', got '%s'", checker.typeName(index))
		}
		if array == ErrorType {
			return ErrorType
		}
		if !checker.types.IsArray(array) {
			checker.errorf(expr.LineNo, "Value is treated as an array when it is actually of type '%s'",
				checker.typeName(array))
			return ErrorType
		}
		return checker.types.Resolve(array).Element
	case *StaticCall:
		return checker.typeOfStaticCall(ctx, expr)
	case *VirtualCall:
		return checker.typeOfVirtualCall(ctx, expr)
	case *ThisExpr:
		return ctx.class
	case *NewObject:
		if symbol, ok := checker.tables.Global.LookupLocal(expr.Class); ok && symbol.Kind() == ClassSymbol {
			return symbol.TypeID()
		}
		return ErrorType
	case *NewArray:
		size := checker.typeOf(ctx, expr.Size)
		if !checker.isInt(size) {
			checker.errorf(expr.LineNo, "Array size must be of type 'int', got '%s'", checker.typeName(size))
		}
		if !expr.Type.IsPrimitive() && !checker.isKnownClass(expr.Type.ClassName) {
			return ErrorType
		}
		return checker.types.TypeFor(expr.Type, 1)
	case *LengthExpr:
		array := checker.typeOf(ctx, expr.Array)
		if array != ErrorType && !checker.types.IsArray(array) {
			checker.errorf(expr.LineNo, "length can only be run on arrays; got type: %s", checker.typeName(array))
		}
		return checker.types.Primitive(IntPrimitive)
	case *MathBinary:
		return checker.typeOfMathBinary(ctx, expr)
	case *LogicalBinary:
		return checker.typeOfLogicalBinary(ctx, expr)
	case *MathUnary:
		if literal, ok := expr.Operand.(*Literal); ok && literal.Kind == IntegerLiteral {
			checker.checkIntegerLiteral(literal, true)
			return checker.types.Primitive(IntPrimitive)
		}
		operand := checker.typeOf(ctx, expr.Operand)
		if !checker.isInt(operand) {
			checker.errorf(expr.LineNo, "Unary '-' expects an operand of type 'int', got '%s'", checker.typeName(operand))
		}
		return checker.types.Primitive(IntPrimitive)
	case *LogicalUnary:
		operand := checker.typeOf(ctx, expr.Operand)
		if !checker.isBoolean(operand) {
			checker.errorf(expr.LineNo, "Unary '!' expects an operand of type 'boolean', got '%s'",
				checker.typeName(operand))
		}
		return checker.types.Primitive(BooleanPrimitive)
	case *Literal:
		return checker.typeOfLiteral(expr)
	case *Parenthesized:
		return checker.typeOf(ctx, expr.Expr)
	}
	return ErrorType
}

func (checker *typeChecker) isKnownClass(name string) bool {
	symbol, ok := checker.tables.Global.LookupLocal(name)
	return ok && symbol.Kind() == ClassSymbol
}

// classScopeOf returns the scope of a class type, nil for other types or for unknown classes.
func (checker *typeChecker) classScopeOf(t TypeID) *ScopeTable {
	if !checker.types.IsClass(t) {
		return nil
	}
	name := checker.types.Resolve(t).Name
	if !checker.isKnownClass(name) {
		return nil
	}
	return checker.tables.Global.LookupScope(name)
}

func (checker *typeChecker) typeOfVariable(ctx typeContext, expr *VariableRef) TypeID {
	if expr.Location == nil {
		symbol, err := ctx.scope.Lookup(expr.Name)
		if err != nil || symbol.Kind().IsMethod() || symbol.Kind() == ClassSymbol {
			return ErrorType
		}
		return symbol.TypeID()
	}
	location := checker.typeOf(ctx, expr.Location)
	if location == ErrorType {
		return ErrorType
	}
	if !checker.types.IsClass(location) {
		checker.errorf(expr.LineNo, "Can't access field '%s' of a non-class type '%s'", expr.Name,
			checker.typeName(location))
		return ErrorType
	}
	classScope := checker.classScopeOf(location)
	if classScope == nil {
		return ErrorType
	}
	member, _ := classScope.LookupMember(expr.Name)
	if member == nil || member.Kind() != FieldSymbol {
		checker.errorf(expr.LineNo, "Class '%s' has no field named '%s'", checker.typeName(location), expr.Name)
		return ErrorType
	}
	return member.TypeID()
}

func (checker *typeChecker) typeOfStaticCall(ctx typeContext, call *StaticCall) TypeID {
	var method *Symbol
	if checker.isKnownClass(call.Class) {
		if classScope := checker.tables.Global.LookupScope(call.Class); classScope != nil {
			method, _ = classScope.LookupMember(call.Method)
		}
	}
	if method == nil || method.Kind() != StaticMethodSymbol {
		checker.typeOfArgs(ctx, call.Args)
		return ErrorType
	}
	return checker.checkCall(ctx, call.Method, method, call.Args, call.LineNo)
}

func (checker *typeChecker) typeOfVirtualCall(ctx typeContext, call *VirtualCall) TypeID {
	if call.Location == nil {
		method, err := ctx.scope.Lookup(call.Method)
		if err != nil || !method.Kind().IsMethod() {
			checker.typeOfArgs(ctx, call.Args)
			return ErrorType
		}
		return checker.checkCall(ctx, call.Method, method, call.Args, call.LineNo)
	}
	location := checker.typeOf(ctx, call.Location)
	if location == ErrorType {
		checker.typeOfArgs(ctx, call.Args)
		return ErrorType
	}
	if !checker.types.IsClass(location) {
		checker.errorf(call.LineNo, "Can't call method '%s' on a non-class type '%s'", call.Method,
			checker.typeName(location))
		checker.typeOfArgs(ctx, call.Args)
		return ErrorType
	}
	classScope := checker.classScopeOf(location)
	if classScope == nil {
		checker.typeOfArgs(ctx, call.Args)
		return ErrorType
	}
	method, _ := classScope.LookupMember(call.Method)
	if method == nil || method.Kind() != VirtualMethodSymbol {
		checker.errorf(call.LineNo, "Class '%s' has no virtual method named '%s'", checker.typeName(location),
			call.Method)
		checker.typeOfArgs(ctx, call.Args)
		return ErrorType
	}
	return checker.checkCall(ctx, call.Method, method, call.Args, call.LineNo)
}

func (checker *typeChecker) typeOfArgs(ctx typeContext, args []ExpressionAst) []TypeID {
	types := make([]TypeID, len(args))
	for i, arg := range args {
		types[i] = checker.typeOf(ctx, arg)
	}
	return types
}

// checkCall checks the arguments against the formals of method and returns the method's return type.
func (checker *typeChecker) checkCall(ctx typeContext, name string, method *Symbol, args []ExpressionAst, line int) TypeID {
	argTypes := checker.typeOfArgs(ctx, args)
	methodType := checker.types.Resolve(method.TypeID())
	if len(argTypes) != len(methodType.Params) {
		checker.errorf(line, "Wrong number of arguments on call to method [%s]. Expected: %d, got: %d", name,
			len(methodType.Params), len(argTypes))
		return methodType.Return
	}
	for i, arg := range argTypes {
		if !checker.types.IsSubtypeOrEqual(arg, methodType.Params[i]) {
			checker.errorf(line, "Argument %d of call to method [%s] should be of type '%s', got '%s'", i+1, name,
				checker.typeName(methodType.Params[i]), checker.typeName(arg))
		}
	}
	return methodType.Return
}

func (checker *typeChecker) typeOfMathBinary(ctx typeContext, expr *MathBinary) TypeID {
	left := checker.typeOf(ctx, expr.Left)
	right := checker.typeOf(ctx, expr.Right)
	intType := checker.types.Primitive(IntPrimitive)
	if expr.Op == PlusOp {
		switch {
		case left == ErrorType || right == ErrorType:
			return ErrorType
		case left == intType && right == intType:
			return intType
		case checker.types.IsPrimitive(left, StringPrimitive) && checker.types.IsPrimitive(right, StringPrimitive):
			return left
		}
		checker.errorf(expr.LineNo, "'+' operator can be used for either INT addition or STRING concatenation, got '%s' and '%s'",
			checker.typeName(left), checker.typeName(right))
		return ErrorType
	}
	if !checker.isInt(left) || !checker.isInt(right) {
		checker.errorf(expr.LineNo, "Operator '%s' expects operands of type 'int', got '%s' and '%s'", expr.Op,
			checker.typeName(left), checker.typeName(right))
	}
	return intType
}

func (checker *typeChecker) typeOfLogicalBinary(ctx typeContext, expr *LogicalBinary) TypeID {
	left := checker.typeOf(ctx, expr.Left)
	right := checker.typeOf(ctx, expr.Right)
	switch expr.Op {
	case EqualOp, NotEqualOp:
		if !checker.types.IsSubtypeOrEqual(left, right) && !checker.types.IsSubtypeOrEqual(right, left) {
			checker.errorf(expr.LineNo, "Can't check equality in non-matching types '%s' and '%s'",
				checker.typeName(left), checker.typeName(right))
		}
	case AndOp, OrOp:
		if !checker.isBoolean(left) || !checker.isBoolean(right) {
			checker.errorf(expr.LineNo, "Operator '%s' expects operands of type 'boolean', got '%s' and '%s'", expr.Op,
				checker.typeName(left), checker.typeName(right))
		}
	default:
		if !checker.isInt(left) || !checker.isInt(right) {
			checker.errorf(expr.LineNo, "Operator '%s' expects operands of type 'int', got '%s' and '%s'", expr.Op,
				checker.typeName(left), checker.typeName(right))
		}
	}
	return checker.types.Primitive(BooleanPrimitive)
}

func (checker *typeChecker) typeOfLiteral(literal *Literal) TypeID {
	switch literal.Kind {
	case IntegerLiteral:
		checker.checkIntegerLiteral(literal, false)
		return checker.types.Primitive(IntPrimitive)
	case StringLiteral:
		return checker.types.Primitive(StringPrimitive)
	case TrueLiteral, FalseLiteral:
		return checker.types.Primitive(BooleanPrimitive)
	default:
		return checker.types.Primitive(NullPrimitive)
	}
}

// checkIntegerLiteral reports literals that don't fit in 32 bits. 2147483648 only fits right after a unary minus.
func (checker *typeChecker) checkIntegerLiteral(literal *Literal, negated bool) {
	if !util.FitsInt32(literal.Value, negated) {
		checker.errorf(literal.LineNo, "Integer is out of bounds: %s", literal.Value)
	}
}
