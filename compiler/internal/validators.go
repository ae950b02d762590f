package internal

import (
	"strings"
)

// ValidateEntryPoint checks there is exactly one `static void main(string[] args)` in the program. It returns
// nil when the program is fine.
func ValidateEntryPoint(program *Program) *SemanticError {
	var classes []string
	line := program.LineNo
	for _, class := range program.Classes {
		for _, method := range class.Methods {
			if isEntryPoint(method) {
				classes = append(classes, "class "+class.Name)
				line = method.LineNo
				// A class counts once even if it declares main twice.
				break
			}
		}
	}
	switch len(classes) {
	case 1:
		return nil
	case 0:
		return &SemanticError{Message: "Main function wasn't found in any of the classes.", Line: program.LineNo, Name: "main"}
	default:
		return &SemanticError{
			Message: "More than one class has 'main' function: " + strings.Join(classes, ", "),
			Line:    line,
			Name:    "main",
		}
	}
}

func isEntryPoint(method *MethodAst) bool {
	if method.Kind != StaticMethodKind || method.Name != "main" {
		return false
	}
	returnType := method.ReturnType
	if !returnType.IsPrimitive() || returnType.Primitive != VoidPrimitive || returnType.Dimension != 0 {
		return false
	}
	if len(method.Formals) != 1 {
		return false
	}
	formal := method.Formals[0].Type
	return formal.IsPrimitive() && formal.Primitive == StringPrimitive && formal.Dimension == 1
}

// contextValidator tracks how many loops and instance methods enclose the current node.
type contextValidator struct {
	loopDepth     int
	instanceDepth int
	diagnostics   *Diagnostics
}

// ValidateContext reports break and continue outside a while loop and this outside an instance method.
func ValidateContext(program *Program, diagnostics *Diagnostics) {
	validator := &contextValidator{diagnostics: diagnostics}
	for _, class := range program.Classes {
		for _, method := range class.Methods {
			validator.validateMethod(method)
		}
	}
}

func (validator *contextValidator) validateMethod(method *MethodAst) {
	if method.Kind == VirtualMethodKind {
		validator.instanceDepth++
		defer func() { validator.instanceDepth-- }()
	}
	validator.validateStatements(method.Body)
}

func (validator *contextValidator) validateStatements(statements []StatementAst) {
	for _, statement := range statements {
		validator.validateStatement(statement)
	}
}

func (validator *contextValidator) validateStatement(statement StatementAst) {
	switch stm := statement.(type) {
	case *BreakStatement:
		if validator.loopDepth == 0 {
			validator.diagnostics.Errorf(stm.LineNo, "'break' not inside 'while'")
		}
	case *ContinueStatement:
		if validator.loopDepth == 0 {
			validator.diagnostics.Errorf(stm.LineNo, "'continue' not inside 'while'")
		}
	case *WhileStatement:
		validator.validateExpression(stm.Condition)
		validator.loopDepth++
		validator.validateStatement(stm.Body)
		validator.loopDepth--
	case *IfStatement:
		validator.validateExpression(stm.Condition)
		validator.validateStatement(stm.Then)
		if stm.Else != nil {
			validator.validateStatement(stm.Else)
		}
	case *BlockStatement:
		validator.validateStatements(stm.Statements)
	case *AssignmentStatement:
		validator.validateExpression(stm.Location)
		validator.validateExpression(stm.Value)
	case *CallStatement:
		validator.validateExpression(stm.Call)
	case *ReturnStatement:
		if stm.Value != nil {
			validator.validateExpression(stm.Value)
		}
	case *LocalVariableStatement:
		if stm.Init != nil {
			validator.validateExpression(stm.Init)
		}
	}
}

func (validator *contextValidator) validateExpressions(exprs []ExpressionAst) {
	for _, expr := range exprs {
		validator.validateExpression(expr)
	}
}

func (validator *contextValidator) validateExpression(expression ExpressionAst) {
	switch expr := expression.(type) {
	case *ThisExpr:
		if validator.instanceDepth == 0 {
			validator.diagnostics.Errorf(expr.LineNo, "'this' not inside an instance method")
		}
	case *VariableRef:
		if expr.Location != nil {
			validator.validateExpression(expr.Location)
		}
	case *ArrayRef:
		validator.validateExpression(expr.Array)
		validator.validateExpression(expr.Index)
	case *StaticCall:
		validator.validateExpressions(expr.Args)
	case *VirtualCall:
		if expr.Location != nil {
			validator.validateExpression(expr.Location)
		}
		validator.validateExpressions(expr.Args)
	case *NewArray:
		validator.validateExpression(expr.Size)
	case *LengthExpr:
		validator.validateExpression(expr.Array)
	case *MathBinary:
		validator.validateExpression(expr.Left)
		validator.validateExpression(expr.Right)
	case *LogicalBinary:
		validator.validateExpression(expr.Left)
		validator.validateExpression(expr.Right)
	case *MathUnary:
		validator.validateExpression(expr.Operand)
	case *LogicalUnary:
		validator.validateExpression(expr.Operand)
	case *Parenthesized:
		validator.validateExpression(expr.Expr)
	}
}
