package internal

import (
	"fmt"
	"strings"
)

// The scope checker resolves every name to its declaration and checks the name is used where its kind
// allows. Names after a '.' on an expression depend on the type of that expression, they are left to the
// type checker.
type scopeChecker struct {
	tables      *Tables
	diagnostics *Diagnostics
}

func CheckScopes(program *Program, tables *Tables, diagnostics *Diagnostics) {
	checker := &scopeChecker{tables: tables, diagnostics: diagnostics}
	for _, class := range program.Classes {
		classScope := tables.ScopeOf(class)
		if classScope == nil {
			continue
		}
		checker.checkClass(classScope, class)
	}
}

func (checker *scopeChecker) checkClass(classScope *ScopeTable, class *ClassAst) {
	for _, field := range class.Fields {
		checker.checkType(classScope, field.Type)
		checker.checkFieldHiding(classScope, field)
	}
	for _, method := range class.Methods {
		methodScope := checker.tables.ScopeOf(method)
		checker.checkType(classScope, method.ReturnType)
		for _, formal := range method.Formals {
			checker.checkType(methodScope, formal.Type)
		}
		checker.checkStatements(methodScope, method.Body)
	}
}

func (checker *scopeChecker) checkFieldHiding(classScope *ScopeTable, field *FieldAst) {
	base := classScope.BaseClassScope()
	if base == nil {
		return
	}
	if member, _ := base.LookupMember(field.Name); member != nil {
		checker.diagnostics.Warnf(field.LineNo, "Field '%s' hides base class member %s '%s'", field.Name,
			strings.ToLower(member.Kind().String()), member.Name())
	}
}

func (checker *scopeChecker) checkType(scope *ScopeTable, t *TypeAst) {
	if t == nil || t.IsPrimitive() {
		return
	}
	symbol := checker.resolve(scope, t.ClassName, t.LineNo)
	checker.expectKind(symbol, t.LineNo, ClassSymbol)
}

// resolve looks name up from scope, reporting it when not found.
func (checker *scopeChecker) resolve(scope *ScopeTable, name string, line int) *Symbol {
	symbol, err := scope.Lookup(name)
	if err != nil {
		checker.diagnostics.Add(&SemanticError{Message: err.Error(), Line: line, Name: name})
		return nil
	}
	return symbol
}

func (checker *scopeChecker) expectKind(symbol *Symbol, line int, kinds ...SymbolKind) bool {
	if symbol == nil {
		return false
	}
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		if symbol.Kind() == kind {
			return true
		}
		names = append(names, kind.String())
	}
	checker.diagnostics.Add(&SemanticError{
		Message: fmt.Sprintf("Symbol '%s' is not of kind '%s'", symbol.Name(), strings.Join(names, "' or '")),
		Line:    line,
		Name:    symbol.Name(),
	})
	return false
}

// checkStaticContext reports fields and virtual methods referenced from inside a static method.
func (checker *scopeChecker) checkStaticContext(scope *ScopeTable, symbol *Symbol, line int) {
	if symbol.Kind() != FieldSymbol && symbol.Kind() != VirtualMethodSymbol {
		return
	}
	methodScope := scope.EnclosingMethod()
	if methodScope == nil {
		return
	}
	methodSymbol, ok := methodScope.Owner().LookupLocal(methodScope.Name())
	if !ok || methodSymbol.Kind() != StaticMethodSymbol {
		return
	}
	checker.diagnostics.Add(&SemanticError{
		Message: fmt.Sprintf("Trying to reference a non-static class member '%s' from static method '%s'",
			symbol.Name(), methodScope.Name()),
		Line: line,
		Name: symbol.Name(),
	})
}

func (checker *scopeChecker) checkStatements(scope *ScopeTable, statements []StatementAst) {
	for _, statement := range statements {
		checker.checkStatement(scope, statement)
	}
}

func (checker *scopeChecker) checkStatement(scope *ScopeTable, statement StatementAst) {
	switch stm := statement.(type) {
	case *AssignmentStatement:
		checker.checkExpression(scope, stm.Location)
		checker.checkExpression(scope, stm.Value)
	case *CallStatement:
		checker.checkExpression(scope, stm.Call)
	case *ReturnStatement:
		if stm.Value != nil {
			checker.checkExpression(scope, stm.Value)
		}
	case *IfStatement:
		checker.checkExpression(scope, stm.Condition)
		checker.checkStatement(scope, stm.Then)
		if stm.Else != nil {
			checker.checkStatement(scope, stm.Else)
		}
	case *WhileStatement:
		checker.checkExpression(scope, stm.Condition)
		checker.checkStatement(scope, stm.Body)
	case *BlockStatement:
		if blockScope := checker.tables.ScopeOf(stm); blockScope != nil {
			scope = blockScope
		}
		checker.checkStatements(scope, stm.Statements)
	case *LocalVariableStatement:
		checker.checkType(scope, stm.Type)
		if stm.Init != nil {
			checker.checkExpression(scope, stm.Init)
		}
	case *BreakStatement, *ContinueStatement:
	}
}

func (checker *scopeChecker) checkExpressions(scope *ScopeTable, exprs []ExpressionAst) {
	for _, expr := range exprs {
		checker.checkExpression(scope, expr)
	}
}

func (checker *scopeChecker) checkExpression(scope *ScopeTable, expression ExpressionAst) {
	switch expr := expression.(type) {
	case *VariableRef:
		if expr.Location != nil {
			checker.checkExpression(scope, expr.Location)
			return
		}
		symbol := checker.resolve(scope, expr.Name, expr.LineNo)
		if checker.expectKind(symbol, expr.LineNo, LocalVariableSymbol, ParameterSymbol, FieldSymbol) {
			checker.checkStaticContext(scope, symbol, expr.LineNo)
		}
	case *ArrayRef:
		checker.checkExpression(scope, expr.Array)
		checker.checkExpression(scope, expr.Index)
	case *StaticCall:
		checker.checkStaticCall(scope, expr)
		checker.checkExpressions(scope, expr.Args)
	case *VirtualCall:
		if expr.Location != nil {
			checker.checkExpression(scope, expr.Location)
		} else {
			symbol := checker.resolve(scope, expr.Method, expr.LineNo)
			if checker.expectKind(symbol, expr.LineNo, VirtualMethodSymbol, StaticMethodSymbol) {
				checker.checkStaticContext(scope, symbol, expr.LineNo)
			}
		}
		checker.checkExpressions(scope, expr.Args)
	case *NewObject:
		symbol := checker.resolve(scope, expr.Class, expr.LineNo)
		checker.expectKind(symbol, expr.LineNo, ClassSymbol)
	case *NewArray:
		checker.checkType(scope, expr.Type)
		checker.checkExpression(scope, expr.Size)
	case *LengthExpr:
		checker.checkExpression(scope, expr.Array)
	case *MathBinary:
		checker.checkExpression(scope, expr.Left)
		checker.checkExpression(scope, expr.Right)
	case *LogicalBinary:
		checker.checkExpression(scope, expr.Left)
		checker.checkExpression(scope, expr.Right)
	case *MathUnary:
		checker.checkExpression(scope, expr.Operand)
	case *LogicalUnary:
		checker.checkExpression(scope, expr.Operand)
	case *Parenthesized:
		checker.checkExpression(scope, expr.Expr)
	case *ThisExpr, *Literal:
	}
}

// C.m(): C must be a class, m a static method of C or of one of its base classes.
func (checker *scopeChecker) checkStaticCall(scope *ScopeTable, call *StaticCall) {
	symbol := checker.resolve(scope, call.Class, call.LineNo)
	if !checker.expectKind(symbol, call.LineNo, ClassSymbol) {
		return
	}
	classScope := scope.LookupScope(call.Class)
	if classScope == nil {
		return
	}
	method, _ := classScope.LookupMember(call.Method)
	if method == nil {
		checker.diagnostics.Add(&SemanticError{
			Message: fmt.Sprintf("Couldn't find a symbol with name: %s.%s", call.Class, call.Method),
			Line:    call.LineNo,
			Name:    call.Method,
		})
		return
	}
	checker.expectKind(method, call.LineNo, StaticMethodSymbol)
}
