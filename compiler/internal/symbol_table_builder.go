package internal

// Tables is what the symbol table builder produces and the later passes read.
type Tables struct {
	Global *ScopeTable
	Types  *TypeTable
	scopes map[Node]*ScopeTable
}

// ScopeOf returns the scope created for a class, method or block node, nil for other nodes or for
// declarations that were rejected.
func (tables *Tables) ScopeOf(node Node) *ScopeTable {
	return tables.scopes[node]
}

type symbolTableBuilder struct {
	tables      *Tables
	classScopes map[string]*ScopeTable
	diagnostics *Diagnostics
}

// BuildSymbolTables creates the scope tree and the type table of program. Declaration problems are
// reported to diagnostics and the build goes on.
func BuildSymbolTables(program *Program, diagnostics *Diagnostics) *Tables {
	builder := &symbolTableBuilder{
		tables: &Tables{
			Global: NewGlobalScopeTable(program.Name),
			Types:  NewTypeTable(program.Name),
			scopes: map[Node]*ScopeTable{},
		},
		classScopes: map[string]*ScopeTable{},
		diagnostics: diagnostics,
	}
	builder.tables.scopes[program] = builder.tables.Global
	var linked []*ClassAst
	for _, class := range program.Classes {
		if builder.buildClass(class) {
			linked = append(linked, class)
		}
	}
	// Base links are set once every class type exists.
	types := builder.tables.Types
	for _, class := range linked {
		types.SetBaseClass(types.ClassTypeFor(class.Name), types.ClassTypeFor(class.SuperClass))
	}
	return builder.tables
}

func (builder *symbolTableBuilder) insert(scope *ScopeTable, symbol *Symbol) bool {
	if err := scope.Insert(symbol); err != nil {
		builder.diagnostics.Add(&SemanticError{Message: err.Error(), Line: symbol.Line(), Name: symbol.Name()})
		return false
	}
	return true
}

// buildClass returns true when the class was linked below its base class.
func (builder *symbolTableBuilder) buildClass(class *ClassAst) bool {
	global, types := builder.tables.Global, builder.tables.Types
	classSymbol := NewSymbol(class.Name, ClassSymbol, types.ClassTypeFor(class.Name), class.LineNo)
	if !builder.insert(global, classSymbol) {
		return false
	}
	var classScope *ScopeTable
	linked := false
	if class.HasSuperClass() {
		// Only classes declared before this one can be extended, so the hierarchy has no cycle.
		if baseScope, ok := builder.classScopes[class.SuperClass]; ok {
			classScope = baseScope.AddDerivedClass(class.Name, global)
			linked = true
		} else {
			builder.diagnostics.Add(&SemanticError{
				Message: "Class '" + class.Name + "' extends from a non-existent class",
				Line:    class.LineNo,
				Name:    class.SuperClass,
			})
		}
	}
	if classScope == nil {
		classScope = global.AddChild(ClassScope, class.Name)
	}
	builder.classScopes[class.Name] = classScope
	builder.tables.scopes[class] = classScope
	for _, field := range class.Fields {
		builder.insert(classScope, NewSymbol(field.Name, FieldSymbol, types.TypeFor(field.Type, 0), field.LineNo))
	}
	for _, method := range class.Methods {
		builder.buildMethod(classScope, method)
	}
	return linked
}

func (builder *symbolTableBuilder) buildMethod(classScope *ScopeTable, method *MethodAst) {
	types := builder.tables.Types
	methodScope := classScope.AddChild(MethodScope, method.Name)
	builder.tables.scopes[method] = methodScope
	kind := VirtualMethodSymbol
	if method.IsStatic() {
		kind = StaticMethodSymbol
	}
	builder.insert(classScope, NewSymbol(method.Name, kind, types.MethodTypeFor(method), method.LineNo))
	for _, formal := range method.Formals {
		builder.insert(methodScope, NewSymbol(formal.Name, ParameterSymbol, types.TypeFor(formal.Type, 0), formal.LineNo))
	}
	builder.buildStatements(methodScope, method.Body)
}

func (builder *symbolTableBuilder) buildStatements(scope *ScopeTable, statements []StatementAst) {
	for _, statement := range statements {
		builder.buildStatement(scope, statement)
	}
}

func (builder *symbolTableBuilder) buildStatement(scope *ScopeTable, statement StatementAst) {
	switch stm := statement.(type) {
	case *LocalVariableStatement:
		builder.insert(scope, NewSymbol(stm.Name, LocalVariableSymbol, builder.tables.Types.TypeFor(stm.Type, 0), stm.LineNo))
	case *BlockStatement:
		blockScope := scope.AddChild(BlockScope, "statement block in "+scope.Name())
		builder.tables.scopes[stm] = blockScope
		builder.buildStatements(blockScope, stm.Statements)
	case *IfStatement:
		builder.buildStatement(scope, stm.Then)
		if stm.Else != nil {
			builder.buildStatement(scope, stm.Else)
		}
	case *WhileStatement:
		builder.buildStatement(scope, stm.Body)
	}
}
