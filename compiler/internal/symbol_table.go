package internal

import (
	"errors"
	"fmt"
	"strings"
)

type SymbolKind int

const (
	ClassSymbol SymbolKind = iota
	FieldSymbol
	VirtualMethodSymbol
	StaticMethodSymbol
	LocalVariableSymbol
	ParameterSymbol
)

var symbolKindNames = []string{"Class", "Field", "Virtual method", "Static method", "Local variable", "Parameter"}

func (kind SymbolKind) String() string {
	return symbolKindNames[kind]
}

func (kind SymbolKind) IsMethod() bool {
	return kind == VirtualMethodSymbol || kind == StaticMethodSymbol
}

// Symbol is a declared name. It is never changed after the symbol table builder creates it.
type Symbol struct {
	name   string
	kind   SymbolKind
	typeID TypeID
	line   int
}

func NewSymbol(name string, kind SymbolKind, typeID TypeID, line int) *Symbol {
	return &Symbol{name: name, kind: kind, typeID: typeID, line: line}
}

func (symbol *Symbol) Name() string {
	return symbol.name
}

func (symbol *Symbol) Kind() SymbolKind {
	return symbol.kind
}

func (symbol *Symbol) TypeID() TypeID {
	return symbol.typeID
}

func (symbol *Symbol) Line() int {
	return symbol.line
}

type ScopeKind int

const (
	GlobalScope ScopeKind = iota
	ClassScope
	MethodScope
	BlockScope
)

var scopeKindNames = []string{
	"Global Symbol Table", "Class Symbol Table", "Method Symbol Table", "Statement Block Symbol Table",
}

func (kind ScopeKind) String() string {
	return scopeKindNames[kind]
}

// ScopeTable is a node of the scope tree.
//
// owner is the lexically enclosing scope. parent is where lookups continue when a name isn't declared
// locally: the base class scope for a derived class, the owner otherwise. A scope is listed among the children
// of its parent, so a derived class hangs below its base class.
type ScopeTable struct {
	kind     ScopeKind
	name     string
	symbols  map[string]*Symbol
	ordered  []*Symbol
	owner    *ScopeTable
	parent   *ScopeTable
	children []*ScopeTable
}

func NewGlobalScopeTable(programName string) *ScopeTable {
	return &ScopeTable{kind: GlobalScope, name: programName, symbols: map[string]*Symbol{}}
}

func newScopeTable(kind ScopeKind, name string, owner, parent *ScopeTable) *ScopeTable {
	scope := &ScopeTable{kind: kind, name: name, symbols: map[string]*Symbol{}, owner: owner, parent: parent}
	parent.children = append(parent.children, scope)
	return scope
}

// AddChild creates a scope nested in scope.
func (scope *ScopeTable) AddChild(kind ScopeKind, name string) *ScopeTable {
	return newScopeTable(kind, name, scope, scope)
}

// AddDerivedClass creates the scope of a class that extends the class of scope. The new scope is owned by
// global but looks names up through scope.
func (scope *ScopeTable) AddDerivedClass(name string, global *ScopeTable) *ScopeTable {
	return newScopeTable(ClassScope, name, global, scope)
}

func (scope *ScopeTable) Kind() ScopeKind {
	return scope.kind
}

func (scope *ScopeTable) Name() string {
	return scope.name
}

func (scope *ScopeTable) Parent() *ScopeTable {
	return scope.parent
}

func (scope *ScopeTable) Owner() *ScopeTable {
	return scope.owner
}

func (scope *ScopeTable) Children() []*ScopeTable {
	return scope.children
}

// Symbols returns the symbols in insertion order.
func (scope *ScopeTable) Symbols() []*Symbol {
	return append([]*Symbol(nil), scope.ordered...)
}

// Insert adds symbol to scope. A name already declared in this very scope is an error and the existing
// symbol is kept.
func (scope *ScopeTable) Insert(symbol *Symbol) error {
	if _, ok := scope.symbols[symbol.name]; ok {
		return errors.New(fmt.Sprintf("A symbol with this name already exists in this scope: %s", symbol.name))
	}
	scope.symbols[symbol.name] = symbol
	scope.ordered = append(scope.ordered, symbol)
	return nil
}

func (scope *ScopeTable) LookupLocal(name string) (*Symbol, bool) {
	symbol, ok := scope.symbols[name]
	return symbol, ok
}

// Lookup searches scope and then its parents.
func (scope *ScopeTable) Lookup(name string) (*Symbol, error) {
	for current := scope; current != nil; current = current.parent {
		if symbol, ok := current.symbols[name]; ok {
			return symbol, nil
		}
	}
	return nil, errors.New(fmt.Sprintf("Couldn't find a symbol with name: %s", name))
}

// LookupScope finds a scope by name among the children of scope, then among the children of each parent.
// Class scopes nested under their base class are found from anywhere. Returns nil when not found.
func (scope *ScopeTable) LookupScope(name string) *ScopeTable {
	for current := scope; current != nil; current = current.parent {
		if found := current.findChild(name); found != nil {
			return found
		}
	}
	return nil
}

func (scope *ScopeTable) findChild(name string) *ScopeTable {
	for _, child := range scope.children {
		if child.name == name {
			return child
		}
	}
	return scope.findDerivedClass(name)
}

func (scope *ScopeTable) findDerivedClass(name string) *ScopeTable {
	for _, child := range scope.children {
		if child.kind != ClassScope {
			continue
		}
		if child.name == name {
			return child
		}
		if found := child.findDerivedClass(name); found != nil {
			return found
		}
	}
	return nil
}

// BaseClassScope returns the scope of the base class of a class scope, or nil.
func (scope *ScopeTable) BaseClassScope() *ScopeTable {
	if scope.kind != ClassScope || scope.parent == nil || scope.parent.kind != ClassScope {
		return nil
	}
	return scope.parent
}

// LookupMember searches the class scope and then its base classes, never leaving the class chain.
func (scope *ScopeTable) LookupMember(name string) (*Symbol, *ScopeTable) {
	for current := scope; current != nil && current.kind == ClassScope; current = current.parent {
		if symbol, ok := current.symbols[name]; ok {
			return symbol, current
		}
	}
	return nil, nil
}

// EnclosingMethod returns the nearest method scope following the lexical owners, or nil.
func (scope *ScopeTable) EnclosingMethod() *ScopeTable {
	return scope.enclosing(MethodScope)
}

func (scope *ScopeTable) EnclosingClass() *ScopeTable {
	return scope.enclosing(ClassScope)
}

func (scope *ScopeTable) enclosing(kind ScopeKind) *ScopeTable {
	for current := scope; current != nil; current = current.owner {
		if current.kind == kind {
			return current
		}
	}
	return nil
}

// Dump renders the scope and all its children.
func (scope *ScopeTable) Dump(typeTable *TypeTable) string {
	sb := &strings.Builder{}
	scope.dump(sb, typeTable)
	return sb.String()
}

func (scope *ScopeTable) dump(sb *strings.Builder, typeTable *TypeTable) {
	fmt.Fprintf(sb, "%s: %s\n", scope.kind, scope.name)
	for _, symbol := range scope.ordered {
		switch symbol.kind {
		case ClassSymbol:
			fmt.Fprintf(sb, "    %s: %s\n", symbol.kind, symbol.name)
		case VirtualMethodSymbol, StaticMethodSymbol:
			fmt.Fprintf(sb, "    %s: %s %s\n", symbol.kind, symbol.name, typeTable.TypeName(symbol.typeID))
		default:
			fmt.Fprintf(sb, "    %s: %s %s\n", symbol.kind, typeTable.TypeName(symbol.typeID), symbol.name)
		}
	}
	if len(scope.children) == 0 {
		sb.WriteString("\n")
		return
	}
	names := make([]string, len(scope.children))
	for i, child := range scope.children {
		names[i] = child.name
	}
	fmt.Fprintf(sb, "Children tables: %s\n\n", strings.Join(names, ", "))
	for _, child := range scope.children {
		child.dump(sb, typeTable)
	}
}
