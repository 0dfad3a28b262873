package main

import "sort"

// FunctionSignature is one function overload recorded in the global table.
type FunctionSignature struct {
	Name              string
	ParamTypes        []string
	ReturnType        string // empty for void
	IsDeclarationOnly bool   // true when the func has no body
	Origin            SymbolOrigin
}

// SymbolTable holds the global function and operator tables. Prelude and
// user symbols share the one table; Origin tags them apart for diagnostics.
type SymbolTable struct {
	functions map[string][]FunctionSignature
	operators *OperatorTable
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		functions: make(map[string][]FunctionSignature),
		operators: NewOperatorTable(),
	}
}

// AddFunction records a function overload.
func (st *SymbolTable) AddFunction(sig FunctionSignature) {
	st.functions[sig.Name] = append(st.functions[sig.Name], sig)
}

// AddOperator records an operator overload.
func (st *SymbolTable) AddOperator(info OperatorInfo) {
	st.operators.AddOperator(info)
}

// FindFunctions returns all overloads of name.
func (st *SymbolTable) FindFunctions(name string) []FunctionSignature {
	return st.functions[name]
}

// FindOperator returns the first overload of (op, position).
func (st *SymbolTable) FindOperator(op string, position OpPosition) (OperatorInfo, bool) {
	return st.operators.FindOperator(op, position)
}

// FindOperators returns all overloads of (op, position).
func (st *SymbolTable) FindOperators(op string, position OpPosition) []OperatorInfo {
	return st.operators.FindOperators(op, position)
}

// FindAllOperators returns all overloads of op regardless of position.
func (st *SymbolTable) FindAllOperators(op string) []OperatorInfo {
	return st.operators.FindAllOperators(op)
}

// HasFunction reports whether any overload of name exists.
func (st *SymbolTable) HasFunction(name string) bool {
	return len(st.functions[name]) > 0
}

// HasOperator reports whether any overload of (op, position) exists.
func (st *SymbolTable) HasOperator(op string, position OpPosition) bool {
	return st.operators.HasOperator(op, position)
}

// AllFunctionNames returns the declared function names, sorted.
func (st *SymbolTable) AllFunctionNames() []string {
	names := make([]string, 0, len(st.functions))
	for name := range st.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllOperators returns every operator overload, sorted by symbol then
// position.
func (st *SymbolTable) AllOperators() []OperatorInfo {
	return st.operators.AllOperators()
}

// ===== Scopes =====

// ScopeKind distinguishes the three scope levels.
type ScopeKind int

const (
	GlobalScope ScopeKind = iota
	FunctionScope
	BlockScope
)

// VariableBinding is one variable declared in a scope.
type VariableBinding struct {
	Name   string
	Type   string // empty until inferred
	Line   int
	Column int
	Origin SymbolOrigin
}

// Scope is one node of the lexical scope tree. A scope owns its children;
// the parent pointer is a non-owning back-reference used only for outward
// lookup.
type Scope struct {
	kind        ScopeKind
	parent      *Scope
	description string
	variables   map[string]VariableBinding
	children    []*Scope
}

// NewScope creates a scope under parent (nil for the global scope).
func NewScope(kind ScopeKind, parent *Scope, description string) *Scope {
	return &Scope{
		kind:        kind,
		parent:      parent,
		description: description,
		variables:   make(map[string]VariableBinding),
	}
}

// AddVariable binds a variable in this scope. Re-binding the same name
// overwrites; the builder rejects redeclarations before calling this.
func (s *Scope) AddVariable(binding VariableBinding) {
	s.variables[binding.Name] = binding
}

// HasVariableLocal checks this scope only.
func (s *Scope) HasVariableLocal(name string) bool {
	_, ok := s.variables[name]
	return ok
}

// HasVariable checks this scope and all ancestors.
func (s *Scope) HasVariable(name string) bool {
	if s.HasVariableLocal(name) {
		return true
	}
	if s.parent != nil {
		return s.parent.HasVariable(name)
	}
	return false
}

// FindVariable looks the name up through the parent chain.
func (s *Scope) FindVariable(name string) (VariableBinding, bool) {
	if binding, ok := s.variables[name]; ok {
		return binding, true
	}
	if s.parent != nil {
		return s.parent.FindVariable(name)
	}
	return VariableBinding{}, false
}

// LocalVariables returns this scope's own bindings, sorted by name.
func (s *Scope) LocalVariables() []VariableBinding {
	result := make([]VariableBinding, 0, len(s.variables))
	for _, binding := range s.variables {
		result = append(result, binding)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (s *Scope) Kind() ScopeKind      { return s.kind }
func (s *Scope) Parent() *Scope       { return s.parent }
func (s *Scope) Description() string  { return s.description }
func (s *Scope) Children() []*Scope   { return s.children }
func (s *Scope) addChild(child *Scope) { s.children = append(s.children, child) }

// ScopedSymbolTable combines the global SymbolTable with the scope tree.
// Scopes are pushed and popped stack-wise during collection, but the built
// tree persists afterwards for diagnostic dumping.
type ScopedSymbolTable struct {
	globals *SymbolTable
	root    *Scope
	current *Scope
}

// NewScopedSymbolTable creates a table with a fresh global scope.
func NewScopedSymbolTable() *ScopedSymbolTable {
	root := NewScope(GlobalScope, nil, "")
	return &ScopedSymbolTable{
		globals: NewSymbolTable(),
		root:    root,
		current: root,
	}
}

// Globals exposes the underlying global table; the resolver reads
// operators through it.
func (t *ScopedSymbolTable) Globals() *SymbolTable { return t.globals }

// AddFunction records a global function.
func (t *ScopedSymbolTable) AddFunction(sig FunctionSignature) {
	t.globals.AddFunction(sig)
}

// AddOperator records a global operator.
func (t *ScopedSymbolTable) AddOperator(info OperatorInfo) {
	t.globals.AddOperator(info)
}

// AddVariable binds a variable in the current scope.
func (t *ScopedSymbolTable) AddVariable(binding VariableBinding) {
	t.current.AddVariable(binding)
}

// FindVariable resolves a name through the current scope chain.
func (t *ScopedSymbolTable) FindVariable(name string) (VariableBinding, bool) {
	return t.current.FindVariable(name)
}

// PushScope enters a new child scope of the given kind.
func (t *ScopedSymbolTable) PushScope(kind ScopeKind, description string) {
	scope := NewScope(kind, t.current, description)
	t.current.addChild(scope)
	t.current = scope
}

// PopScope returns to the parent scope. Popping the global scope is a no-op.
func (t *ScopedSymbolTable) PopScope() {
	if t.current.parent != nil {
		t.current = t.current.parent
	}
}

// CurrentScope returns the active scope.
func (t *ScopedSymbolTable) CurrentScope() *Scope { return t.current }

// RootScope returns the global scope, the root of the persisted scope tree.
func (t *ScopedSymbolTable) RootScope() *Scope { return t.root }
