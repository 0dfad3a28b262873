package main

import "os"

// SymbolTableBuilder walks parsed statements and populates a scoped symbol
// table: global functions and operators, plus variable bindings per scope.
// It is a declaration pass only; expressions are never evaluated here.
type SymbolTableBuilder struct {
	collectingPrelude bool
	nextBlockNum      int

	Errors ErrorCollection
}

func NewSymbolTableBuilder() *SymbolTableBuilder {
	return &SymbolTableBuilder{}
}

// Collect processes a statement list into symbols. Returns false if any
// errors were recorded.
func (b *SymbolTableBuilder) Collect(stmts []Stmt, symbols *ScopedSymbolTable) bool {
	b.nextBlockNum = 0
	for _, stmt := range stmts {
		b.processStmt(stmt, symbols)
	}
	return !b.Errors.HasErrors()
}

// LoadPrelude reads, lexes, parses, and collects a prelude file. Symbols
// collected here are tagged with the prelude origin so tooling can
// distinguish them from user declarations.
func (b *SymbolTableBuilder) LoadPrelude(path string, symbols *ScopedSymbolTable) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		b.error("Failed to open prelude file: "+path, 0, 0)
		return false
	}
	return b.LoadPreludeSource(string(content), symbols)
}

// LoadPreludeSource collects prelude declarations from source text.
func (b *SymbolTableBuilder) LoadPreludeSource(source string, symbols *ScopedSymbolTable) bool {
	lexer := NewLexer(source)
	tokens := lexer.TokenizeAll()

	for _, tok := range tokens {
		if tok.Kind == TokenError {
			b.error("Lexer error in prelude: "+tok.Lexeme, tok.Line, tok.Column)
			return false
		}
	}

	parser := NewParser(tokens)
	stmts := parser.ParseProgram()

	if parser.Errors.HasErrors() {
		for _, diag := range parser.Errors.All() {
			b.error("Parse error in prelude: "+diag.Message, diag.Line, diag.Column)
		}
		return false
	}

	b.collectingPrelude = true
	ok := b.Collect(stmts, symbols)
	b.collectingPrelude = false

	return ok
}

func (b *SymbolTableBuilder) processStmt(stmt Stmt, symbols *ScopedSymbolTable) {
	switch s := stmt.(type) {
	case *FuncStmt:
		b.processFuncDecl(s, symbols)
	case *OperatorDeclStmt:
		b.processOperatorDecl(s, symbols)
	case *LetStmt:
		b.processLet(s, symbols)
	case *BlockStmt:
		blockNum := b.nextBlockNum
		b.nextBlockNum++
		b.processBlock(s, symbols, blockNum)
	case *IfStmt:
		// Branch blocks get scopes; the condition declares nothing.
		b.processStmt(s.Then, symbols)
		if s.Else != nil {
			b.processStmt(s.Else, symbols)
		}
	case *WhileStmt:
		b.processStmt(s.Body, symbols)
	}
}

func (b *SymbolTableBuilder) processFuncDecl(fn *FuncStmt, symbols *ScopedSymbolTable) {
	origin := b.origin()

	if symbols.CurrentScope().Kind() != GlobalScope {
		b.error("Nested function definitions are not yet supported (closures unimplemented)",
			fn.Loc.Line, fn.Loc.Column)
		return
	}

	var paramTypes []string
	for _, param := range fn.Params {
		if param.Type == nil {
			b.error("Function parameter '"+param.Name+"' requires explicit type (generics unimplemented)",
				param.Loc.Line, param.Loc.Column)
			return
		}
		paramTypes = append(paramTypes, param.Type.Name)
	}

	returnType := ""
	if fn.ReturnType != nil {
		returnType = fn.ReturnType.Name
	}

	symbols.AddFunction(FunctionSignature{
		Name:              fn.Name,
		ParamTypes:        paramTypes,
		ReturnType:        returnType,
		IsDeclarationOnly: fn.Body == nil,
		Origin:            origin,
	})

	if fn.Body != nil {
		symbols.PushScope(FunctionScope, "function "+fn.Name)

		for _, param := range fn.Params {
			symbols.AddVariable(VariableBinding{
				Name:   param.Name,
				Type:   param.Type.Name,
				Line:   param.Loc.Line,
				Column: param.Loc.Column,
				Origin: origin,
			})
		}

		// The body goes through the block path, so it sits in its own
		// block scope nested under the function scope.
		b.processStmt(fn.Body, symbols)

		symbols.PopScope()
	}
}

func (b *SymbolTableBuilder) processOperatorDecl(op *OperatorDeclStmt, symbols *ScopedSymbolTable) {
	origin := b.origin()

	var paramTypes []string
	for _, param := range op.Params {
		if param.Type == nil {
			b.error("Operator parameter requires explicit type (generics unimplemented)",
				param.Loc.Line, param.Loc.Column)
			return
		}
		paramTypes = append(paramTypes, param.Type.Name)
	}

	if op.ReturnType == nil {
		b.error("Operator must have explicit return type", op.Loc.Line, op.Loc.Column)
		return
	}

	symbols.AddOperator(OperatorInfo{
		Op:         op.Op,
		Position:   op.Position,
		Precedence: op.Precedence,
		Assoc:      op.Assoc,
		Signature: OperatorSignature{
			ParamTypes: paramTypes,
			ReturnType: op.ReturnType.Name,
		},
		Origin: origin,
	})
}

func (b *SymbolTableBuilder) processLet(let *LetStmt, symbols *ScopedSymbolTable) {
	if symbols.CurrentScope().HasVariableLocal(let.Name) {
		b.error("Variable '"+let.Name+"' already defined in current scope",
			let.Loc.Line, let.Loc.Column)
		return
	}

	typeName := ""
	if let.Type != nil {
		typeName = let.Type.Name
	}

	symbols.AddVariable(VariableBinding{
		Name:   let.Name,
		Type:   typeName,
		Line:   let.Loc.Line,
		Column: let.Loc.Column,
		Origin: b.origin(),
	})
}

func (b *SymbolTableBuilder) processBlock(block *BlockStmt, symbols *ScopedSymbolTable, blockNum int) {
	desc := "block #" + itoa(blockNum) + " at line " + itoa(block.Loc.Line)
	symbols.PushScope(BlockScope, desc)

	for _, stmt := range block.Stmts {
		b.processStmt(stmt, symbols)
	}

	symbols.PopScope()
}

func (b *SymbolTableBuilder) origin() SymbolOrigin {
	if b.collectingPrelude {
		return OriginPrelude
	}
	return OriginUser
}

func (b *SymbolTableBuilder) error(message string, line, column int) {
	b.Errors.Add(Diagnostic{Message: message, Line: line, Column: column, EndColumn: column + 1})
}
