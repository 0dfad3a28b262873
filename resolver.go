package main

// Resolver rewrites flat operator sequences into binary/unary trees using
// the operator table built from declarations and the prelude. Resolution
// runs after symbol collection, so operators declared anywhere in the file
// are visible to every expression.
type Resolver struct {
	symbols *SymbolTable

	Errors ErrorCollection
}

func NewResolver(symbols *SymbolTable) *Resolver {
	return &Resolver{symbols: symbols}
}

// ResolveStmts resolves every expression reachable from stmts in place.
func (r *Resolver) ResolveStmts(stmts []Stmt) {
	for _, stmt := range stmts {
		r.ResolveStmt(stmt)
	}
}

func (r *Resolver) ResolveStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *LetStmt:
		if s.Init != nil {
			s.Init = r.ResolveExpr(s.Init)
		}
	case *FuncStmt:
		if s.Body != nil {
			r.ResolveStmt(s.Body)
		}
	case *OperatorDeclStmt:
		if s.Body != nil {
			r.ResolveStmt(s.Body)
		}
	case *IfStmt:
		s.Condition = r.ResolveExpr(s.Condition)
		r.ResolveStmt(s.Then)
		if s.Else != nil {
			r.ResolveStmt(s.Else)
		}
	case *ReturnStmt:
		if s.Value != nil {
			s.Value = r.ResolveExpr(s.Value)
		}
	case *WhileStmt:
		s.Condition = r.ResolveExpr(s.Condition)
		r.ResolveStmt(s.Body)
	case *ExprStmt:
		s.Expr = r.ResolveExpr(s.Expr)
	case *BlockStmt:
		for _, inner := range s.Stmts {
			r.ResolveStmt(inner)
		}
	}
}

// ResolveExpr returns the resolved form of expr. On a resolution error the
// original expression is returned unchanged so later stages still have a
// tree to print; the error is recorded in r.Errors.
func (r *Resolver) ResolveExpr(expr Expr) Expr {
	switch e := expr.(type) {
	case *OperatorSeqExpr:
		resolved := r.resolveOperatorSeq(e)
		if resolved == nil {
			return expr
		}
		return resolved
	case *CallExpr:
		e.Callee = r.ResolveExpr(e.Callee)
		for i, arg := range e.Args {
			e.Args[i] = r.ResolveExpr(arg)
		}
		return expr
	case *UnaryExpr:
		e.Operand = r.ResolveExpr(e.Operand)
		return expr
	case *BinaryExpr:
		e.Left = r.ResolveExpr(e.Left)
		e.Right = r.ResolveExpr(e.Right)
		return expr
	default:
		// Literals and identifiers resolve to themselves.
		return expr
	}
}

type infixUse struct {
	op         string
	precedence int
	assoc      Associativity
	loc        SourceLocation
}

// resolveOperatorSeq folds a flat item sequence in two phases. Phase one
// greedily binds unary operators: a run of operators before an operand must
// all be declared prefix, and operators after an operand bind as postfix
// for as long as a postfix declaration exists. What remains alternates
// operand / infix operator. Phase two splits recursively at the
// lowest-precedence infix operator. Returns nil after reporting an error.
func (r *Resolver) resolveOperatorSeq(seq *OperatorSeqExpr) Expr {
	var operands []Expr
	var infixes []infixUse

	idx := 0
	items := seq.Items

	for idx < len(items) {
		// Run of prefix operators.
		var prefixOps []string
		for idx < len(items) && items[idx].IsOperator() {
			op := items[idx].Op
			if !r.symbols.HasOperator(op, Prefix) {
				r.errorAt(items[idx].Loc, "Operator '"+op+"' cannot be used as prefix operator here")
				return nil
			}
			prefixOps = append(prefixOps, op)
			idx++
		}

		if idx >= len(items) {
			r.errorAt(seq.Loc, "Expected operand after prefix operators")
			return nil
		}

		current := r.resolveOperand(items[idx].Operand)
		if current == nil {
			return nil
		}
		idx++

		// Prefix operators bind right to left.
		for i := len(prefixOps) - 1; i >= 0; i-- {
			current = &UnaryExpr{Op: prefixOps[i], Operand: current, Position: Prefix, Loc: seq.Loc}
		}

		// Postfix operators bind greedily until one is not declared postfix;
		// that one (and the rest of the run) is left for the next cycle.
		for idx < len(items) && items[idx].IsOperator() {
			op := items[idx].Op
			if !r.symbols.HasOperator(op, Postfix) {
				break
			}
			current = &UnaryExpr{Op: op, Operand: current, Position: Postfix, Loc: seq.Loc}
			idx++
		}

		operands = append(operands, current)

		if idx < len(items) {
			if !items[idx].IsOperator() {
				r.errorAt(seq.Loc, "Expected infix operator between operands")
				return nil
			}

			op := items[idx].Op
			info, ok := r.symbols.FindOperator(op, Infix)
			if !ok {
				r.errorAt(items[idx].Loc, "Operator '"+op+"' cannot be used as infix operator")
				return nil
			}

			infixes = append(infixes, infixUse{
				op:         op,
				precedence: info.Precedence,
				assoc:      info.Assoc,
				loc:        items[idx].Loc,
			})
			idx++
		}
	}

	if len(infixes) != len(operands)-1 {
		r.errorAt(seq.Loc, "Operator sequence structure error: "+
			itoa(len(infixes))+" infix operators for "+itoa(len(operands))+" operands")
		return nil
	}

	if len(operands) == 1 {
		return operands[0]
	}

	return r.buildInfixTree(operands, infixes, 0, len(operands)-1)
}

// resolveOperand resolves an operand slot. Parenthesized subexpressions
// arrive as nested operator sequences and go through full resolution; call
// arguments and callees recurse too.
func (r *Resolver) resolveOperand(operand Expr) Expr {
	switch e := operand.(type) {
	case *OperatorSeqExpr:
		return r.resolveOperatorSeq(e)
	case *CallExpr:
		callee := r.resolveOperand(e.Callee)
		if callee == nil {
			return nil
		}
		e.Callee = callee
		for i, arg := range e.Args {
			resolved := r.resolveOperand(arg)
			if resolved == nil {
				return nil
			}
			e.Args[i] = resolved
		}
		return e
	default:
		return operand
	}
}

// buildInfixTree splits operands[start..end] at the lowest-precedence
// operator. Ties go to the rightmost operator when left-associative and
// the leftmost when right-associative. Operators sharing a precedence
// level must agree on associativity, and non-associative operators cannot
// be chained at all.
func (r *Resolver) buildInfixTree(operands []Expr, infixes []infixUse, start, end int) Expr {
	if start == end {
		return operands[start]
	}

	lowestPrec := 1000
	splitPos := start
	found := false
	var lowestAssoc Associativity

	// Infix i sits between operands[i] and operands[i+1].
	for i := start; i < end; i++ {
		prec := infixes[i].precedence
		assoc := infixes[i].assoc

		if prec < lowestPrec {
			lowestPrec = prec
			splitPos = i
			lowestAssoc = assoc
			found = true
			continue
		}
		if prec != lowestPrec {
			continue
		}

		if assoc != lowestAssoc {
			r.errorAt(infixes[i].loc, "Mixed associativity at same precedence level: operator '"+
				infixes[i].op+"' (assoc "+assoc.String()+") conflicts with operator '"+
				infixes[splitPos].op+"' (assoc "+lowestAssoc.String()+") at precedence "+itoa(prec))
			return nil
		}
		if assoc == AssocNone {
			r.errorAt(infixes[i].loc, "Non-associative operator '"+infixes[i].op+
				"' cannot be chained with operator '"+infixes[splitPos].op+
				"' at precedence "+itoa(prec))
			return nil
		}
		if assoc == AssocLeft {
			splitPos = i
		}
	}

	if !found {
		return operands[start]
	}

	left := r.buildInfixTree(operands, infixes, start, splitPos)
	if left == nil {
		return nil
	}
	right := r.buildInfixTree(operands, infixes, splitPos+1, end)
	if right == nil {
		return nil
	}

	return &BinaryExpr{Op: infixes[splitPos].op, Left: left, Right: right, Loc: infixes[splitPos].loc}
}

func (r *Resolver) errorAt(loc SourceLocation, message string) {
	r.Errors.Add(Diagnostic{
		Message:   message,
		Line:      loc.Line,
		Column:    loc.Column,
		EndColumn: loc.EndColumn,
	})
}
