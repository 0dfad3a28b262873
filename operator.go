package main

import "sort"

// OpPosition says where an operator sits relative to its operands.
type OpPosition int

const (
	Prefix  OpPosition = iota // -x, !x
	Infix                     // x + y
	Postfix                   // x++
)

func (p OpPosition) String() string {
	switch p {
	case Prefix:
		return "prefix"
	case Infix:
		return "infix"
	case Postfix:
		return "postfix"
	}
	return "unknown"
}

// Associativity controls how same-precedence infix chains fold.
type Associativity int

const (
	AssocLeft Associativity = iota
	AssocRight
	AssocNone // non-associative: same-precedence chaining is rejected
)

func (a Associativity) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	case AssocNone:
		return "none"
	}
	return "unknown"
}

// SymbolOrigin records where a symbol was declared. It is diagnostic
// metadata only and never affects resolution.
type SymbolOrigin int

const (
	OriginUser SymbolOrigin = iota
	OriginPrelude
)

// OperatorSignature is one overload's type signature. Overload selection by
// signature is the type checker's job, not the resolver's.
type OperatorSignature struct {
	ParamTypes []string
	ReturnType string
}

// OperatorInfo describes one declared operator overload. Precedence and
// Assoc are only meaningful for Infix, and must agree across all overloads
// of the same (symbol, position) pair.
type OperatorInfo struct {
	Op         string
	Position   OpPosition
	Precedence int // 0-100, higher binds tighter
	Assoc      Associativity
	Signature  OperatorSignature
	Origin     SymbolOrigin
}

type operatorKey struct {
	op       string
	position OpPosition
}

// OperatorTable maps (symbol, position) to the overloads declared for it.
type OperatorTable struct {
	operators map[operatorKey][]OperatorInfo
}

// NewOperatorTable returns an empty operator table.
func NewOperatorTable() *OperatorTable {
	return &OperatorTable{operators: make(map[operatorKey][]OperatorInfo)}
}

// AddOperator registers an overload.
func (t *OperatorTable) AddOperator(info OperatorInfo) {
	key := operatorKey{info.Op, info.Position}
	t.operators[key] = append(t.operators[key], info)
}

// FindOperator returns the first overload for (op, position), if any. The
// resolver only needs precedence and associativity, which are consistent
// across overloads, so the first entry suffices.
func (t *OperatorTable) FindOperator(op string, position OpPosition) (OperatorInfo, bool) {
	overloads := t.operators[operatorKey{op, position}]
	if len(overloads) == 0 {
		return OperatorInfo{}, false
	}
	return overloads[0], true
}

// FindOperators returns every overload for (op, position).
func (t *OperatorTable) FindOperators(op string, position OpPosition) []OperatorInfo {
	return t.operators[operatorKey{op, position}]
}

// FindAllOperators returns every overload for op at any position.
func (t *OperatorTable) FindAllOperators(op string) []OperatorInfo {
	var result []OperatorInfo
	for _, position := range []OpPosition{Prefix, Infix, Postfix} {
		result = append(result, t.operators[operatorKey{op, position}]...)
	}
	return result
}

// HasOperator reports whether any overload exists for (op, position).
func (t *OperatorTable) HasOperator(op string, position OpPosition) bool {
	return len(t.operators[operatorKey{op, position}]) > 0
}

// AllOperators returns every registered overload, sorted by symbol then
// position for stable dump output.
func (t *OperatorTable) AllOperators() []OperatorInfo {
	var result []OperatorInfo
	for _, overloads := range t.operators {
		result = append(result, overloads...)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Op != result[j].Op {
			return result[i].Op < result[j].Op
		}
		return result[i].Position < result[j].Position
	})
	return result
}

// Standard precedence levels used by the prelude.
const (
	PrecAssignment     = 10
	PrecLogicalOr      = 20
	PrecLogicalAnd     = 30
	PrecBitwiseOr      = 40
	PrecBitwiseXor     = 45
	PrecBitwiseAnd     = 50
	PrecEquality       = 55
	PrecRelational     = 60
	PrecShift          = 65
	PrecAdditive       = 70
	PrecMultiplicative = 80
	PrecPower          = 90
)
