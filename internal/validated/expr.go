package validated

import (
	"dada/internal/arena"
	"dada/internal/ir"
	"dada/internal/source"
)

// Expr is a handle to an expression node of one validated Tree.
type Expr struct{ id arena.ID }

// NamedExpr is a handle to a call argument.
type NamedExpr struct{ id arena.ID }

// LocalVariable is a handle to a local variable or parameter declaration.
type LocalVariable struct{ id arena.ID }

var NoExpr Expr

func (e Expr) IsValid() bool          { return e.id.IsValid() }
func (e Expr) Index() uint32          { return e.id.Index() }
func (e Expr) String() string         { return "vexpr" + e.id.String() }
func (n NamedExpr) IsValid() bool     { return n.id.IsValid() }
func (n NamedExpr) Index() uint32     { return n.id.Index() }
func (l LocalVariable) IsValid() bool { return l.id.IsValid() }
func (l LocalVariable) Index() uint32 { return l.id.Index() }

// ExprKind is the tag of ExprData.
type ExprKind uint8

const (
	// ExprError replaces a subtree that was rejected.
	ExprError ExprKind = iota
	ExprBooleanLiteral
	ExprIntegerLiteral
	ExprStringLiteral
	ExprLocalVariable
	ExprVariable
	ExprDot
	ExprAwait
	ExprCall
	ExprShare
	ExprLease
	ExprGive
	ExprIf
	ExprAtomic
	ExprLoop
	ExprBreak
	ExprSeq
	ExprOp
	ExprAssign
	ExprDeclare
	ExprUnit
)

func (k ExprKind) String() string {
	switch k {
	case ExprError:
		return "Error"
	case ExprBooleanLiteral:
		return "BooleanLiteral"
	case ExprIntegerLiteral:
		return "IntegerLiteral"
	case ExprStringLiteral:
		return "StringLiteral"
	case ExprLocalVariable:
		return "LocalVariable"
	case ExprVariable:
		return "Variable"
	case ExprDot:
		return "Dot"
	case ExprAwait:
		return "Await"
	case ExprCall:
		return "Call"
	case ExprShare:
		return "Share"
	case ExprLease:
		return "Lease"
	case ExprGive:
		return "Give"
	case ExprIf:
		return "If"
	case ExprAtomic:
		return "Atomic"
	case ExprLoop:
		return "Loop"
	case ExprBreak:
		return "Break"
	case ExprSeq:
		return "Seq"
	case ExprOp:
		return "Op"
	case ExprAssign:
		return "Assign"
	case ExprDeclare:
		return "Declare"
	case ExprUnit:
		return "Unit"
	default:
		return "Unknown"
	}
}

// ExprData is the record stored for a validated expression:
//
//	BooleanLiteral  Bool
//	IntegerLiteral  Int
//	StringLiteral   Word
//	LocalVariable   Local
//	Variable        Variable
//	Dot             Lhs . Word
//	Await/Share/Lease/Give/Atomic/Loop  Lhs
//	Call            Lhs (callee), Args
//	If              Lhs (condition), Rhs (then), Else (never absent)
//	Break           nothing; exits the innermost Loop
//	Seq             Exprs
//	Op              Lhs Op Rhs
//	Assign          Lhs (place) := Rhs
//	Declare         Local := Lhs
//	Unit, Error     nothing
type ExprData struct {
	Kind     ExprKind
	Bool     bool
	Int      uint64
	Word     source.Word
	Op       ir.Op
	Local    LocalVariable
	Variable ir.Variable
	Lhs      Expr
	Rhs      Expr
	Else     Expr
	Exprs    []Expr
	Args     []NamedExpr
}

// NamedExprData is a call argument. Name is NoWord for positional ones.
type NamedExprData struct {
	Name source.Word
	Expr Expr
}

// LocalVariableData declares a local. Param marks function parameters.
type LocalVariableData struct {
	Name  source.Word
	Mode  ir.StorageMode
	Param bool
}
