package syntax

import (
	"dada/internal/arena"
	"dada/internal/ir"
	"dada/internal/source"
)

// Expr is a handle to an expression node of one Tree.
type Expr struct{ id arena.ID }

// NamedExpr is a handle to a call argument (`name: expr`).
type NamedExpr struct{ id arena.ID }

// Block is a handle to an ordered sequence of statement expressions.
type Block struct{ id arena.ID }

var NoExpr Expr

func (e Expr) IsValid() bool      { return e.id.IsValid() }
func (e Expr) Index() uint32      { return e.id.Index() }
func (e Expr) String() string     { return "expr" + e.id.String() }
func (n NamedExpr) IsValid() bool { return n.id.IsValid() }
func (n NamedExpr) Index() uint32 { return n.id.Index() }
func (b Block) IsValid() bool     { return b.id.IsValid() }
func (b Block) Index() uint32     { return b.id.Index() }

// ExprKind is the tag of ExprData.
type ExprKind uint8

const (
	// ExprError stands in for input that could not be parsed.
	ExprError ExprKind = iota
	ExprId
	ExprBooleanLiteral
	ExprIntegerLiteral
	ExprStringLiteral
	ExprDot
	ExprAwait
	ExprCall
	ExprShare
	ExprLease
	ExprGive
	ExprVar
	ExprParenthesized
	ExprIf
	ExprAtomic
	ExprLoop
	ExprWhile
	ExprBlock
	ExprOp
	ExprOpEq
	ExprAssign
)

func (k ExprKind) String() string {
	switch k {
	case ExprError:
		return "Error"
	case ExprId:
		return "Id"
	case ExprBooleanLiteral:
		return "BooleanLiteral"
	case ExprIntegerLiteral:
		return "IntegerLiteral"
	case ExprStringLiteral:
		return "StringLiteral"
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
	case ExprVar:
		return "Var"
	case ExprParenthesized:
		return "Parenthesized"
	case ExprIf:
		return "If"
	case ExprAtomic:
		return "Atomic"
	case ExprLoop:
		return "Loop"
	case ExprWhile:
		return "While"
	case ExprBlock:
		return "Block"
	case ExprOp:
		return "Op"
	case ExprOpEq:
		return "OpEq"
	case ExprAssign:
		return "Assign"
	default:
		return "Unknown"
	}
}

// ExprData is the record stored for an expression. Which fields are
// meaningful depends on Kind:
//
//	Id              Word
//	BooleanLiteral  Bool
//	IntegerLiteral  Word (literal text, underscores kept)
//	StringLiteral   Word
//	Dot             Lhs . Word
//	Await/Share/Lease/Give/Parenthesized/Atomic/Loop  Lhs
//	Call            Lhs (callee), Args
//	Var             Mode, Word (name), Lhs (initializer)
//	If              Lhs (condition), Rhs (then block), Else (optional)
//	While           Lhs (condition), Rhs (body block)
//	Block           Block
//	Op/OpEq         Lhs Op Rhs
//	Assign          Lhs := Rhs
//	Error           nothing
type ExprData struct {
	Kind  ExprKind
	Word  source.Word
	Bool  bool
	Op    ir.Op
	Mode  ir.StorageMode
	Lhs   Expr
	Rhs   Expr
	Else  Expr
	Block Block
	Args  []NamedExpr
}

// NamedExprData is a call argument. Name is NoWord for positional arguments.
type NamedExprData struct {
	Name source.Word
	Expr Expr
}

// BlockData is the ordered list of statements of a block.
type BlockData struct {
	Exprs []Expr
}

// Param is a declared function parameter.
type Param struct {
	Mode ir.StorageMode
	Name source.Word
}
