package parser

import (
	"dada/internal/ir"
	"dada/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precComparison     = 1 // == != < <= > >=
	precAdditive       = 2 // + -
	precMultiplicative = 3 // * /
)

// binaryOp возвращает оператор и приоритет; ok=false - не бинарный оператор
func binaryOp(kind token.Kind) (op ir.Op, prec int, ok bool) {
	switch kind {
	case token.EqEq:
		return ir.OpEqualEqual, precComparison, true
	case token.BangEq:
		return ir.OpNotEqual, precComparison, true
	case token.Lt:
		return ir.OpLessThan, precComparison, true
	case token.LtEq:
		return ir.OpLessEqual, precComparison, true
	case token.Gt:
		return ir.OpGreaterThan, precComparison, true
	case token.GtEq:
		return ir.OpGreaterEqual, precComparison, true
	case token.Plus:
		return ir.OpPlus, precAdditive, true
	case token.Minus:
		return ir.OpMinus, precAdditive, true
	case token.Star:
		return ir.OpTimes, precMultiplicative, true
	case token.Slash:
		return ir.OpDividedBy, precMultiplicative, true
	default:
		return ir.OpInvalid, -1, false
	}
}

// compoundOp maps `+=`-style tokens to their arithmetic operator.
func compoundOp(kind token.Kind) (ir.Op, bool) {
	switch kind {
	case token.PlusAssign:
		return ir.OpPlus, true
	case token.MinusAssign:
		return ir.OpMinus, true
	case token.StarAssign:
		return ir.OpTimes, true
	case token.SlashAssign:
		return ir.OpDividedBy, true
	default:
		return ir.OpInvalid, false
	}
}

// storageMode maps a storage keyword to its mode.
func storageMode(kind token.Kind) (ir.StorageMode, bool) {
	switch kind {
	case token.KwShared:
		return ir.StorageShared, true
	case token.KwVar:
		return ir.StorageVar, true
	case token.KwAtomic:
		return ir.StorageAtomic, true
	default:
		return ir.StorageMy, false
	}
}
