package ir

// Op is a binary operator.
type Op uint8

const (
	OpInvalid Op = iota
	OpPlus
	OpMinus
	OpTimes
	OpDividedBy
	OpEqualEqual
	OpNotEqual
	OpLessThan
	OpLessEqual
	OpGreaterThan
	OpGreaterEqual
)

func (op Op) String() string {
	switch op {
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	case OpTimes:
		return "*"
	case OpDividedBy:
		return "/"
	case OpEqualEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLessThan:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreaterThan:
		return ">"
	case OpGreaterEqual:
		return ">="
	default:
		return "<invalid>"
	}
}

// IsComparison reports whether op yields a boolean.
func (op Op) IsComparison() bool {
	switch op {
	case OpEqualEqual, OpNotEqual, OpLessThan, OpLessEqual, OpGreaterThan, OpGreaterEqual:
		return true
	default:
		return false
	}
}
