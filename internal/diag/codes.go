package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexTokenTooLong       Code = 1004

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectExpression   Code = 2002
	SynExpectIdentifier   Code = 2003
	SynUnclosedParen      Code = 2004
	SynUnclosedBrace      Code = 2005
	SynExpectBody         Code = 2006
	SynExpectStmtEnd      Code = 2007
	SynUnexpectedTopLevel Code = 2008
	SynExpectParams       Code = 2009
	SynDuplicateModifier  Code = 2010

	// Валидация
	ValInfo                 Code = 3000
	ValIntegerOverflow      Code = 3001
	ValAwaitOutsideAsync    Code = 3002
	ValInvalidAssignTarget  Code = 3003
	ValDuplicateArgument    Code = 3004
	ValShadowParameter      Code = 3005
	ValDuplicateParameter   Code = 3006
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		LexInfo:                "Lexical information",
		LexUnknownChar:         "Unknown character",
		LexUnterminatedString:  "Unterminated string",
		LexBadNumber:           "Bad number literal",
		LexTokenTooLong:        "Token too long",
		SynInfo:                "Syntax information",
		SynUnexpectedToken:     "Unexpected token",
		SynExpectExpression:    "Expected expression",
		SynExpectIdentifier:    "Expected identifier",
		SynUnclosedParen:       "Unclosed parenthesis",
		SynUnclosedBrace:       "Unclosed brace",
		SynExpectBody:          "Expected function body",
		SynExpectStmtEnd:       "Expected newline or ';' after statement",
		SynUnexpectedTopLevel:  "Unexpected top-level item",
		SynExpectParams:        "Expected parameter list",
		SynDuplicateModifier:   "Duplicate modifier",
		ValInfo:                "Validation information",
		ValIntegerOverflow:     "Integer literal out of range",
		ValAwaitOutsideAsync:   "Await outside of async function",
		ValInvalidAssignTarget: "Invalid assignment target",
		ValDuplicateArgument:   "Duplicate named argument",
		ValShadowParameter:     "Variable shadows a parameter",
		ValDuplicateParameter:  "Duplicate parameter name",
	}
)

// ID returns the stable textual identifier, e.g. "SYN2001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("VAL%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
