package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident

	KwFn     // fn
	KwAsync  // async
	KwAtomic // atomic
	KwClass  // class
	KwIf     // if
	KwElse   // else
	KwWhile  // while
	KwLoop   // loop
	KwTrue   // true
	KwFalse  // false
	KwShare  // share
	KwLease  // lease
	KwGive   // give
	KwAwait  // await
	KwShared // shared
	KwVar    // var
	KwBreak  // break

	IntLit
	StringLit

	Plus        // +
	Minus       // -
	Star        // *
	Slash       // /
	Assign      // =
	ColonAssign // :=
	PlusAssign  // +=
	MinusAssign // -=
	StarAssign  // *=
	SlashAssign // /=
	EqEq        // ==
	BangEq      // !=
	Lt          // <
	LtEq        // <=
	Gt          // >
	GtEq        // >=
	Arrow       // ->
	Dot         // .
	Comma       // ,
	Colon       // :
	Semicolon   // ;
	LParen      // (
	RParen      // )
	LBrace      // {
	RBrace      // }
	LBracket    // [
	RBracket    // ]
)

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF", Ident: "Ident",
	KwFn: "fn", KwAsync: "async", KwAtomic: "atomic", KwClass: "class",
	KwIf: "if", KwElse: "else", KwWhile: "while", KwLoop: "loop",
	KwTrue: "true", KwFalse: "false", KwShare: "share", KwLease: "lease",
	KwGive: "give", KwAwait: "await", KwShared: "shared", KwVar: "var",
	KwBreak: "break",
	IntLit: "IntLit", StringLit: "StringLit",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Assign: "=",
	ColonAssign: ":=", PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=",
	SlashAssign: "/=", EqEq: "==", BangEq: "!=", Lt: "<", LtEq: "<=",
	Gt: ">", GtEq: ">=", Arrow: "->", Dot: ".", Comma: ",", Colon: ":",
	Semicolon: ";", LParen: "(", RParen: ")", LBrace: "{", RBrace: "}",
	LBracket: "[", RBracket: "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k >= KwFn && k <= KwBreak }
