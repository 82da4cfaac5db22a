// Package token defines the lexical vocabulary of dada source: token kinds,
// keywords and the trivia (spaces, newlines, comments) attached to tokens.
//
// Newlines matter to the parser: they terminate statements and keep a call's
// argument list on the callee's line. Tokens therefore keep their leading
// trivia, and HasNewlineBefore answers the question directly.
package token
