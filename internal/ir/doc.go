// Package ir defines the entities of a compilation session and the small
// value types their tracked fields hold.
//
// Entities (Function, Class, Variable) are identity-keyed handles. Their
// field values live in the session database, which tracks when each field
// last changed; the handles themselves are plain comparable values that are
// safe to copy across goroutines. Trees never embed entities: a syntax or
// validated tree is reached from its Function only through the database's
// derived queries.
package ir
