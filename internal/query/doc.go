// Package query is a small demand-driven memoization engine.
//
// Inputs are tracked fields written between revisions. Memos are derived
// queries: their results are cached per key together with the inputs and
// memos they read. When a read finds an entry from an older revision it
// first verifies the recorded dependencies, recursively, and only executes
// the query again if one of them changed after the entry was last
// verified. A re-executed query whose result equals the previous one keeps
// the old result and its old change stamp (backdating), so dependents see
// no change.
//
// Reads run under a shared lock and writes under an exclusive one. A
// pending write raises a flag that every Fetch and Get checks; in-flight
// reads then unwind with ErrCancelled and Runtime.Read retries them once
// the write has landed. Memo entries are only committed on success.
package query
