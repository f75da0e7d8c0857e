// Package domain contains the vote and reputation ledger model: votable
// entities, the pure vote and acceptance transition functions, repository
// contracts, and sentinel errors. Nothing in this package performs I/O —
// transitions mutate in-memory values and return the reputation delta the
// caller must persist atomically with the entity.
package domain
