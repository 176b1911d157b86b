// Package repokit binds repositories to a sql seam without importing a driver
package repokit

import "oarr/internal/platform/store"

type (
	// Queryer is the read and write surface sql repos run against
	Queryer = store.RowQuerier
	// TxRunner is a Queryer that can also open transactions
	TxRunner = store.TxRunner
)

// Binder binds a repo to a Queryer: the pool, or a transaction
type Binder[T any] interface {
	Bind(Queryer) T
}

// MustBind binds b to q, panicking on a nil q since that is a wiring bug
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}
