package repokit_test

import (
	"testing"

	"oarr/internal/modkit/repokit"
	"oarr/internal/platform/store"
	kit "oarr/internal/platform/testkit"
)

type q struct{ store.RowQuerier }

type repo struct{ q repokit.Queryer }

type binder struct{}

func (binder) Bind(x repokit.Queryer) *repo { return &repo{q: x} }

func TestMustBind(t *testing.T) {
	var x q
	if r := repokit.MustBind[*repo](binder{}, x); r.q != x {
		t.Fatal("queryer not bound")
	}
	kit.MustPanic(t, func() { repokit.MustBind[*repo](binder{}, nil) })
}
