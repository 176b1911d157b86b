package errors

import (
	stderrs "errors"
	"net/http"
	"reflect"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeValidation, http.StatusUnprocessableEntity},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeConfig, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestWrapAndInspect(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render = %q", nilErr.Error())
	}

	src := stderrs.New("dial tcp: refused")
	e := Wrapf(src, ErrorCodeUnavailable, "store %s", "pg")
	if e.Error() != "store pg: dial tcp: refused" {
		t.Fatalf("Error() = %q", e.Error())
	}
	if stderrs.Unwrap(e) != src || !stderrs.Is(e, src) {
		t.Fatal("wrap lost cause")
	}
	if !IsCode(e, ErrorCodeUnavailable) || HTTPStatus(e) != http.StatusServiceUnavailable {
		t.Fatalf("code = %v", CodeOf(e))
	}
	if CodeOf(src) != ErrorCodeUnknown {
		t.Fatal("foreign errors are Unknown")
	}

	got, ok := As(WithField(e, "dsn"))
	if !ok || got.Field() != "dsn" || got.Error() != e.Error() {
		t.Fatalf("mutators failed: %+v", got)
	}
	if orig, _ := As(e); orig.Field() != "" {
		t.Fatal("WithField must copy")
	}
	if WithField(src, "x") != src || WithDetails(src, "x") != src {
		t.Fatal("foreign errors pass through mutators")
	}
}

func TestValidationDetails(t *testing.T) {
	msgs := []string{"lang for metadata record must be set", "policy must specify a policy type"}
	err := Validation("error validating file", msgs)
	msgs[0] = "mutated"

	status, w := HTTP(err)
	if status != http.StatusUnprocessableEntity || w.Code != ErrorCodeValidation {
		t.Fatalf("HTTP() = %d %+v", status, w)
	}
	want := []string{"lang for metadata record must be set", "policy must specify a policy type"}
	if !reflect.DeepEqual(w.Details, want) {
		t.Fatalf("details = %v", w.Details)
	}

	more := WithDetails(New(ErrorCodeValidation, "x"), "a", "b")
	if d, _ := As(more); len(d.Details()) != 2 {
		t.Fatalf("WithDetails = %v", d.Details())
	}
}

func TestSugarAndWire(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{NotFoundf("register %s", "x"), ErrorCodeNotFound},
		{InvalidArgf("bad %d", 1), ErrorCodeInvalidArgument},
		{JSONErrf("bad json"), ErrorCodeJSON},
		{PanicErrf("boom"), ErrorCodePanic},
		{Unavailablef("no storage configured"), ErrorCodeUnavailable},
		{Newf(ErrorCodeTimeout, "slow %s", "upstream"), ErrorCodeTimeout},
		{New(ErrorCodeConfig, "missing"), ErrorCodeConfig},
	}
	for _, c := range cases {
		if CodeOf(c.err) != c.code {
			t.Fatalf("%v code = %v, want %v", c.err, CodeOf(c.err), c.code)
		}
	}
	if w := WireFrom(stderrs.New("plain")); w.Code != ErrorCodeUnknown || w.Message != "plain" {
		t.Fatalf("WireFrom foreign = %+v", w)
	}
	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("WireFrom nil = %+v", w)
	}
	if s, _ := HTTP(nil); s != http.StatusOK {
		t.Fatalf("HTTP(nil) = %d", s)
	}
}

type descriptorErr struct{ msgs []string }

func (d *descriptorErr) Error() string { return "bad descriptor" }
func (d *descriptorErr) Perr() error   { return Validation("error validating file", d.msgs) }

func TestConverter(t *testing.T) {
	err := Wrap(&descriptorErr{msgs: []string{"a", "b"}}, ErrorCodeUnknown, "outer")
	// the outer *Error wins over the wrapped converter
	if CodeOf(err) != ErrorCodeUnknown {
		t.Fatalf("code = %v", CodeOf(err))
	}

	var plain error = &descriptorErr{msgs: []string{"a", "b"}}
	if HTTPStatus(plain) != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", HTTPStatus(plain))
	}
	w := WireFrom(plain)
	if w.Message != "error validating file" || !reflect.DeepEqual(w.Details, []string{"a", "b"}) {
		t.Fatalf("wire = %+v", w)
	}
}
