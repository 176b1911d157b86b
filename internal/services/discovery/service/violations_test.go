package service

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"oarr/internal/core/registryfile"
	perr "oarr/internal/platform/errors"
)

func TestViolations(t *testing.T) {
	rfe := &registryfile.Error{
		Message: "registry file invalid",
		Errors:  []string{"Two or more metadata records are marked as default"},
	}
	cases := []struct {
		name string
		err  error
		want []string
	}{
		{"bare", rfe, rfe.Errors},
		{"fmt wrapped", fmt.Errorf("locate: %w", rfe), rfe.Errors},
		{"perr wrapped", perr.Wrap(rfe, perr.ErrorCodeValidation, "registry file"), rfe.Errors},
		{"foreign", errors.New("connection reset"), nil},
		{"nil", nil, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := violations(c.err); !reflect.DeepEqual(got, c.want) {
				t.Fatalf("violations = %v, want %v", got, c.want)
			}
		})
	}
}
