//go:build !netlib

package ann_test

import (
	"errors"
	"testing"

	"github.com/sw965/skagent/ann"
)

func TestBackend(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    ann.Backend
		wantErr bool
	}{
		{name: "正常_native", in: "native", want: ann.NativeBackend},
		{name: "正常_netlib", in: "netlib", want: ann.NetlibBackend},
		{name: "異常_cuda", in: "cuda", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ann.ParseBackend(tc.in)
			if tc.wantErr {
				if !errors.Is(err, errors.ErrUnsupported) {
					t.Errorf("err = %v, want ErrUnsupported", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("ParseBackend(%q) = %v, %v", tc.in, got, err)
			}
		})
	}

	if err := ann.NativeBackend.Use(); err != nil {
		t.Errorf("native: unexpected error: %v", err)
	}
	if err := ann.NetlibBackend.Use(); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("netlib without build tag: err = %v, want ErrUnsupported", err)
	}
}
