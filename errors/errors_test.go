package errors

import (
	"fmt"
	"testing"
)

func TestCode(t *testing.T) {
	sentinel := NewErrorMessage(ErrCodeStore, "store")
	testCases := []struct {
		name string
		err  error
		want uint16
	}{
		{"nil", nil, 0},
		{"plain", fmt.Errorf("plain"), 0},
		{"coded", sentinel, ErrCodeStore},
		{"annotated", Annotatef(sentinel, "key %q", "k"), ErrCodeStore},
		{"traced twice", Trace(Annotate(sentinel, "ctx")), ErrCodeStore},
		{"wrapped value", NewError(ErrCodeCommand, New("exit")), ErrCodeCommand},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Code(tc.err); got != tc.want {
				t.Errorf("Code() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCauseKeepsSentinel(t *testing.T) {
	sentinel := NewErrorMessage(ErrCodeSMB, "smb")
	err := Annotatef(sentinel, "connecting to %s", "host:445")
	if Cause(err) != sentinel {
		t.Errorf("Cause() = %v", Cause(err))
	}
	if want := "connecting to host:445: smb"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
