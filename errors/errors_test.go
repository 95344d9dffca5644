package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := &Error{
		Phase:  PhaseValidate,
		Kind:   KindNulByte,
		Path:   []string{"address", "host"},
		Detail: "string contains embedded NUL byte",
	}

	msg := err.Error()
	for _, want := range []string{"[validate]", "nul_byte", "address.host", "NUL"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("Expected %q in %q", want, msg)
		}
	}
}

func TestErrorIsMatchesPhaseAndKind(t *testing.T) {
	err := TypeMismatch("integer", "string")

	if !stderrors.Is(err, &Error{Phase: PhaseAccess, Kind: KindTypeMismatch}) {
		t.Fatal("Expected match on phase and kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseValidate, Kind: KindTypeMismatch}) {
		t.Fatal("Matched despite different phase")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Construction("address", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("Cause should be reachable through Unwrap")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Fatal("Cause should appear in the message")
	}
}

func TestViolatePanicsWithStructuredError(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected panic")
		}
		err, ok := r.(*Error)
		if !ok || err.Kind != KindStaleHandle {
			t.Fatalf("Expected stale_handle *Error, got %v", r)
		}
	}()
	Violate(StaleHandle("value.as_int"))
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		err   *Error
		phase Phase
		kind  Kind
	}{
		{TypeMismatch("integer", "string"), PhaseAccess, KindTypeMismatch},
		{NulByte("auth", "realm"), PhaseValidate, KindNulByte},
		{InvalidEnum("scheme", "unknown"), PhaseValidate, KindInvalidEnum},
		{StaleHandle("config.scheme"), PhaseAccess, KindStaleHandle},
		{Consumed("config builder"), PhaseLifecycle, KindConsumed},
		{Construction("connector", nil), PhaseConstruct, KindConstruction},
		{OutOfBounds(3, 2), PhaseAccess, KindOutOfBounds},
	}

	for _, tc := range tests {
		if tc.err.Phase != tc.phase || tc.err.Kind != tc.kind {
			t.Fatalf("Constructor produced [%s] %s, want [%s] %s",
				tc.err.Phase, tc.err.Kind, tc.phase, tc.kind)
		}
	}
}
