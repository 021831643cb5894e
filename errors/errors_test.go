package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDispatch,
				Kind:   KindInvalidVtable,
				Path:   []string{"thing", "vtable"},
				Type:   "*thing.Instance",
				Slot:   "number",
				Detail: "slot is nil",
			},
			contains: []string{"[dispatch]", "invalid_vtable", "thing.vtable", "*thing.Instance", "number", "slot is nil"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseProvide,
				Kind:  KindNotRegistered,
			},
			contains: []string{"[provide]", "not_registered"},
		},
		{
			name: "slot only",
			err: &Error{
				Phase:  PhaseDispatch,
				Kind:   KindInvalidVtable,
				Slot:   "destroy",
				Detail: "missing",
			},
			contains: []string{"slot destroy - missing"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseHandoff,
				Kind:   KindTrap,
				Detail: "sink failed",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[handoff]", "trap", "sink failed", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseGuest,
		Kind:  KindTrap,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach cause")
	}
}

func TestError_Is(t *testing.T) {
	err := NotRegistered()

	if !errors.Is(err, ErrProviderNotRegistered) {
		t.Error("NotRegistered should match ErrProviderNotRegistered")
	}
	if errors.Is(err, ErrInvalidVtable) {
		t.Error("NotRegistered should not match ErrInvalidVtable")
	}

	vt := InvalidVtable("*thing.Instance", "number")
	if !errors.Is(vt, ErrInvalidVtable) {
		t.Error("InvalidVtable should match ErrInvalidVtable")
	}

	// Different phase, same kind
	if err.Is(&Error{Phase: PhaseRegister, Kind: KindNotRegistered}) {
		t.Error("Is should not match different phase")
	}

	wrapped := Wrap(PhaseHandoff, KindTrap, vt, "sink")
	if !errors.Is(wrapped, ErrInvalidVtable) {
		t.Error("errors.Is should see through Wrap")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDispatch, KindInvalidVtable).
		Path("consumer", "run").
		Type("*thing.Instance").
		Slot("number").
		Value(7).
		Cause(cause).
		Detail("slot %s is %s", "number", "nil").
		Build()

	if err.Phase != PhaseDispatch {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDispatch)
	}
	if err.Kind != KindInvalidVtable {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidVtable)
	}
	if len(err.Path) != 2 || err.Path[0] != "consumer" || err.Path[1] != "run" {
		t.Errorf("Path = %v, want [consumer run]", err.Path)
	}
	if err.Type != "*thing.Instance" {
		t.Errorf("Type = %v", err.Type)
	}
	if err.Slot != "number" {
		t.Errorf("Slot = %v", err.Slot)
	}
	if err.Value != 7 {
		t.Errorf("Value = %v, want 7", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "slot number is nil" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("Syntax", func(t *testing.T) {
		err := Syntax(3, 14, "unexpected %q", "}")
		if err.Kind != KindSyntax || err.Phase != PhaseParse {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if !strings.Contains(err.Error(), "3:14") {
			t.Errorf("position missing from %q", err.Error())
		}
	})

	t.Run("UnknownType", func(t *testing.T) {
		err := UnknownType([]string{"Thing", "number"}, "f128")
		if err.Kind != KindUnknownType {
			t.Errorf("Kind = %v", err.Kind)
		}
		if err.Value != "f128" {
			t.Errorf("Value = %v", err.Value)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseResource, "handle", uint32(9))
		if !strings.Contains(err.Detail, "handle 9") {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("Closed", func(t *testing.T) {
		err := Closed(PhaseResource, "table")
		if err.Kind != KindClosed {
			t.Errorf("Kind = %v", err.Kind)
		}
	})

	t.Run("Instantiation", func(t *testing.T) {
		cause := errors.New("bad magic")
		err := Instantiation("guest", cause)
		if err.Phase != PhaseGuest || !errors.Is(err, cause) {
			t.Errorf("unexpected %v", err)
		}
	})
}
