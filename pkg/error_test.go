package pkg

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsDistinct(t *testing.T) {
	all := []error{
		ErrTimeout, ErrBusyBitStuck, ErrVerifyMismatch, ErrRemoved,
		ErrResourceExhausted, ErrStageFailed, ErrPLLUnlocked, ErrNotEnabled,
		ErrASICNotReady, ErrBBPNotReady, ErrNoDevice, ErrStall,
		ErrShortTransfer, ErrInvalidParameter, ErrNotSupported,
		ErrAlreadyRunning,
	}

	seen := make(map[string]bool)
	for _, err := range all {
		if err == nil {
			t.Fatal("nil sentinel error")
		}
		if seen[err.Error()] {
			t.Errorf("duplicate error message %q", err.Error())
		}
		seen[err.Error()] = true
	}
}

func TestErrorsWrap(t *testing.T) {
	err := fmt.Errorf("%w: reg 0x101c", ErrTimeout)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("errors.Is(%v, ErrTimeout) = false", err)
	}
	if errors.Is(err, ErrRemoved) {
		t.Errorf("errors.Is(%v, ErrRemoved) = true", err)
	}
}
