package snapshot

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/shirou/gopsutil/v3/process"
)

func TestIsNotFound(t *testing.T) {
	for _, err := range []error{
		ErrNotFound,
		process.ErrorProcessNotRunning,
		syscall.ESRCH,
		fmt.Errorf("looking up pid 42: %w", ErrNotFound),
	} {
		if !IsNotFound(err) {
			t.Errorf("IsNotFound(%v) = false, want true", err)
		}
	}
	for _, err := range []error{nil, ErrAccessDenied, errors.New("boom")} {
		if IsNotFound(err) {
			t.Errorf("IsNotFound(%v) = true, want false", err)
		}
	}
}

func TestIsAccessDenied(t *testing.T) {
	for _, err := range []error{
		ErrAccessDenied,
		os.ErrPermission,
		syscall.EPERM,
		syscall.EACCES,
		fmt.Errorf("signalling pid 42: %w", ErrAccessDenied),
	} {
		if !IsAccessDenied(err) {
			t.Errorf("IsAccessDenied(%v) = false, want true", err)
		}
	}
	for _, err := range []error{nil, ErrNotFound, errors.New("boom")} {
		if IsAccessDenied(err) {
			t.Errorf("IsAccessDenied(%v) = true, want false", err)
		}
	}
}
