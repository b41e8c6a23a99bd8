package pid

import (
	"errors"
	"testing"
)

func TestStorageConstants(t *testing.T) {
	// nine float64 fields
	if StorageSize != 72 {
		t.Errorf("unexpected storage size %d", StorageSize)
	}
	if StorageAlignment != 8 {
		t.Errorf("unexpected storage alignment %d", StorageAlignment)
	}
}

func TestBindBytes(t *testing.T) {
	buf := make([]byte, StorageSize)
	c, err := BindBytes(buf, testConfig())
	if err != nil {
		t.Fatalf("bind bytes: %v", err)
	}

	u, err := c.Update(50, 0)
	if err != nil {
		t.Fatalf("update on byte-backed controller: %v", err)
	}
	if u != 55.5 {
		t.Errorf("expected 55.5 from byte-backed controller, got %v", u)
	}
}

func TestBindBytesTooSmall(t *testing.T) {
	buf := make([]byte, StorageSize-1)
	_, err := BindBytes(buf, testConfig())
	if !errors.Is(err, ErrStorageTooSmall) {
		t.Fatalf("expected ErrStorageTooSmall, got %v", err)
	}
	// a short buffer is a sizing problem, not a value problem
	if errors.Is(err, ErrInvalidArgument) {
		t.Error("ErrStorageTooSmall should not match ErrInvalidArgument")
	}
}

func TestBindBytesMisaligned(t *testing.T) {
	raw := make([]byte, StorageSize+StorageAlignment)
	buf := raw[1:] // heap allocations are aligned, so offset 1 is not

	_, err := BindBytes(buf, testConfig())
	if !errors.Is(err, ErrStorageMisaligned) {
		t.Fatalf("expected ErrStorageMisaligned, got %v", err)
	}
	// misalignment is classified under invalid-argument at the interface
	if !errors.Is(err, ErrInvalidArgument) {
		t.Error("ErrStorageMisaligned should match ErrInvalidArgument")
	}
}

func TestBindBytesNil(t *testing.T) {
	if _, err := BindBytes(nil, testConfig()); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestBindBytesUntouchedOnBadConfig(t *testing.T) {
	buf := make([]byte, StorageSize)
	bad := testConfig()
	bad.UMin, bad.UMax = 1, -1

	if _, err := BindBytes(buf, bad); err == nil {
		t.Fatal("expected bind to fail")
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d written by failed bind", i)
		}
	}
}
