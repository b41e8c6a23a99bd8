package pid

import (
	"unsafe"

	"github.com/pkg/errors"
)

// Storage requirements for one controller instance, for callers that
// bind over raw memory. Fixed at compile time; the byte layout behind
// them is otherwise opaque.
const (
	StorageSize      = int(unsafe.Sizeof(Controller{}))
	StorageAlignment = int(unsafe.Alignof(Controller{}))
)

// BindBytes initializes a controller over a raw byte buffer, for hosts
// that carve controller storage out of a static arena. The buffer must
// be at least StorageSize bytes and its address must satisfy
// StorageAlignment; the caller must keep it alive and unmoved for the
// controller's lifetime, which in practice means a fixed global or
// arena-backed buffer rather than an ordinary heap slice.
func BindBytes(buf []byte, cfg Config) (*Controller, error) {
	if buf == nil {
		diagf("bind bytes: nil buffer")
		return nil, errors.Wrap(ErrInvalidArgument, "nil buffer")
	}
	if len(buf) < StorageSize {
		diagf("bind bytes: buffer %d bytes, need %d", len(buf), StorageSize)
		return nil, errors.Wrapf(ErrStorageTooSmall, "have %d bytes, need %d", len(buf), StorageSize)
	}
	p := unsafe.Pointer(&buf[0])
	if uintptr(p)%uintptr(StorageAlignment) != 0 {
		diagf("bind bytes: address %#x not %d-byte aligned", uintptr(p), StorageAlignment)
		return nil, ErrStorageMisaligned
	}
	return Bind((*Controller)(p), cfg)
}
