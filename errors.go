package pid

import "github.com/pkg/errors"

// Category errors. Every failure returned by this package matches one
// of these under errors.Is.
var (
	// ErrInvalidArgument covers nil controllers, non-finite numeric
	// inputs, negative gains, and inverted output limits.
	ErrInvalidArgument = errors.New("pid: invalid argument")

	// ErrStorageTooSmall is returned by BindBytes when the supplied
	// buffer is shorter than StorageSize. Kept distinct from
	// ErrInvalidArgument: the remedy is a bigger buffer, not a
	// different value.
	ErrStorageTooSmall = errors.New("pid: storage too small")

	// ErrStorageMisaligned is returned by BindBytes when the buffer's
	// address does not satisfy StorageAlignment. It matches
	// ErrInvalidArgument under errors.Is.
	ErrStorageMisaligned = errors.Wrap(ErrInvalidArgument, "storage misaligned")
)
