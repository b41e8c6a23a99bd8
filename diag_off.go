//go:build !piddiag

package pid

// Default build: diagnostic logging compiles to nothing.
func diagf(format string, args ...any) {}
