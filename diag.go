//go:build piddiag

package pid

import "go.uber.org/zap"

var diag = zap.NewNop().Sugar()

// SetDiagLogger installs the logger used by the piddiag build for
// rejected arguments and bind events. Not safe to call while any
// controller operation is in flight.
func SetDiagLogger(l *zap.SugaredLogger) {
	if l == nil {
		diag = zap.NewNop().Sugar()
		return
	}
	diag = l
}

func diagf(format string, args ...any) {
	diag.Debugf(format, args...)
}
