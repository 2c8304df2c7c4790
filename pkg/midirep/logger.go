package midirep

import "go.uber.org/zap"

var log = zap.NewNop()

// SetLogger replaces the package logger, which is a no-op by default.
func SetLogger(l *zap.Logger) {
	log = l
}
