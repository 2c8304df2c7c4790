package main

import "go.uber.org/zap"

var statsLog = zap.NewNop()

func enableDebugLogging(l *zap.Logger) {
	statsLog = l
}
