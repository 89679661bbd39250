package main

import "imageroll/internal/logger"

// debugLog writes viewer diagnostics at debug level
func debugLog(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}
