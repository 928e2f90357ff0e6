//go:build !darwin

package main

import "go.uber.org/zap"

// wakeSignals returns nil where no sleep notifier is available.
func wakeSignals(logger *zap.Logger) <-chan struct{} {
	return nil
}
