//go:build darwin

package main

import (
	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
	"go.uber.org/zap"
)

// wakeSignals forwards system wake notifications. After a wake the USB
// handle is stale and the device has to be reopened.
func wakeSignals(logger *zap.Logger) <-chan struct{} {
	sleepCh := notifier.GetInstance().Start()
	wakeCh := make(chan struct{}, 1)
	go func() {
		for activity := range sleepCh {
			if activity.Type == notifier.Awake {
				logger.Info("System wake detected")
				select {
				case wakeCh <- struct{}{}:
				default:
				}
			}
		}
	}()
	return wakeCh
}
