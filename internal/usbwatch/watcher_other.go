//go:build !darwin

package usbwatch

import (
	"context"

	"go.uber.org/zap"
)

// Watch returns nil on platforms without a hotplug API; receiving from a
// nil channel blocks forever, so callers fall back to polling.
func Watch(ctx context.Context, m Match, logger *zap.Logger) <-chan struct{} {
	logger.Named("usbwatch").Debug("hotplug notifications not supported, polling only",
		zap.Uint16("vendor_id", m.VendorID), zap.Uint16s("product_ids", m.ProductIDs))
	return nil
}
