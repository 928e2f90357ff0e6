// Package usbwatch signals when a matching USB HID device is plugged in, so
// device discovery does not have to wait for the next poll.
package usbwatch

import "slices"

// ElgatoVendorID is the USB vendor ID of Stream Deck devices.
const ElgatoVendorID uint16 = 0x0fd9

// StreamDeckPlusProductID is the only Stream Deck with a touch strip.
const StreamDeckPlusProductID uint16 = 0x0084

// Match selects the devices a watcher reports.
type Match struct {
	VendorID uint16
	// ProductIDs restricts the match to these products. Empty matches
	// every product of the vendor.
	ProductIDs []uint16
}

// TouchStripDecks matches the Stream Deck models device.OpenHardware accepts.
var TouchStripDecks = Match{
	VendorID:   ElgatoVendorID,
	ProductIDs: []uint16{StreamDeckPlusProductID},
}

// Matches reports whether a device with the given IDs is selected.
func (m Match) Matches(vendorID, productID uint16) bool {
	if vendorID != m.VendorID {
		return false
	}
	return len(m.ProductIDs) == 0 || slices.Contains(m.ProductIDs, productID)
}
