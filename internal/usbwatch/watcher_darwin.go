//go:build darwin

package usbwatch

import (
	"context"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"
)

// CoreFoundation and IOKit handles.
type (
	cfAllocatorRef  uintptr
	cfDictionaryRef uintptr
	cfIndex         int64
	cfNumberRef     uintptr
	cfNumberType    = cfIndex
	cfRunLoopRef    uintptr
	cfStringRef     uintptr
	cfTypeRef       uintptr

	cfStringEncoding uint32

	ioHIDDeviceRef  uintptr
	ioHIDManagerRef uintptr
	ioOptionBits    uint32
	ioReturn        int32
)

const (
	kCFAllocatorDefault   cfAllocatorRef  = 0
	kCFNumberSInt16Type   cfIndex         = 2
	kCFStringEncodingUTF8 cfStringEncoding = 0x08000100

	kIOHIDOptionsTypeNone ioOptionBits = 0
	kIOReturnSuccess      ioReturn     = 0
)

var (
	cfNumberGetValue        func(number cfNumberRef, theType cfNumberType, valuePtr unsafe.Pointer) bool
	cfRelease               func(cf cfTypeRef)
	cfRunLoopGetCurrent     func() cfRunLoopRef
	cfRunLoopRun            func()
	cfRunLoopStop           func(runLoop cfRunLoopRef)
	cfStringCreateWithBytes func(alloc cfAllocatorRef, bytes []byte, numBytes cfIndex, encoding cfStringEncoding, isExternalRepresentation bool) cfStringRef

	ioHIDDeviceGetProperty                 func(device ioHIDDeviceRef, key cfStringRef) cfTypeRef
	ioHIDManagerClose                      func(manager ioHIDManagerRef, options ioOptionBits) ioReturn
	ioHIDManagerCreate                     func(allocator cfAllocatorRef, options ioOptionBits) ioHIDManagerRef
	ioHIDManagerOpen                       func(manager ioHIDManagerRef, options ioOptionBits) ioReturn
	ioHIDManagerSetDeviceMatching          func(manager ioHIDManagerRef, matching cfDictionaryRef)
	ioHIDManagerRegisterDeviceMatchingCallback func(manager ioHIDManagerRef, callback uintptr, context unsafe.Pointer)
	ioHIDManagerScheduleWithRunLoop        func(manager ioHIDManagerRef, runLoop cfRunLoopRef, runLoopMode cfStringRef)
)

var kCFRunLoopDefaultMode uintptr

func init() {
	cf, err := purego.Dlopen("/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(err)
	}

	purego.RegisterLibFunc(&cfNumberGetValue, cf, "CFNumberGetValue")
	purego.RegisterLibFunc(&cfRelease, cf, "CFRelease")
	purego.RegisterLibFunc(&cfRunLoopGetCurrent, cf, "CFRunLoopGetCurrent")
	purego.RegisterLibFunc(&cfRunLoopRun, cf, "CFRunLoopRun")
	purego.RegisterLibFunc(&cfRunLoopStop, cf, "CFRunLoopStop")
	purego.RegisterLibFunc(&cfStringCreateWithBytes, cf, "CFStringCreateWithBytes")

	kCFRunLoopDefaultMode, err = purego.Dlsym(cf, "kCFRunLoopDefaultMode")
	if err != nil {
		panic(err)
	}

	iokit, err := purego.Dlopen("/System/Library/Frameworks/IOKit.framework/IOKit", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(err)
	}

	purego.RegisterLibFunc(&ioHIDDeviceGetProperty, iokit, "IOHIDDeviceGetProperty")
	purego.RegisterLibFunc(&ioHIDManagerClose, iokit, "IOHIDManagerClose")
	purego.RegisterLibFunc(&ioHIDManagerCreate, iokit, "IOHIDManagerCreate")
	purego.RegisterLibFunc(&ioHIDManagerOpen, iokit, "IOHIDManagerOpen")
	purego.RegisterLibFunc(&ioHIDManagerSetDeviceMatching, iokit, "IOHIDManagerSetDeviceMatching")
	purego.RegisterLibFunc(&ioHIDManagerRegisterDeviceMatchingCallback, iokit, "IOHIDManagerRegisterDeviceMatchingCallback")
	purego.RegisterLibFunc(&ioHIDManagerScheduleWithRunLoop, iokit, "IOHIDManagerScheduleWithRunLoop")
}

// watcherCtx is the state the IOKit callback reads.
type watcherCtx struct {
	ch     chan<- struct{}
	match  Match
	logger *zap.Logger
}

func deviceMatchingCallback(_ unsafe.Pointer, _ ioReturn, _ uintptr, device ioHIDDeviceRef) {
	if callbackCtx == nil {
		return
	}

	vid, ok := uint16Property(device, "VendorID")
	if !ok {
		return
	}
	pid, ok := uint16Property(device, "ProductID")
	if !ok || !callbackCtx.match.Matches(vid, pid) {
		return
	}

	callbackCtx.logger.Debug("touch strip deck arrived",
		zap.Uint16("vendor_id", vid), zap.Uint16("product_id", pid))
	select {
	case callbackCtx.ch <- struct{}{}:
	default:
	}
}

// callbackCtx is held at package level while the callback is registered.
// One watcher at a time.
var callbackCtx *watcherCtx

var deviceMatchingCallbackPtr = purego.NewCallback(deviceMatchingCallback)

// uint16Property reads a numeric HID device property such as "ProductID".
func uint16Property(device ioHIDDeviceRef, name string) (uint16, bool) {
	key := []byte(name)
	skey := cfStringCreateWithBytes(kCFAllocatorDefault, key, cfIndex(len(key)), kCFStringEncodingUTF8, false)
	if skey == 0 {
		return 0, false
	}
	defer cfRelease(cfTypeRef(skey))

	prop := ioHIDDeviceGetProperty(device, skey)
	if prop == 0 {
		return 0, false
	}

	var v uint16
	if !cfNumberGetValue(cfNumberRef(prop), kCFNumberSInt16Type, unsafe.Pointer(&v)) {
		return 0, false
	}
	return v, true
}

// Watch returns a channel that is signalled each time a USB HID device
// selected by m appears. Arrivals are delivered by IOKit's matching callback
// on a dedicated run loop thread, which exits when ctx is cancelled.
func Watch(ctx context.Context, m Match, logger *zap.Logger) <-chan struct{} {
	ch := make(chan struct{}, 1)
	logger = logger.Named("usbwatch")

	callbackCtx = &watcherCtx{ch: ch, match: m, logger: logger}

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		mgr := ioHIDManagerCreate(kCFAllocatorDefault, kIOHIDOptionsTypeNone)
		if rv := ioHIDManagerOpen(mgr, kIOHIDOptionsTypeNone); rv != kIOReturnSuccess {
			logger.Warn("failed to open IOHIDManager", zap.Int32("ioreturn", int32(rv)))
			return
		}

		// Every HID device is reported; the callback applies m.
		ioHIDManagerSetDeviceMatching(mgr, 0)

		rl := cfRunLoopGetCurrent()
		ioHIDManagerScheduleWithRunLoop(mgr, rl, **(**cfStringRef)(unsafe.Pointer(&kCFRunLoopDefaultMode)))
		ioHIDManagerRegisterDeviceMatchingCallback(mgr, deviceMatchingCallbackPtr, nil)

		// Stop the run loop when the context is cancelled.
		go func() {
			<-ctx.Done()
			cfRunLoopStop(rl)
		}()

		logger.Debug("listening for touch strip decks",
			zap.Uint16("vendor_id", m.VendorID), zap.Int("products", len(m.ProductIDs)))
		cfRunLoopRun()

		ioHIDManagerClose(mgr, kIOHIDOptionsTypeNone)
		cfRelease(cfTypeRef(mgr))
		callbackCtx = nil
		logger.Debug("stopped")
	}()

	return ch
}
