package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phinze/swipedeck/internal/config"
	"github.com/phinze/swipedeck/internal/coordinator"
	"github.com/phinze/swipedeck/internal/device"
	"github.com/phinze/swipedeck/internal/device/emulator"
	"github.com/phinze/swipedeck/internal/usbwatch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sample swipes on a Stream Deck touch strip, reconnecting as needed",
	RunE:  runDaemon,
}

var useEmulator bool

func init() {
	runCmd.Flags().BoolVar(&useEmulator, "emulator", false, "use an emulated touch strip window instead of hardware")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Setup signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if useEmulator {
		return runEmulator(ctx, cfg, logger)
	}

	logger.Info("=== swipedeck ===")
	logger.Info("Press Ctrl+C to exit")

	arrivals := usbwatch.Watch(ctx, usbwatch.TouchStripDecks, logger)
	wakeCh := wakeSignals(logger)

	// Main device loop - wait for device, run, repeat on disconnect
	for {
		dev := waitForHardwareDevice(ctx, cfg.Device.Serial, logger, arrivals, wakeCh)
		if dev == nil {
			// Context cancelled
			break
		}

		// Check context before starting - avoid race where device connects after shutdown requested
		select {
		case <-ctx.Done():
			logger.Info("Exiting...")
			dev.Close()
			return nil
		default:
		}

		// Drain any stale wake signals that accumulated while waiting for device.
		// Without this, a wake signal from before device enumeration would
		// immediately trigger a teardown in runWithDevice.
	drainWake:
		for {
			select {
			case <-wakeCh:
				logger.Debug("Draining stale wake signal")
			default:
				break drainWake
			}
		}

		// Brief stabilization delay - USB device enumeration may not be complete
		// even after GetDevice succeeds.
		time.Sleep(500 * time.Millisecond)

		runWithDevice(ctx, cfg, logger, dev, wakeCh)

		// Check if we should exit or wait for reconnect
		select {
		case <-ctx.Done():
			logger.Info("Exiting...")
			return nil
		default:
			logger.Info("Waiting for device reconnect...")
		}
	}
	return nil
}

// runEmulator runs the coordinator against an emulated strip. The GUI
// must own the main goroutine.
func runEmulator(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("=== swipedeck emulator ===")
	logger.Info("Close window or press Ctrl+C to exit")

	emu := emulator.New()
	if err := emu.Open(); err != nil {
		return err
	}

	go runWithDevice(ctx, cfg, logger, emu, nil)

	// Run GUI on main thread (required for macOS)
	return emu.RunGUI()
}

// tryGetDeviceWithTimeout attempts to get and open a Stream Deck device with a timeout.
// Returns the device if successful, nil otherwise. The timeout prevents blocking indefinitely
// when the USB subsystem is in a bad state.
func tryGetDeviceWithTimeout(serial string, timeout time.Duration, logger *zap.Logger) *device.HardwareDevice {
	type result struct {
		dev *device.HardwareDevice
		err error
	}
	ch := make(chan result, 1)

	go func() {
		dev, err := device.OpenHardware(serial)
		ch <- result{dev, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			logger.Debug("no usable device", zap.Error(r.err))
			return nil
		}
		return r.dev
	case <-time.After(timeout):
		logger.Warn("Device detection timed out")
		return nil
	}
}

// waitForHardwareDevice polls for a Stream Deck device until one is available.
// USB arrivals and wake signals trigger an immediate retry instead of waiting
// for the poll interval; either channel may be nil.
func waitForHardwareDevice(ctx context.Context, serial string, logger *zap.Logger, arrivals, wakeCh <-chan struct{}) device.Device {
	const (
		deviceTimeout = 5 * time.Second
		pollInterval  = 2 * time.Second
	)

	// First, try to get an already-connected device
	if dev := tryGetDeviceWithTimeout(serial, deviceTimeout, logger); dev != nil {
		return dev
	}

	logger.Info("Waiting for device...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wakeCh:
			// After wake, USB devices may take several seconds to enumerate.
			// Retry multiple times with short delays instead of just checking once.
			logger.Info("Wake signal received, looking for device...")
			for i := 0; i < 10; i++ {
				if dev := tryGetDeviceWithTimeout(serial, deviceTimeout, logger); dev != nil {
					logger.Info("Device connected!")
					return dev
				}
				// Context-aware sleep
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(500 * time.Millisecond):
				}
			}
			logger.Info("Device not found after wake, resuming polling...")
		case <-arrivals:
			logger.Debug("Stream Deck arrived on the bus")
		case <-time.After(pollInterval):
		}

		if dev := tryGetDeviceWithTimeout(serial, deviceTimeout, logger); dev != nil {
			logger.Info("Device connected!")
			return dev
		}
	}
}

// runWithDevice runs the coordinator with the given device until disconnect, wake, or context cancel.
func runWithDevice(ctx context.Context, cfg *config.Config, logger *zap.Logger, dev device.Device, wakeCh <-chan struct{}) {
	logger.Info("Connected", zap.String("model", dev.GetModelName()))

	if err := dev.SetBrightness(byte(cfg.Device.Brightness)); err != nil {
		logger.Warn("failed to set brightness", zap.Error(err))
	}

	// Create the coordinator fresh for each connection
	coord := coordinator.New(dev, cfg.SamplerConfig(),
		coordinator.WithLogger(logger),
		coordinator.WithTickRate(cfg.Device.TickRate),
	)

	// Run coordinator with a child context so we can stop it independently
	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- coord.Start(runCtx)
	}()

	logger.Info("Ready! Swipe the touch strip")

	// Wait for parent context cancel, device error, or system wake
	select {
	case <-ctx.Done():
		logger.Info("Shutting down...")
	case err := <-errChan:
		if err != nil {
			logger.Warn("Device disconnected", zap.Error(err))
		}
	case <-wakeCh:
		logger.Info("Reconnecting device after wake...")
	}

	// Stop coordinator with timeout
	runCancel()

	done := make(chan struct{})
	go func() {
		coord.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		logger.Warn("Cleanup timed out")
	}

	logger.Info("Session summary", zap.Int("swipes", coord.Recorder().Total()))

	// Brief delay to let any pending USB I/O callbacks complete.
	// The usbhid library doesn't cancel ongoing I/O on close.
	time.Sleep(200 * time.Millisecond)

	// device.Close() may block indefinitely on a wedged USB stack
	closeDone := make(chan struct{})
	go func() {
		dev.Close()
		close(closeDone)
	}()

	select {
	case <-closeDone:
	case <-time.After(3 * time.Second):
		logger.Warn("Device close timed out")
	}
}
