package main

import (
	"fmt"
	"os"
	"time"

	"github.com/phinze/swipedeck/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check config, effective tunables, and device health",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== swipedeck status ===")
	fmt.Println()

	allOK := true

	// Config file
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fmt.Printf("Config file: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Println("  Status: found")
	} else {
		fmt.Println("  Status: not found (using defaults)")
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("  Load error: %v\n", err)
		allOK = false
		cfg = config.Default()
	}
	fmt.Println()

	// Tunables
	sc := cfg.SamplerConfig()
	fmt.Println("Swipe:")
	fmt.Printf("  Minimum length: %g cm\n", sc.MinSwipeLengthCm)
	fmt.Printf("  Directions: %d\n", map[bool]int{false: 4, true: 8}[sc.UseEightDirections])
	fmt.Printf("  Trigger at threshold: %t\n", sc.TriggerAtThreshold)
	fmt.Printf("  Velocity: %s\n", sc.Velocity)
	if sc.ScreenDPI != 0 {
		fmt.Printf("  Screen DPI: %g\n", sc.ScreenDPI)
	} else {
		fmt.Println("  Screen DPI: from display")
	}
	fmt.Printf("  Log level: %s\n", cfg.LogLevel)
	fmt.Println()

	// Device check (quick USB open)
	fmt.Println("Stream Deck:")
	dev := tryGetDeviceWithTimeout(cfg.Device.Serial, 2*time.Second, zap.NewNop())
	if dev != nil {
		fmt.Printf("  Device: CONNECTED (%s)\n", dev.GetModelName())
		dev.Close()
	} else {
		fmt.Println("  Device: not detected")
	}
	fmt.Println()

	if allOK {
		fmt.Println("All checks passed.")
	} else {
		fmt.Println("Some checks failed. Run 'swipedeck setup' to configure.")
	}

	return nil
}
