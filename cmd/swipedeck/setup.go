package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/phinze/swipedeck/internal/config"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup: write the config file",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println("=== swipedeck setup ===")
	fmt.Println()

	// Load existing config as defaults
	existing, err := loadConfig()
	if err != nil {
		fmt.Printf("Ignoring existing config: %v\n\n", err)
		existing = config.Default()
	}

	cfg, err := promptConfig(bufio.NewReader(os.Stdin), os.Stdout, existing)
	if err != nil {
		return err
	}

	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := config.WriteConfigFileTo(path, cfg); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	fmt.Printf("Config written to %s\n", path)
	fmt.Println("Setup complete!")
	return nil
}

// promptConfig asks for every setting, offering existing values as defaults.
func promptConfig(reader *bufio.Reader, w io.Writer, existing *config.Config) (*config.Config, error) {
	cfg := *existing

	fmt.Fprintln(w, "-- Swipe --")
	var err error
	if cfg.Swipe.MinSwipeCm, err = promptFloat(reader, w, "Minimum swipe length (cm)", existing.Swipe.MinSwipeCm); err != nil {
		return nil, err
	}
	if cfg.Swipe.EightDirections, err = promptBool(reader, w, "Eight directions", existing.Swipe.EightDirections); err != nil {
		return nil, err
	}
	if cfg.Swipe.TriggerAtThreshold, err = promptBool(reader, w, "Trigger at threshold", existing.Swipe.TriggerAtThreshold); err != nil {
		return nil, err
	}
	if cfg.Swipe.ScreenDPI, err = promptFloat(reader, w, "Screen DPI (0 = ask the display)", existing.Swipe.ScreenDPI); err != nil {
		return nil, err
	}
	cfg.Swipe.Velocity = prompt(reader, w, "Velocity mode (scaled or per-second)", existing.Swipe.Velocity)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "-- Stream Deck --")
	cfg.Device.Serial = prompt(reader, w, "Device serial (empty for any)", existing.Device.Serial)
	if cfg.Device.Brightness, err = promptInt(reader, w, "Brightness (0-100)", existing.Device.Brightness); err != nil {
		return nil, err
	}
	fmt.Fprintln(w)

	cfg.LogLevel = prompt(reader, w, "Log level", existing.LogLevel)
	fmt.Fprintln(w)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// prompt asks for a value with an optional default.
func prompt(reader *bufio.Reader, w io.Writer, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(w, "  %s [%s]: ", label, defaultVal)
	} else {
		fmt.Fprintf(w, "  %s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal
	}
	return line
}

func promptFloat(reader *bufio.Reader, w io.Writer, label string, defaultVal float64) (float64, error) {
	s := prompt(reader, w, label, strconv.FormatFloat(defaultVal, 'g', -1, 64))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	return f, nil
}

func promptInt(reader *bufio.Reader, w io.Writer, label string, defaultVal int) (int, error) {
	s := prompt(reader, w, label, strconv.Itoa(defaultVal))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	return n, nil
}

func promptBool(reader *bufio.Reader, w io.Writer, label string, defaultVal bool) (bool, error) {
	def := "n"
	if defaultVal {
		def = "y"
	}
	switch strings.ToLower(prompt(reader, w, label+" (y/n)", def)) {
	case "y", "yes", "true":
		return true, nil
	case "n", "no", "false":
		return false, nil
	default:
		return false, fmt.Errorf("%s: expected y or n", label)
	}
}
