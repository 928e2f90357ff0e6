package main

import (
	"github.com/phinze/swipedeck/internal/device/emulator"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var padCmd = &cobra.Command{
	Use:   "pad",
	Short: "Open a window and report swipes made in it with the mouse or touch",
	RunE:  runPad,
}

func runPad(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logger.Sync()

	sc := cfg.SamplerConfig()
	logger.Info("Opening swipe pad",
		zap.Float64("min_swipe_cm", sc.MinSwipeLengthCm),
		zap.Bool("eight_directions", sc.UseEightDirections),
		zap.Bool("trigger_at_threshold", sc.TriggerAtThreshold),
		zap.Stringer("velocity", sc.Velocity))

	pad := emulator.NewPad(sc, logger)
	if err := pad.Run(); err != nil {
		return err
	}

	rec := pad.Recorder()
	logger.Info("Pad closed", zap.Int("swipes", rec.Total()))
	return nil
}
