package main

import (
	"fmt"

	"github.com/phinze/swipedeck/internal/geom"
	"github.com/phinze/swipedeck/internal/swipe"
	"github.com/spf13/cobra"
)

var classifyCmd = newClassifyCmd()

// newClassifyCmd builds the classify command. Tests build their own so
// flag state does not leak between runs.
func newClassifyCmd() *cobra.Command {
	var (
		dx, dy float64
		eight  bool
		dpi    float64
		minCm  float64
	)

	cmd := &cobra.Command{
		Use:   "classify --dx N --dy N",
		Short: "Classify one displacement (in pixels, Y up) the way the sampler would",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sc := cfg.SamplerConfig()
			if cmd.Flags().Changed("eight") {
				sc.UseEightDirections = eight
			}
			if cmd.Flags().Changed("dpi") {
				sc.ScreenDPI = dpi
			}
			if cmd.Flags().Changed("min-cm") {
				sc.MinSwipeLengthCm = minCm
			}

			c := classifyDisplacement(geom.V2(dx, dy), sc)
			out := cmd.OutOrStdout()
			if !c.Qualifies {
				fmt.Fprintf(out, "direction: none (%.2f cm is below the %.2f cm threshold)\n", c.LengthCm, sc.MinSwipeLengthCm)
				return nil
			}
			fmt.Fprintf(out, "direction: %s\n", c.Direction)
			fmt.Fprintf(out, "length: %.2f cm at %g dpi\n", c.LengthCm, c.DPI)
			return nil
		},
	}

	cmd.Flags().Float64Var(&dx, "dx", 0, "horizontal displacement in pixels, positive to the right")
	cmd.Flags().Float64Var(&dy, "dy", 0, "vertical displacement in pixels, positive upward")
	cmd.Flags().BoolVar(&eight, "eight", false, "classify into eight directions")
	cmd.Flags().Float64Var(&dpi, "dpi", 0, "screen density (0 means 72)")
	cmd.Flags().Float64Var(&minCm, "min-cm", swipe.DefaultMinSwipeLengthCm, "minimum swipe length in centimeters")
	return cmd
}

type classification struct {
	Direction swipe.Direction
	LengthCm  float64
	DPI       float64
	Qualifies bool
}

// classifyDisplacement applies the sampler's threshold and classification
// to a single released gesture.
func classifyDisplacement(d geom.Vector2, sc swipe.Config) classification {
	dpi := sc.ScreenDPI
	if dpi == 0 {
		dpi = swipe.DefaultDPI
	}
	c := classification{
		LengthCm: swipe.PixelsToCm(d.Magnitude(), dpi),
		DPI:      dpi,
	}
	if c.LengthCm < sc.MinSwipeLengthCm {
		return c
	}
	c.Qualifies = true
	c.Direction = swipe.Classify(d, sc.UseEightDirections)
	return c
}
