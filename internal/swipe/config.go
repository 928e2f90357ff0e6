package swipe

import "fmt"

const (
	// DefaultDPI is used when the display cannot report its density.
	DefaultDPI = 72.0

	// CmPerInch converts dots per inch to dots per centimeter.
	CmPerInch = 2.54

	// DefaultMinSwipeLengthCm is the shortest displacement that counts as a swipe.
	DefaultMinSwipeLengthCm = 0.5
)

// VelocityMode selects how the reported velocity is derived from the
// displacement and the gesture duration.
type VelocityMode uint8

const (
	// VelocityScaled multiplies the displacement by the elapsed seconds.
	VelocityScaled VelocityMode = iota
	// VelocityPerSecond divides the displacement by the elapsed seconds.
	VelocityPerSecond
)

func (m VelocityMode) String() string {
	switch m {
	case VelocityScaled:
		return "scaled"
	case VelocityPerSecond:
		return "per-second"
	default:
		return fmt.Sprintf("VelocityMode(%d)", uint8(m))
	}
}

// ParseVelocityMode parses "scaled" or "per-second". The empty string is "scaled".
func ParseVelocityMode(s string) (VelocityMode, error) {
	switch s {
	case "", "scaled":
		return VelocityScaled, nil
	case "per-second", "per_second":
		return VelocityPerSecond, nil
	default:
		return VelocityScaled, fmt.Errorf("unknown velocity mode %q", s)
	}
}

// Config holds the sampler tunables. Values are not validated: a negative
// MinSwipeLengthCm simply makes every release qualify.
type Config struct {
	// MinSwipeLengthCm is the shortest physical displacement that counts as a swipe.
	MinSwipeLengthCm float64

	// TriggerAtThreshold emits as soon as the threshold is crossed instead
	// of waiting for the release.
	TriggerAtThreshold bool

	// UseEightDirections classifies against all eight references instead
	// of the four cardinal ones.
	UseEightDirections bool

	// Velocity selects the velocity formula.
	Velocity VelocityMode

	// ScreenDPI overrides the display's reported density when non-zero.
	ScreenDPI float64
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{
		MinSwipeLengthCm: DefaultMinSwipeLengthCm,
	}
}

// PixelsToCm converts a pixel length to centimeters at the given density.
// A density of zero is treated as DefaultDPI.
func PixelsToCm(pixels, dpi float64) float64 {
	if dpi == 0 {
		dpi = DefaultDPI
	}
	return pixels / (dpi / CmPerInch)
}
