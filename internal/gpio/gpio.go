// Package gpio provides button and tap input reading with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Sample is one reading of all face inputs, already in logical form.
type Sample struct {
	A    bool // true = pressed
	B    bool
	Mode bool
	// Tap bits latched by the accelerometer interrupt lines since the previous Read.
	TapSingle bool
	TapDouble bool
}

// Reader reads face inputs.
type Reader interface {
	// Read returns the current button levels and any taps latched since the last call.
	Read() (Sample, error)

	// Close releases GPIO resources.
	Close() error
}

// Pins maps inputs to BCM line offsets.
type Pins struct {
	A         int
	B         int
	Mode      int
	TapSingle int // accelerometer INT1
	TapDouble int // accelerometer INT2
}

// Default pin definitions (BCM numbering)
const (
	DefaultPinA         = 17
	DefaultPinB         = 27
	DefaultPinMode      = 22
	DefaultPinTapSingle = 23
	DefaultPinTapDouble = 24
)

// DefaultPins returns the stock wiring.
func DefaultPins() Pins {
	return Pins{
		A:         DefaultPinA,
		B:         DefaultPinB,
		Mode:      DefaultPinMode,
		TapSingle: DefaultPinTapSingle,
		TapDouble: DefaultPinTapDouble,
	}
}
