package plot

import "fmt"

// Mode selects which curve a visualize request produces.
type Mode int

const (
	ModeValue Mode = iota
	ModeDerivative
	ModeIntegral
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeValue, ModeDerivative, ModeIntegral}

// String returns the wire name of the mode. Value mode is "function", the
// name the web page sends.
func (m Mode) String() string {
	switch m {
	case ModeValue:
		return "function"
	case ModeDerivative:
		return "derivative"
	case ModeIntegral:
		return "integral"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a wire name to a Mode. An empty name selects value mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "function", "value":
		return ModeValue, nil
	case "derivative":
		return ModeDerivative, nil
	case "integral":
		return ModeIntegral, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) valid() bool { return m >= ModeValue && m <= ModeIntegral }
