package plot

import "fmt"

// IntegralLabel is shown in integral mode, where no antiderivative text is
// computed.
var IntegralLabel = fmt.Sprintf("∫f(x)dx ≈ F(x) - F(%g), numeric antiderivative with C = 0", DomainStart)

// FormatLabel returns the equation shown above the plot.
func FormatLabel(mode Mode, expressionText, derivativeText string) string {
	switch mode {
	case ModeDerivative:
		return "f'(x) = " + derivativeText
	case ModeIntegral:
		return IntegralLabel
	}
	return "f(x) = " + expressionText
}

// SeriesName returns the legend entry for a curve drawn from the text the
// user typed.
func SeriesName(mode Mode, text string) string {
	switch mode {
	case ModeDerivative:
		return "Derivative of " + text
	case ModeIntegral:
		return "Integral of " + text
	}
	return "f(x) = " + text
}
