// Package feedback abstracts the discrete haptic pulses the interaction
// engine emits, so the gesture logic never touches a device API.
package feedback

// Kind selects the pulse weight.
type Kind int

const (
	// Selection is the light pulse for a selection value change.
	Selection Kind = iota
	// Impact is the heavy pulse for a clamp transition or zoom entry.
	Impact
)

func (k Kind) String() string {
	switch k {
	case Selection:
		return "selection"
	case Impact:
		return "impact"
	default:
		return "unknown"
	}
}

// Sink receives pulses. Implementations must be cheap; pulses fire from the
// hot gesture path.
type Sink interface {
	Pulse(Kind)
}

// Func adapts a function to a Sink.
type Func func(Kind)

func (f Func) Pulse(k Kind) { f(k) }

// Nop discards all pulses.
var Nop Sink = Func(func(Kind) {})
