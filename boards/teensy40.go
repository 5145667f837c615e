// Package boards holds the static pin-to-channel wiring of supported boards.
package boards

import "teensyadc/core"

const x = core.ChannelInvalid

// Teensy 4.0/4.1 analog pins. Indices 0-13 are A0-A13 and 14-27 the same
// inputs addressed by their digital pin number.
var (
	Teensy40ADC1Pins = core.PinTable{
		7, 8, 12, 11, 6, 5, 15, 0, 13, 14, 1, 2, x, x,
		7, 8, 12, 11, 6, 5, 15, 0, 13, 14,
		1, 2, x, x,
	}

	Teensy40ADC2Pins = core.PinTable{
		7, 8, 12, 11, 6, 5, 15, 0, 13, 14, x, x, 3, 4,
		7, 8, 12, 11, 6, 5, 15, 0, 13, 14,
		x, x, 3, 4,
	}
)

// The RT1062 converters have no differential mux.
var (
	Teensy40ADC1Pairs core.DiffPairTable
	Teensy40ADC2Pairs core.DiffPairTable
)

// Board bundles the per-instance tables of one board.
type Board struct {
	Name  string
	Pins  [core.MaxConverters]core.PinTable
	Pairs [core.MaxConverters]core.DiffPairTable
	// VRefMilliVolt is the default reference voltage.
	VRefMilliVolt uint32
}

var Teensy40 = Board{
	Name:          "teensy40",
	Pins:          [core.MaxConverters]core.PinTable{Teensy40ADC1Pins, Teensy40ADC2Pins},
	Pairs:         [core.MaxConverters]core.DiffPairTable{Teensy40ADC1Pairs, Teensy40ADC2Pairs},
	VRefMilliVolt: 3300,
}

// PinFor returns the instance that can convert pin, preferring the
// first one. ok is false when no instance is wired to it.
func (b *Board) PinFor(pin uint8) (adc uint8, ok bool) {
	for i, table := range b.Pins {
		if int(pin) < len(table) && !table[pin].Invalid() {
			return uint8(i), true
		}
	}
	return 0, false
}
