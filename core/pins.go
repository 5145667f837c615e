package core

import "teensyadc/regs"

// ChannelCode is a pin's entry in a converter's channel table: the low five
// bits are the hardware channel, the high bits are capability flags.
type ChannelCode uint8

const (
	ChannelMask      ChannelCode = 0x1F
	ChannelInvalid   ChannelCode = regs.ChannelDisabled // also stops the converter
	FlagDifferential ChannelCode = 0x40
	FlagGain         ChannelCode = 0x80
)

// pgaChannel is the differential channel the gain amplifier is wired to.
const pgaChannel = 0x2

// Channel returns the hardware channel number.
func (c ChannelCode) Channel() uint8 { return uint8(c & ChannelMask) }

// Invalid reports whether the code is the invalid/disabled sentinel.
func (c ChannelCode) Invalid() bool { return c&ChannelMask == ChannelInvalid }

// Differential reports whether the pin can be the positive input of a pair.
func (c ChannelCode) Differential() bool { return c&FlagDifferential != 0 }

// GainCapable reports whether the pair can be routed through the PGA.
func (c ChannelCode) GainCapable() bool { return c&FlagGain != 0 }

// PinTable maps logical pin indices to channel codes. It is read-only once
// built; converters on the same chip may wire pins differently.
type PinTable []ChannelCode

// DiffPair associates a positive differential pin with its channel code.
type DiffPair struct {
	Pin  uint8
	Code ChannelCode
}

// DiffPairTable lists the legal differential pairings of one converter.
type DiffPairTable []DiffPair

// Lookup returns the code of the first entry for pin, or ChannelInvalid.
func (t DiffPairTable) Lookup(pin uint8) ChannelCode {
	for _, p := range t {
		if p.Pin == pin {
			return p.Code
		}
	}
	return ChannelInvalid
}

// MaxPin returns the highest pin index the converter accepts.
func (c *Converter) MaxPin() int {
	return len(c.pins) - 1
}

// IsValidPin reports whether pin is in range and wired to a channel.
func (c *Converter) IsValidPin(pin uint8) bool {
	if int(pin) >= len(c.pins) {
		return false
	}
	return !c.pins[pin].Invalid()
}

// IsValidDifferentialPair reports whether pinP-pinN can be measured.
// pinN is implied by the pair table: the hardware pairs are fixed, so only
// the positive pin selects the entry. While the PGA is enabled the pair
// must also have access to the gain path.
func (c *Converter) IsValidDifferentialPair(pinP, pinN uint8) bool {
	if int(pinP) >= len(c.pins) {
		return false
	}
	if !c.pins[pinP].Differential() {
		return false
	}

	code := c.diff.Lookup(pinP)
	if code.Invalid() {
		return false
	}

	if c.IsPGAEnabled() && !code.GainCapable() {
		return false
	}
	return true
}
