package core

import "teensyadc/regs"

// Registers is the abstract register bank of one ADC instance.
// Target code backs it with memory-mapped hardware; host tests use a
// simulated bank. None of the operations are atomic with respect to
// interrupts; callers wrap multi-step sequences in a critical section.
type Registers interface {
	// Get reads the full register.
	Get(r regs.Register) uint32

	// Set writes the full register.
	Set(r regs.Register, value uint32)

	// SetBits sets every bit in mask.
	SetBits(r regs.Register, mask uint32)

	// ClearBits clears every bit in mask.
	ClearBits(r regs.Register, mask uint32)

	// ChangeBits replaces the bits selected by mask with value.
	ChangeBits(r regs.Register, mask, value uint32)

	// HasBits reports whether all bits in mask are set.
	HasBits(r regs.Register, mask uint32) bool
}

// MaxConverters is the number of ADC instances a chip can expose.
const MaxConverters = 2

// Global arena of converters, indexed by instance number.
var converters [MaxConverters]*Converter

// RegisterConverter is called by target-specific code once per instance.
func RegisterConverter(c *Converter) error {
	if c == nil || c.num >= MaxConverters {
		return ErrInvalidInstance
	}
	if converters[c.num] != nil && converters[c.num] != c {
		return ErrInstanceInUse
	}
	converters[c.num] = c
	return nil
}

// GetConverter returns the converter registered for num, if any.
func GetConverter(num uint8) (*Converter, bool) {
	if num >= MaxConverters || converters[num] == nil {
		return nil, false
	}
	return converters[num], true
}

// MustConverter returns the registered converter or panics if missing.
func MustConverter(num uint8) *Converter {
	c, ok := GetConverter(num)
	if !ok {
		panic("ADC converter not configured")
	}
	return c
}

// resetConverters clears the arena (tests only).
func resetConverters() {
	for i := range converters {
		converters[i] = nil
	}
}
