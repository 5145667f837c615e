package core

import "errors"

// ErrorFlag is the accumulated error bitmask of a converter. Bits stay set
// until ResetError is called.
type ErrorFlag uint16

const (
	ErrorClear       ErrorFlag = 0
	ErrorOther       ErrorFlag = 1 << 0 // unsupported setting requested
	ErrorCalibration ErrorFlag = 1 << 1 // hardware reported calibration failure
	ErrorWrongPin    ErrorFlag = 1 << 2 // pin or differential pair rejected
	ErrorComparison  ErrorFlag = 1 << 3 // conversion completed but compare was false
)

// ErrorValue is returned by reads that failed. It is also a legal
// differential sample; check Errors to tell the two apart.
const ErrorValue int32 = -1

var (
	ErrInvalidInstance = errors.New("adc: invalid converter instance")
	ErrNoRegisters     = errors.New("adc: no register bank")
	ErrInstanceInUse   = errors.New("adc: converter instance already registered")
)

// Has reports whether any bit in mask is set.
func (f ErrorFlag) Has(mask ErrorFlag) bool {
	return f&mask != 0
}

func (f ErrorFlag) String() string {
	if f == ErrorClear {
		return "clear"
	}
	s := ""
	add := func(bit ErrorFlag, name string) {
		if f&bit == 0 {
			return
		}
		if s != "" {
			s += "|"
		}
		s += name
	}
	add(ErrorOther, "other")
	add(ErrorCalibration, "calibration")
	add(ErrorWrongPin, "wrong_pin")
	add(ErrorComparison, "comparison")
	if rest := f &^ (ErrorOther | ErrorCalibration | ErrorWrongPin | ErrorComparison); rest != 0 {
		if s != "" {
			s += "|"
		}
		s += hex32(uint32(rest))
	}
	return s
}

// Errors returns the accumulated error bitmask.
func (c *Converter) Errors() ErrorFlag {
	return c.failFlag
}

// ResetError clears all accumulated errors.
func (c *Converter) ResetError() {
	c.failFlag = ErrorClear
}

// fail raises flag and records it; pin is informational.
func (c *Converter) fail(flag ErrorFlag, pin uint8, msg string) {
	c.failFlag |= flag
	RecordEvent(EvtError, c.num, uint32(flag), uint32(pin))
	c.debug(msg)
}

// debug queues msg with the instance tag.
func (c *Converter) debug(msg string) {
	if !IsDebugEnabled() {
		return
	}
	DebugAsync(c.tag() + msg)
}
