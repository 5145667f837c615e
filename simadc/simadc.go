// Package simadc is a deterministic register-level model of one ADC
// instance for host tests. Progress is driven by polling: every read of
// GS advances a running conversion and every read of GC advances a
// running calibration, so the converter's yield loops terminate without
// goroutines or clocks.
package simadc

import "teensyadc/regs"

// Default number of status polls a conversion or calibration takes.
const (
	DefaultConversionPolls  = 2
	DefaultCalibrationPolls = 3
)

// Bank simulates one register bank. The zero value is not usable; call New.
type Bank struct {
	reg [regs.NumRegisters]uint32

	// Inputs holds the single-ended sample returned per channel.
	Inputs [32]uint16
	// DiffInputs holds the signed differential sample per channel.
	DiffInputs [32]int16

	ConversionPolls  int
	CalibrationPolls int

	// FailCalibration makes the next calibrations report CALF.
	FailCalibration bool

	// OnComplete, if set, runs when a conversion completes with AIEN set,
	// standing in for the ADC interrupt handler.
	OnComplete func()

	// Writes counts every mutating register access.
	Writes int
	// Started counts triggered conversions; Completed those that produced
	// a result; Calibrations the calibration sequences run.
	Started      int
	Completed    int
	Calibrations int

	active       bool
	differential bool
	channel      uint8
	remaining    int

	calibrating  bool
	calRemaining int
}

// New returns a bank in its reset state: converter idle, channel
// disabled.
func New() *Bank {
	b := &Bank{
		ConversionPolls:  DefaultConversionPolls,
		CalibrationPolls: DefaultCalibrationPolls,
	}
	b.reg[regs.HC0] = regs.ChannelDisabled
	return b
}

// Get implements core.Registers.
func (b *Bank) Get(r regs.Register) uint32 {
	b.tick(r)
	v := b.reg[r]
	if r == regs.R0 {
		// reading the result clears the completion flag
		b.reg[regs.HS] &^= regs.HS_COCO0
	}
	return v
}

// Set implements core.Registers.
func (b *Bank) Set(r regs.Register, value uint32) {
	b.Writes++
	b.write(r, value)
}

// SetBits implements core.Registers.
func (b *Bank) SetBits(r regs.Register, mask uint32) {
	b.Writes++
	b.write(r, b.reg[r]|mask)
}

// ClearBits implements core.Registers.
func (b *Bank) ClearBits(r regs.Register, mask uint32) {
	b.Writes++
	b.write(r, b.reg[r]&^mask)
}

// ChangeBits implements core.Registers.
func (b *Bank) ChangeBits(r regs.Register, mask, value uint32) {
	b.Writes++
	b.write(r, (b.reg[r]&^mask)|(value&mask))
}

// HasBits implements core.Registers.
func (b *Bank) HasBits(r regs.Register, mask uint32) bool {
	return b.Get(r)&mask == mask
}

// Peek returns a register without advancing the model.
func (b *Bank) Peek(r regs.Register) uint32 {
	return b.reg[r]
}

// Active reports whether a conversion is running.
func (b *Bank) Active() bool {
	return b.active
}

// Channel returns the channel of the running or last conversion.
func (b *Bank) Channel() uint8 {
	return b.channel
}

// Differential reports whether the running or last conversion is differential.
func (b *Bank) Differential() bool {
	return b.differential
}

func (b *Bank) write(r regs.Register, v uint32) {
	switch r {
	case regs.HC0:
		b.reg[r] = v
		b.trigger(v)
	case regs.GS:
		// ADACT is owned by the converter
		v &^= regs.GS_ADACT
		if b.active {
			v |= regs.GS_ADACT
		}
		b.reg[r] = v
	case regs.GC:
		b.reg[r] = v
		if v&regs.GC_CAL != 0 && !b.calibrating {
			b.calibrating = true
			b.calRemaining = b.CalibrationPolls
			b.Calibrations++
		}
	case regs.HS, regs.R0:
		// read-only
	default:
		b.reg[r] = v
	}
}

// trigger models a channel-select write: it aborts any running conversion
// and starts a new one unless the channel is disabled.
func (b *Bank) trigger(hc uint32) {
	b.reg[regs.HS] &^= regs.HS_COCO0

	ch := uint8(regs.Extract(hc, regs.HC_ADCH_Pos, regs.HC_ADCH_Msk))
	if ch == regs.ChannelDisabled || b.reg[regs.CFG]&regs.CFG_ADTRG != 0 {
		b.setActive(false)
		return
	}

	b.channel = ch
	b.differential = hc&regs.HC_DIFF != 0
	b.remaining = b.ConversionPolls
	b.setActive(true)
	b.Started++
}

func (b *Bank) setActive(on bool) {
	b.active = on
	if on {
		b.reg[regs.GS] |= regs.GS_ADACT
	} else {
		b.reg[regs.GS] &^= regs.GS_ADACT
	}
}

func (b *Bank) tick(r regs.Register) {
	switch r {
	case regs.GS:
		if b.active {
			b.remaining--
			if b.remaining <= 0 {
				b.complete()
			}
		}
	case regs.GC:
		if b.calibrating {
			b.calRemaining--
			if b.calRemaining <= 0 {
				b.calibrating = false
				b.reg[regs.GC] &^= regs.GC_CAL
				if b.FailCalibration {
					b.reg[regs.GS] |= regs.GS_CALF
				}
			}
		}
	}
}

func (b *Bank) complete() {
	var value uint32
	var signed int32
	if b.differential {
		signed = int32(b.DiffInputs[b.channel])
		value = uint32(uint16(b.DiffInputs[b.channel]))
	} else {
		signed = int32(b.Inputs[b.channel])
		value = uint32(b.Inputs[b.channel])
	}

	if b.compareHolds(signed) {
		b.reg[regs.R0] = value & regs.R_CDATA_Msk
		b.reg[regs.HS] |= regs.HS_COCO0
		b.Completed++
	}

	if b.reg[regs.GC]&regs.GC_ADCO != 0 {
		b.remaining = b.ConversionPolls
	} else {
		b.setActive(false)
	}

	if b.reg[regs.HS]&regs.HS_COCO0 != 0 && b.reg[regs.HC0]&regs.HC_AIEN != 0 && b.OnComplete != nil {
		b.OnComplete()
	}
}

// compareHolds evaluates the compare function configured in GC/CV.
func (b *Bank) compareHolds(v int32) bool {
	gc := b.reg[regs.GC]
	if gc&regs.GC_ACFE == 0 {
		return true
	}

	cv := b.reg[regs.CV]
	cv1 := int32(int16(uint16(regs.Extract(cv, regs.CV_CV1_Pos, regs.CV_CV1_Msk)<<4)) >> 4)
	cv2 := int32(int16(uint16(regs.Extract(cv, regs.CV_CV2_Pos, regs.CV_CV2_Msk)<<4)) >> 4)
	if !b.differential {
		cv1 &= 0xFFF
		cv2 &= 0xFFF
	}
	gt := gc&regs.GC_ACFGT != 0

	if gc&regs.GC_ACREN == 0 {
		if gt {
			return v >= cv1
		}
		return v < cv1
	}

	switch {
	case gt && cv1 <= cv2:
		return v >= cv1 && v <= cv2
	case gt:
		return v >= cv1 || v <= cv2
	case cv1 <= cv2:
		return v < cv1 || v > cv2
	default:
		return v > cv2 && v < cv1
	}
}
