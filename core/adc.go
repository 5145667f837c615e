// ADC (Analog to Digital Converter) resource arbitration
// A Converter owns one physical conversion engine and serializes
// calibration, configuration and conversions on it.
package core

import "teensyadc/regs"

// DefaultBusClock is the peripheral bus frequency on a Teensy 4 at 600 MHz.
const DefaultBusClock = 150000000

// Converter states
const (
	StateIdle       = 0
	StateConverting = 1
	StateComplete   = 2
)

// Conversion mode bits reported in Status.Mode. Zero is single-shot.
const (
	ModeSingle       = 0
	ModeDifferential = 1 << 0
	ModeContinuous   = 1 << 1
)

// Status is a consistent view of the conversion engine.
type Status struct {
	State uint8
	Mode  uint8
}

// ConversionSnapshot holds the registers needed to resume a conversion
// that a preempting read interrupted.
type ConversionSnapshot struct {
	HC0 uint32
	CFG uint32
	GC  uint32
	GS  uint32
}

// Converter is one ADC instance.
type Converter struct {
	num  uint8
	regs Registers

	pins PinTable
	diff DiffPairTable

	busClock uint32

	// set while the hardware calibration sequence runs
	calibrating bool

	resolution      uint8
	maxValue        uint32
	averaging       uint8
	reference       Reference
	conversionSpeed ConversionSpeed
	samplingSpeed   SamplingSpeed

	pgaEnabled bool
	pgaValue   uint8

	offsetSet bool
	offsetReg uint32

	compareSet bool
	compareGC  uint32
	compareCV  uint32

	interruptsEnabled bool
	dmaEnabled        bool

	// number of blocking and continuous measurements in flight
	measurements uint8

	failFlag ErrorFlag

	// preempted conversion saved by the non-blocking starts
	wasInUse bool
	saved    ConversionSnapshot
}

// NewConverter binds a converter to instance num and its register bank.
// It does not touch the hardware; apply a configuration and calibrate
// before the first conversion.
func NewConverter(num uint8, bank Registers, pins PinTable, diff DiffPairTable) (*Converter, error) {
	if num >= MaxConverters {
		return nil, ErrInvalidInstance
	}
	if bank == nil {
		return nil, ErrNoRegisters
	}
	return &Converter{
		num:       num,
		regs:      bank,
		pins:      pins,
		diff:      diff,
		busClock:  DefaultBusClock,
		averaging: averagingUnset,
		pgaValue:  1,
	}, nil
}

// Num returns the instance number.
func (c *Converter) Num() uint8 {
	return c.num
}

// SetBusClock tells the converter the bus frequency that feeds ADCK.
// A bus-clocked conversion speed already in effect gets its divider
// recomputed; recalibrate afterwards.
func (c *Converter) SetBusClock(hz uint32) {
	if hz == 0 {
		c.fail(ErrorOther, 0, "bus clock cannot be zero")
		return
	}
	if hz == c.busClock {
		return
	}
	c.busClock = hz
	if !c.conversionSpeed.busClocked() {
		return
	}

	c.waitIfCalibrating()
	c.writeClock(c.conversionSpeed)
}

// BusClock returns the bus frequency used for the ADCK divider.
func (c *Converter) BusClock() uint32 {
	return c.busClock
}

// Measurements returns the number of blocking and continuous
// measurements currently in flight.
func (c *Converter) Measurements() uint8 {
	return c.measurements
}

func (c *Converter) tag() string {
	return "[ADC" + utoa(uint32(c.num)) + "] "
}

// IsConverting reports whether a conversion is in progress.
func (c *Converter) IsConverting() bool {
	return c.regs.HasBits(regs.GS, regs.GS_ADACT)
}

// IsComplete reports whether a result is waiting in R0. Reading the
// result clears it.
func (c *Converter) IsComplete() bool {
	return c.regs.HasBits(regs.HS, regs.HS_COCO0)
}

// IsContinuous reports whether continuous mode is selected.
func (c *Converter) IsContinuous() bool {
	return c.regs.HasBits(regs.GC, regs.GC_ADCO)
}

// IsDifferential reports whether the channel select is in differential mode.
func (c *Converter) IsDifferential() bool {
	return c.regs.HasBits(regs.HC0, regs.HC_DIFF)
}

// IsPGAEnabled reports whether the gain amplifier is on.
func (c *Converter) IsPGAEnabled() bool {
	return c.regs.HasBits(regs.PGA, regs.PGA_PGAEN)
}

// Channel returns the channel code currently programmed in HC0.
func (c *Converter) Channel() uint8 {
	return uint8(regs.Extract(c.regs.Get(regs.HC0), regs.HC_ADCH_Pos, regs.HC_ADCH_Msk))
}

// Status samples the engine state. Status and mode registers are read
// under one critical section so they describe the same instant.
func (c *Converter) Status() Status {
	state := disableInterrupts()
	active := c.regs.HasBits(regs.GS, regs.GS_ADACT)
	complete := c.regs.HasBits(regs.HS, regs.HS_COCO0)
	gc := c.regs.Get(regs.GC)
	hc := c.regs.Get(regs.HC0)
	restoreInterrupts(state)

	var s Status
	switch {
	case active:
		s.State = StateConverting
	case complete:
		s.State = StateComplete
	default:
		s.State = StateIdle
	}
	if gc&regs.GC_ADCO != 0 {
		s.Mode |= ModeContinuous
	}
	if hc&regs.HC_DIFF != 0 {
		s.Mode |= ModeDifferential
	}
	return s
}

// ContinuousMode sets continuous conversion mode.
func (c *Converter) ContinuousMode() {
	c.regs.SetBits(regs.GC, regs.GC_ADCO)
}

// SingleMode sets single-shot conversion mode.
func (c *Converter) SingleMode() {
	c.regs.ClearBits(regs.GC, regs.GC_ADCO)
}

// DifferentialMode sets the differential bit of the channel select.
// Like any channel-select write it restarts the conversion.
func (c *Converter) DifferentialMode() {
	state := disableInterrupts()
	c.regs.SetBits(regs.HC0, regs.HC_DIFF)
	restoreInterrupts(state)
}

// SetSoftwareTrigger starts conversions on channel-select writes.
func (c *Converter) SetSoftwareTrigger() {
	c.regs.ClearBits(regs.CFG, regs.CFG_ADTRG)
}

// SetHardwareTrigger starts conversions on the external trigger input.
func (c *Converter) SetHardwareTrigger() {
	c.regs.SetBits(regs.CFG, regs.CFG_ADTRG)
}

// SaveConfig captures the registers that describe the running conversion.
// Call it with interrupts masked.
func (c *Converter) SaveConfig() ConversionSnapshot {
	return ConversionSnapshot{
		HC0: c.regs.Get(regs.HC0),
		CFG: c.regs.Get(regs.CFG),
		GC:  c.regs.Get(regs.GC),
		GS:  c.regs.Get(regs.GS),
	}
}

// LoadConfig writes a snapshot back. HC0 goes last because writing it
// starts the conversion, which must see the restored mode.
// Call it with interrupts masked.
func (c *Converter) LoadConfig(s ConversionSnapshot) {
	c.regs.Set(regs.CFG, s.CFG)
	c.regs.Set(regs.GC, s.GC)
	c.regs.Set(regs.GS, s.GS)
	c.regs.Set(regs.HC0, s.HC0)
}

// Preempted returns the snapshot taken by the last non-blocking or
// continuous start and whether that start interrupted a conversion.
// Nothing restores it automatically; pass it to LoadConfig when the
// preempting conversion has been read.
func (c *Converter) Preempted() (ConversionSnapshot, bool) {
	return c.saved, c.wasInUse
}

// aien returns the interrupt-enable bit to merge into HC0 writes.
func (c *Converter) aien() uint32 {
	if c.interruptsEnabled {
		return regs.HC_AIEN
	}
	return 0
}
