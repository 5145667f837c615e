package core

import "teensyadc/regs"

// StartReadFast programs pin into the channel select, which starts a
// single-ended conversion. No pin check; the continuous bit is unchanged.
func (c *Converter) StartReadFast(pin uint8) {
	c.startChannel(uint32(c.pins[pin].Channel()))
}

// startChannel triggers a single-ended conversion on a raw channel.
func (c *Converter) startChannel(ch uint32) {
	state := disableInterrupts()
	c.regs.Set(regs.HC0, ch|c.aien())
	restoreInterrupts(state)

	RecordEvent(EvtStart, c.num, ch|c.aien(), uint32(c.modeBits(false)))
}

// StartDifferentialFast starts a differential conversion on the pair
// selected by pinP. No pair check; the continuous bit is unchanged.
func (c *Converter) StartDifferentialFast(pinP, pinN uint8) {
	ch := uint32(c.diff.Lookup(pinP).Channel())
	if c.IsPGAEnabled() {
		ch = pgaChannel
	}

	hc := regs.HC_DIFF | ch | c.aien()
	state := disableInterrupts()
	c.regs.Set(regs.HC0, hc)
	restoreInterrupts(state)

	RecordEvent(EvtStart, c.num, hc, uint32(c.modeBits(true)))
}

func (c *Converter) modeBits(differential bool) uint8 {
	var m uint8
	if differential {
		m |= ModeDifferential
	}
	if c.IsContinuous() {
		m |= ModeContinuous
	}
	return m
}

// ReadSingle returns the result of a single conversion started with
// StartSingleRead or StartSingleDifferential.
func (c *Converter) ReadSingle() int32 {
	return c.AnalogReadContinuous()
}

// AnalogReadContinuous returns the last converted value. Single-ended
// 16-bit results must be taken as uint16 by the caller.
func (c *Converter) AnalogReadContinuous() int32 {
	return int32(int16(c.regs.Get(regs.R0)))
}

// AnalogRead converts pin and waits for the result. If a comparison is
// configured and fails, ErrorValue is returned and ErrorComparison set.
// A conversion already running is saved first and resumed afterwards.
func (c *Converter) AnalogRead(pin uint8) int32 {
	if !c.IsValidPin(pin) {
		c.fail(ErrorWrongPin, pin, "analog read: wrong pin "+utoa(uint32(pin)))
		return ErrorValue
	}
	return c.readBlocking(pin, false, func() { c.StartReadFast(pin) })
}

// InternalSource is a converter channel not routed to any pin.
type InternalSource uint8

const (
	// VRefSH is the self-test channel tied to VREFH inside the converter.
	// It reads MaxValue on a healthy converter.
	VRefSH InternalSource = regs.ChannelVREFSH
)

// AnalogReadInternal converts an internal source and waits for the
// result, with the same preemption and comparison rules as AnalogRead.
func (c *Converter) AnalogReadInternal(src InternalSource) int32 {
	if src != VRefSH {
		c.fail(ErrorWrongPin, uint8(src), "internal read: unknown source "+utoa(uint32(src)))
		return ErrorValue
	}
	return c.readBlocking(uint8(src), false, func() { c.startChannel(uint32(src)) })
}

// AnalogReadDifferential converts pinP-pinN and waits for the result.
// At 16 bits the hardware reports 15 bits plus sign, so the value is
// doubled to keep MaxValue meaningful.
func (c *Converter) AnalogReadDifferential(pinP, pinN uint8) int32 {
	if !c.IsValidDifferentialPair(pinP, pinN) {
		c.fail(ErrorWrongPin, pinP, "differential read: wrong pair "+utoa(uint32(pinP))+"-"+utoa(uint32(pinN)))
		return ErrorValue
	}
	return c.readBlocking(pinP, true, func() { c.StartDifferentialFast(pinP, pinN) })
}

// readBlocking runs one preempting conversion; start triggers it on a
// validated pin, pair or internal source. pin is only logged.
func (c *Converter) readBlocking(pin uint8, differential bool, start func()) int32 {
	c.measurements++

	// a conversion starts as soon as HC0 is written
	c.waitIfCalibrating()

	var old ConversionSnapshot
	wasInUse := c.IsConverting()
	if wasInUse {
		state := disableInterrupts()
		old = c.SaveConfig()
		restoreInterrupts(state)
		RecordEvent(EvtPreempt, c.num, old.HC0, old.GC)
	}

	c.SingleMode()
	start()

	for c.IsConverting() {
		yield()
	}

	// completion flag and result must be read as a pair
	var result int32
	ok := true
	state := disableInterrupts()
	if c.IsComplete() {
		if differential {
			result = c.ReadSingle()
			if c.resolution == 16 {
				result *= 2
			}
		} else {
			result = int32(uint16(c.ReadSingle()))
		}
	} else {
		c.failFlag |= ErrorComparison
		result = ErrorValue
		ok = false
	}
	restoreInterrupts(state)

	if !ok {
		RecordEvent(EvtError, c.num, uint32(ErrorComparison), uint32(pin))
		c.debug("comparison false on pin " + utoa(uint32(pin)))
	}

	if wasInUse {
		state = disableInterrupts()
		c.LoadConfig(old)
		restoreInterrupts(state)
		RecordEvent(EvtRestore, c.num, old.HC0, old.GC)
	}

	if c.measurements > 0 {
		c.measurements--
	}
	return result
}

// preempt saves the running conversion, if any, into the instance.
func (c *Converter) preempt() {
	c.wasInUse = c.IsConverting()
	if c.wasInUse {
		state := disableInterrupts()
		c.saved = c.SaveConfig()
		restoreInterrupts(state)
		RecordEvent(EvtPreempt, c.num, c.saved.HC0, c.saved.GC)
	}
}

// StartSingleRead starts a conversion on pin and returns immediately;
// fetch the value with ReadSingle once IsComplete. A conversion that was
// running is saved in the instance (see Preempted) but not restored.
func (c *Converter) StartSingleRead(pin uint8) bool {
	if !c.IsValidPin(pin) {
		c.fail(ErrorWrongPin, pin, "start single: wrong pin "+utoa(uint32(pin)))
		return false
	}

	c.waitIfCalibrating()
	c.preempt()
	c.SingleMode()
	c.StartReadFast(pin)
	return true
}

// StartSingleDifferential is StartSingleRead for the pair pinP-pinN.
func (c *Converter) StartSingleDifferential(pinP, pinN uint8) bool {
	if !c.IsValidDifferentialPair(pinP, pinN) {
		c.fail(ErrorWrongPin, pinP, "start differential: wrong pair "+utoa(uint32(pinP))+"-"+utoa(uint32(pinN)))
		return false
	}

	c.waitIfCalibrating()
	c.preempt()
	c.SingleMode()
	c.StartDifferentialFast(pinP, pinN)
	return true
}

// StartContinuous starts free-running conversions on pin. Read values
// with AnalogReadContinuous; stop with StopContinuous. A conversion that
// was running is replaced without a snapshot, and Preempted keeps
// reporting the last one saved.
func (c *Converter) StartContinuous(pin uint8) bool {
	if !c.IsValidPin(pin) {
		c.fail(ErrorWrongPin, pin, "start continuous: wrong pin "+utoa(uint32(pin)))
		return false
	}

	c.waitIfCalibrating()
	c.measurements++
	c.ContinuousMode()
	c.StartReadFast(pin)
	return true
}

// StartContinuousDifferential is StartContinuous for the pair pinP-pinN,
// except that a running conversion is saved (see Preempted).
func (c *Converter) StartContinuousDifferential(pinP, pinN uint8) bool {
	if !c.IsValidDifferentialPair(pinP, pinN) {
		c.fail(ErrorWrongPin, pinP, "start continuous differential: wrong pair "+utoa(uint32(pinP))+"-"+utoa(uint32(pinN)))
		return false
	}

	c.waitIfCalibrating()
	c.measurements++
	c.preempt()
	c.ContinuousMode()
	c.StartDifferentialFast(pinP, pinN)
	return true
}

// StopContinuous disables the channel mux, which halts the converter.
func (c *Converter) StopContinuous() {
	c.regs.Set(regs.HC0, regs.ChannelDisabled|c.aien())

	if c.measurements > 0 {
		c.measurements--
	}
	RecordEvent(EvtStop, c.num, uint32(c.measurements), 0)
}
