package core

import "teensyadc/regs"

// Reference selects the voltage reference.
type Reference uint8

const (
	refUnset   Reference = iota
	RefDefault           // external VREFH/VREFL pins
	RefAlt               // alternate (internal) reference
)

// ConversionSpeed selects the ADC clock (ADCK).
type ConversionSpeed uint8

const (
	convUnset ConversionSpeed = iota
	LowSpeed                  // bus clock, ADCK <= 10 MHz, low power
	MedSpeed                  // bus clock, ADCK <= 20 MHz
	HighSpeed                 // bus clock, ADCK <= 40 MHz, high speed config
	Adack10                   // asynchronous clock, 10 MHz
	Adack20                   // asynchronous clock, 20 MHz
)

// SamplingSpeed selects the sample time in ADCK cycles.
type SamplingSpeed uint8

const (
	sampUnset          SamplingSpeed = iota
	VeryLowSampling                  // 25 ADCK
	LowSampling                      // 21 ADCK
	LowMedSampling                   // 17 ADCK
	MedSampling                      // 13 ADCK
	MedHighSampling                  // 9 ADCK
	HighSampling                     // 7 ADCK
	HighVeryHighSampling             // 5 ADCK
	VeryHighSampling                 // 3 ADCK
)

const averagingUnset = 0xFF

// ADCK ceilings for the bus-clocked speeds.
var speedLimitHz = [...]uint32{
	LowSpeed:  10000000,
	MedSpeed:  20000000,
	HighSpeed: 40000000,
}

// SetResolution changes the conversion resolution. Supported values are
// 8, 10, 12 and 16 bits; others round up to the next supported one.
// Differential conversions use one extra bit for the sign.
// Change compare values afterwards if they are in use. No recalibration
// is needed.
func (c *Converter) SetResolution(bits uint8) {
	var mode uint32
	switch {
	case bits <= 8:
		bits, mode = 8, 0
	case bits <= 10:
		bits, mode = 10, 1
	case bits <= 12:
		bits, mode = 12, 2
	case bits <= 16:
		bits, mode = 16, 3
	default:
		c.fail(ErrorOther, 0, "unsupported resolution "+utoa(uint32(bits)))
		return
	}

	if c.resolution == bits {
		return
	}

	c.waitIfCalibrating()

	c.regs.ChangeBits(regs.CFG, regs.CFG_MODE_Msk, regs.Field(mode, regs.CFG_MODE_Pos, regs.CFG_MODE_Msk))
	c.resolution = bits
	c.maxValue = (1 << bits) - 1
}

// Resolution returns the resolution in bits, 0 before SetResolution.
func (c *Converter) Resolution() uint8 {
	return c.resolution
}

// MaxValue returns the largest result at the current resolution, 2^bits-1.
func (c *Converter) MaxValue() uint32 {
	return c.maxValue
}

// SetAveraging sets the number of hardware averages: 0, 4, 8, 16 or 32.
// Intermediate requests round up; 1 means no averaging.
func (c *Converter) SetAveraging(num uint8) {
	var avgs uint32
	switch {
	case num <= 1:
		num = 0
	case num <= 4:
		num, avgs = 4, 0
	case num <= 8:
		num, avgs = 8, 1
	case num <= 16:
		num, avgs = 16, 2
	default:
		num, avgs = 32, 3
	}

	if c.averaging == num {
		return
	}

	c.waitIfCalibrating()

	if num == 0 {
		c.regs.ClearBits(regs.GC, regs.GC_AVGE)
	} else {
		c.regs.SetBits(regs.GC, regs.GC_AVGE)
		c.regs.ChangeBits(regs.CFG, regs.CFG_AVGS_Msk, regs.Field(avgs, regs.CFG_AVGS_Pos, regs.CFG_AVGS_Msk))
	}
	c.averaging = num
}

// Averaging returns the number of hardware averages in effect.
func (c *Converter) Averaging() uint8 {
	if c.averaging == averagingUnset {
		return 0
	}
	return c.averaging
}

// SetReference selects the voltage reference and starts a calibration.
// It returns without waiting for the calibration to finish.
func (c *Converter) SetReference(ref Reference) {
	var refsel uint32
	switch ref {
	case RefDefault:
		refsel = 0
	case RefAlt:
		refsel = 1
	default:
		c.fail(ErrorOther, 0, "unsupported reference")
		return
	}

	if c.reference == ref {
		return
	}

	c.waitIfCalibrating()

	c.regs.ChangeBits(regs.CFG, regs.CFG_REFSEL_Msk, regs.Field(refsel, regs.CFG_REFSEL_Pos, regs.CFG_REFSEL_Msk))
	c.reference = ref

	c.Calibrate()
}

// Reference returns the selected voltage reference.
func (c *Converter) Reference() Reference {
	return c.reference
}

// SetConversionSpeed selects the ADC clock source and divider.
func (c *Converter) SetConversionSpeed(speed ConversionSpeed) {
	if speed == convUnset || speed > Adack20 {
		c.fail(ErrorOther, 0, "unsupported conversion speed "+utoa(uint32(speed)))
		return
	}
	if speed == c.conversionSpeed {
		return
	}

	c.waitIfCalibrating()
	c.writeClock(speed)
	c.conversionSpeed = speed
}

// writeClock programs the clock source and divider for speed at the
// current bus clock.
func (c *Converter) writeClock(speed ConversionSpeed) {
	var adack bool
	var cfgSet, cfgClear uint32
	switch speed {
	case LowSpeed:
		cfgSet, cfgClear = regs.CFG_ADLPC, regs.CFG_ADHSC
	case MedSpeed:
		cfgClear = regs.CFG_ADLPC | regs.CFG_ADHSC
	case HighSpeed:
		cfgSet, cfgClear = regs.CFG_ADHSC, regs.CFG_ADLPC
	case Adack10:
		cfgClear = regs.CFG_ADHSC
		adack = true
	case Adack20:
		cfgSet = regs.CFG_ADHSC
		adack = true
	}

	c.regs.ChangeBits(regs.CFG, cfgSet|cfgClear, cfgSet)
	if adack {
		c.regs.ChangeBits(regs.CFG, regs.CFG_ADICLK_Msk|regs.CFG_ADIV_Msk,
			regs.Field(regs.ADICLK_Adack, regs.CFG_ADICLK_Pos, regs.CFG_ADICLK_Msk))
		c.regs.SetBits(regs.GC, regs.GC_ADACKEN)
	} else {
		c.regs.ClearBits(regs.GC, regs.GC_ADACKEN)
		c.regs.ChangeBits(regs.CFG, regs.CFG_ADICLK_Msk|regs.CFG_ADIV_Msk,
			busDivider(c.busClock, speedLimitHz[speed]))
	}
}

// busClocked reports whether speed derives ADCK from the bus clock.
func (s ConversionSpeed) busClocked() bool {
	return s == LowSpeed || s == MedSpeed || s == HighSpeed
}

// busDivider returns the CFG ADICLK|ADIV bits for the smallest divider
// that keeps busHz/div at or below limitHz. Dividers run 1, 2, 4, 8
// from the bus clock, then 16 from the halved bus clock.
func busDivider(busHz, limitHz uint32) uint32 {
	for adiv := uint32(0); adiv < 4; adiv++ {
		if busHz>>adiv <= limitHz {
			return regs.Field(regs.ADICLK_Bus, regs.CFG_ADICLK_Pos, regs.CFG_ADICLK_Msk) |
				regs.Field(adiv, regs.CFG_ADIV_Pos, regs.CFG_ADIV_Msk)
		}
	}
	return regs.Field(regs.ADICLK_BusHalf, regs.CFG_ADICLK_Pos, regs.CFG_ADICLK_Msk) |
		regs.Field(3, regs.CFG_ADIV_Pos, regs.CFG_ADIV_Msk)
}

// ConversionSpeed returns the selected conversion speed.
func (c *Converter) ConversionSpeed() ConversionSpeed {
	return c.conversionSpeed
}

// SetSamplingSpeed sets the sample time. Use slower sampling for high
// impedance sources.
func (c *Converter) SetSamplingSpeed(speed SamplingSpeed) {
	if speed == sampUnset || speed > VeryHighSampling {
		c.fail(ErrorOther, 0, "unsupported sampling speed "+utoa(uint32(speed)))
		return
	}
	if speed == c.samplingSpeed {
		return
	}

	var long bool
	var adsts uint32
	switch speed {
	case VeryLowSampling:
		long, adsts = true, 3
	case LowSampling:
		long, adsts = true, 2
	case LowMedSampling:
		long, adsts = true, 1
	case MedSampling:
		long, adsts = true, 0
	case MedHighSampling:
		adsts = 3
	case HighSampling:
		adsts = 2
	case HighVeryHighSampling:
		adsts = 1
	case VeryHighSampling:
		adsts = 0
	}

	c.waitIfCalibrating()

	if long {
		c.regs.SetBits(regs.CFG, regs.CFG_ADLSMP)
	} else {
		c.regs.ClearBits(regs.CFG, regs.CFG_ADLSMP)
	}
	c.regs.ChangeBits(regs.CFG, regs.CFG_ADSTS_Msk, regs.Field(adsts, regs.CFG_ADSTS_Pos, regs.CFG_ADSTS_Msk))
	c.samplingSpeed = speed
}

// SamplingSpeed returns the selected sampling speed.
func (c *Converter) SamplingSpeed() SamplingSpeed {
	return c.samplingSpeed
}

// SetOffset programs a correction applied to every result: offset is
// subtracted when subtract is true and added otherwise. Set it before
// starting conversions.
func (c *Converter) SetOffset(offset uint16, subtract bool) {
	if uint32(offset) > regs.OFS_OFS_Msk {
		c.fail(ErrorOther, 0, "offset out of range "+utoa(uint32(offset)))
		return
	}

	v := uint32(offset)
	if subtract {
		v |= regs.OFS_SIGN
	}
	if c.offsetSet && c.offsetReg == v {
		return
	}

	c.waitIfCalibrating()

	c.regs.Set(regs.OFS, v)
	c.offsetReg = v
	c.offsetSet = true
}

// Offset returns the programmed offset and whether it is subtracted.
func (c *Converter) Offset() (uint16, bool) {
	return uint16(c.offsetReg & regs.OFS_OFS_Msk), c.offsetReg&regs.OFS_SIGN != 0
}

// EnablePGA turns on the gain amplifier. gain can be 1, 2, 4, 8, 16, 32
// or 64; other values round up. Only differential reads use it.
func (c *Converter) EnablePGA(gain uint8) {
	var setting uint8
	for setting < 6 && 1<<setting < gain {
		setting++
	}

	if c.pgaEnabled && c.pgaValue == 1<<setting {
		return
	}

	c.waitIfCalibrating()

	c.regs.Set(regs.PGA, regs.PGA_PGAEN|regs.Field(uint32(setting), regs.PGA_PGAG_Pos, regs.PGA_PGAG_Msk))
	c.pgaEnabled = true
	c.pgaValue = 1 << setting
}

// PGA returns the gain in effect, 1 when the amplifier is off.
func (c *Converter) PGA() uint8 {
	return c.pgaValue
}

// DisablePGA turns the gain amplifier off.
func (c *Converter) DisablePGA() {
	if !c.pgaEnabled {
		return
	}
	c.regs.ClearBits(regs.PGA, regs.PGA_PGAEN)
	c.pgaEnabled = false
	c.pgaValue = 1
}

// EnableInterrupts raises the converter IRQ when a conversion completes
// (after averaging, and only if the comparison holds). The target must
// have attached the handler to the instance's IRQ line.
func (c *Converter) EnableInterrupts() {
	if c.interruptsEnabled {
		return
	}
	c.waitIfCalibrating()

	c.regs.SetBits(regs.HC0, regs.HC_AIEN)
	c.interruptsEnabled = true
}

// DisableInterrupts stops completion interrupts.
func (c *Converter) DisableInterrupts() {
	if !c.interruptsEnabled {
		return
	}
	c.regs.ClearBits(regs.HC0, regs.HC_AIEN)
	c.interruptsEnabled = false
}

// InterruptsEnabled reports whether completion interrupts are on.
func (c *Converter) InterruptsEnabled() bool {
	return c.interruptsEnabled
}

// EnableDMA raises a DMA request when a conversion completes.
func (c *Converter) EnableDMA() {
	if c.dmaEnabled {
		return
	}
	c.waitIfCalibrating()

	c.regs.SetBits(regs.GC, regs.GC_DMAEN)
	c.dmaEnabled = true
}

// DisableDMA stops DMA requests.
func (c *Converter) DisableDMA() {
	if !c.dmaEnabled {
		return
	}
	c.regs.ClearBits(regs.GC, regs.GC_DMAEN)
	c.dmaEnabled = false
}
