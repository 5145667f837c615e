package core

import "teensyadc/regs"

// Calibrate starts the hardware calibration sequence and returns
// immediately. Use WaitForCalibration before relying on results.
func (c *Converter) Calibrate() {
	state := disableInterrupts()
	c.calibrating = true
	c.regs.ClearBits(regs.GS, regs.GS_CALF)
	c.regs.SetBits(regs.GC, regs.GC_CAL)
	restoreInterrupts(state)

	RecordEvent(EvtCalibrate, c.num, 0, 0)
}

// WaitForCalibration yields until the calibration sequence finishes.
// A failed calibration raises ErrorCalibration; conversions still work
// but their accuracy is not guaranteed. No automatic retry is made.
func (c *Converter) WaitForCalibration() {
	// GC.CAL self-clears when the sequence is over
	for c.regs.HasBits(regs.GC, regs.GC_CAL) {
		yield()
	}

	failed := c.regs.HasBits(regs.GS, regs.GS_CALF)
	c.calibrating = false

	if failed {
		RecordEvent(EvtCalibrateDone, c.num, 1, 0)
		c.fail(ErrorCalibration, 0, "calibration failed")
		return
	}
	RecordEvent(EvtCalibrateDone, c.num, 0, 0)
}

// Recalibrate runs a full calibration and waits for it.
func (c *Converter) Recalibrate() {
	c.Calibrate()
	c.WaitForCalibration()
}

// IsCalibrating reports whether a calibration was started and not yet
// waited for.
func (c *Converter) IsCalibrating() bool {
	return c.calibrating
}

// waitIfCalibrating must precede every register write that changes
// conversion timing or reference; touching them mid-calibration spoils it.
func (c *Converter) waitIfCalibrating() {
	if c.calibrating {
		c.WaitForCalibration()
	}
}
