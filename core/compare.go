package core

import "teensyadc/regs"

// CompareRange returns the CV1/CV2 thresholds and the greater-than
// polarity (ACFGT) that make the hardware accept a result inside or
// outside [lower, upper], with or without the limits:
//
//	insideRange inclusive  CV1    CV2    ACFGT
//	true        true       lower  upper  1
//	true        false      upper  lower  0
//	false       true       upper  lower  1
//	false       false      lower  upper  0
func CompareRange(lower, upper int16, insideRange, inclusive bool) (cv1, cv2 int16, greaterThan bool) {
	switch {
	case insideRange && inclusive:
		return lower, upper, true
	case insideRange && !inclusive:
		return upper, lower, false
	case !insideRange && inclusive:
		return upper, lower, true
	default:
		return lower, upper, false
	}
}

// EnableCompare completes a conversion only when the result is
// >= value (greaterThan) or < value. Call it after SetResolution.
func (c *Converter) EnableCompare(value int16, greaterThan bool) {
	gc := uint32(regs.GC_ACFE)
	if greaterThan {
		gc |= regs.GC_ACFGT
	}
	c.setCompare(gc, regs.CV1(value))
}

// EnableCompareRange completes a conversion only when the result is
// inside or outside the range, including the limits or not.
// Call it after SetResolution.
func (c *Converter) EnableCompareRange(lower, upper int16, insideRange, inclusive bool) {
	cv1, cv2, greaterThan := CompareRange(lower, upper, insideRange, inclusive)

	gc := uint32(regs.GC_ACFE | regs.GC_ACREN)
	if greaterThan {
		gc |= regs.GC_ACFGT
	}
	c.setCompare(gc, regs.CV1(cv1)|regs.CV2(cv2))
}

func (c *Converter) setCompare(gc, cv uint32) {
	if c.compareSet && c.compareGC == gc && c.compareCV == cv {
		return
	}

	c.waitIfCalibrating()

	c.regs.ChangeBits(regs.GC, regs.GC_ACFE|regs.GC_ACREN|regs.GC_ACFGT, gc)
	c.regs.Set(regs.CV, cv)
	c.compareSet = true
	c.compareGC = gc
	c.compareCV = cv
}

// DisableCompare turns the compare function off.
func (c *Converter) DisableCompare() {
	if !c.compareSet {
		return
	}
	c.regs.ClearBits(regs.GC, regs.GC_ACFE|regs.GC_ACREN)
	c.compareSet = false
}

// CompareEnabled reports whether a compare condition gates completion.
func (c *Converter) CompareEnabled() bool {
	return c.compareSet
}
