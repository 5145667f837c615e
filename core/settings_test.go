package core

import (
	"testing"

	"teensyadc/regs"
	"teensyadc/simadc"
)

func TestSetResolution(t *testing.T) {
	testCases := []struct {
		bits     uint8
		wantBits uint8
		wantMode uint32
		wantMax  uint32
	}{
		{8, 8, 0, 255},
		{10, 10, 1, 1023},
		{12, 12, 2, 4095},
		{16, 16, 3, 65535},
		{1, 8, 0, 255},
		{9, 10, 1, 1023},
		{11, 12, 2, 4095},
		{13, 16, 3, 65535},
	}

	for _, tc := range testCases {
		c, bank := newTestConverter(t)
		c.SetResolution(tc.bits)

		if c.Resolution() != tc.wantBits {
			t.Errorf("SetResolution(%d): resolution %d, expected %d", tc.bits, c.Resolution(), tc.wantBits)
		}
		if c.MaxValue() != tc.wantMax {
			t.Errorf("SetResolution(%d): max value %d, expected %d", tc.bits, c.MaxValue(), tc.wantMax)
		}
		if mode := regs.Extract(bank.Peek(regs.CFG), regs.CFG_MODE_Pos, regs.CFG_MODE_Msk); mode != tc.wantMode {
			t.Errorf("SetResolution(%d): CFG.MODE %d, expected %d", tc.bits, mode, tc.wantMode)
		}
	}
}

func TestSetResolutionUnsupported(t *testing.T) {
	c, bank := newTestConverter(t)
	c.SetResolution(12)
	writes := bank.Writes

	c.SetResolution(17)

	if !c.Errors().Has(ErrorOther) {
		t.Errorf("Expected ErrorOther, got %s", c.Errors())
	}
	if c.Resolution() != 12 {
		t.Errorf("Resolution changed to %d", c.Resolution())
	}
	if bank.Writes != writes {
		t.Errorf("Unsupported resolution touched hardware")
	}
}

func TestSetAveraging(t *testing.T) {
	testCases := []struct {
		num      uint8
		want     uint8
		wantAvgs uint32
	}{
		{0, 0, 0},
		{1, 0, 0},
		{2, 4, 0},
		{4, 4, 0},
		{5, 8, 1},
		{8, 8, 1},
		{9, 16, 2},
		{16, 16, 2},
		{17, 32, 3},
		{32, 32, 3},
		{33, 32, 3},
		{255, 32, 3},
	}

	for _, tc := range testCases {
		c, bank := newTestConverter(t)
		c.SetAveraging(tc.num)

		if c.Averaging() != tc.want {
			t.Errorf("SetAveraging(%d): got %d, expected %d", tc.num, c.Averaging(), tc.want)
		}

		avge := bank.Peek(regs.GC)&regs.GC_AVGE != 0
		if avge != (tc.want != 0) {
			t.Errorf("SetAveraging(%d): GC.AVGE = %v", tc.num, avge)
		}
		if tc.want != 0 {
			if avgs := regs.Extract(bank.Peek(regs.CFG), regs.CFG_AVGS_Pos, regs.CFG_AVGS_Msk); avgs != tc.wantAvgs {
				t.Errorf("SetAveraging(%d): CFG.AVGS %d, expected %d", tc.num, avgs, tc.wantAvgs)
			}
		}
	}
}

func TestAveragingOffClearsEnable(t *testing.T) {
	c, bank := newTestConverter(t)
	c.SetAveraging(16)
	c.SetAveraging(1)

	if bank.Peek(regs.GC)&regs.GC_AVGE != 0 {
		t.Errorf("GC.AVGE still set after averaging turned off")
	}
	if c.Averaging() != 0 {
		t.Errorf("Expected 0 averages, got %d", c.Averaging())
	}
}

func TestSettersAreIdempotent(t *testing.T) {
	testCases := []struct {
		name  string
		apply func(c *Converter)
	}{
		{"resolution", func(c *Converter) { c.SetResolution(12) }},
		{"averaging", func(c *Converter) { c.SetAveraging(8) }},
		{"averaging off", func(c *Converter) { c.SetAveraging(0) }},
		{"reference", func(c *Converter) { c.SetReference(RefDefault) }},
		{"conversion speed", func(c *Converter) { c.SetConversionSpeed(MedSpeed) }},
		{"sampling speed", func(c *Converter) { c.SetSamplingSpeed(LowSampling) }},
		{"offset", func(c *Converter) { c.SetOffset(12, true) }},
		{"pga", func(c *Converter) { c.EnablePGA(4) }},
		{"compare", func(c *Converter) { c.EnableCompare(100, false) }},
		{"compare range", func(c *Converter) { c.EnableCompareRange(10, 20, true, false) }},
		{"interrupts", func(c *Converter) { c.EnableInterrupts() }},
		{"dma", func(c *Converter) { c.EnableDMA() }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, bank := newTestConverter(t)

			tc.apply(c)
			c.WaitForCalibration()
			writes := bank.Writes
			calibrations := bank.Calibrations

			tc.apply(c)

			if bank.Writes != writes {
				t.Errorf("Repeating %s wrote %d registers", tc.name, bank.Writes-writes)
			}
			if bank.Calibrations != calibrations {
				t.Errorf("Repeating %s started a calibration", tc.name)
			}
		})
	}
}

func TestSetConversionSpeed(t *testing.T) {
	cfg := func(adiclk, adiv uint32) uint32 {
		return regs.Field(adiclk, regs.CFG_ADICLK_Pos, regs.CFG_ADICLK_Msk) |
			regs.Field(adiv, regs.CFG_ADIV_Pos, regs.CFG_ADIV_Msk)
	}

	testCases := []struct {
		name    string
		speed   ConversionSpeed
		clock   uint32
		adack   bool
		setBits uint32
		clrBits uint32
	}{
		// 150 MHz bus: /8 is still above 10 MHz
		{"low", LowSpeed, cfg(regs.ADICLK_BusHalf, 3), false, regs.CFG_ADLPC, regs.CFG_ADHSC},
		{"medium", MedSpeed, cfg(regs.ADICLK_Bus, 3), false, 0, regs.CFG_ADLPC | regs.CFG_ADHSC},
		{"high", HighSpeed, cfg(regs.ADICLK_Bus, 2), false, regs.CFG_ADHSC, regs.CFG_ADLPC},
		{"adack 10", Adack10, cfg(regs.ADICLK_Adack, 0), true, 0, regs.CFG_ADHSC},
		{"adack 20", Adack20, cfg(regs.ADICLK_Adack, 0), true, regs.CFG_ADHSC, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, bank := newTestConverter(t)
			c.SetConversionSpeed(tc.speed)

			reg := bank.Peek(regs.CFG)
			if got := reg & (regs.CFG_ADICLK_Msk | regs.CFG_ADIV_Msk); got != tc.clock {
				t.Errorf("Clock bits %s, expected %s", hex32(got), hex32(tc.clock))
			}
			if reg&tc.setBits != tc.setBits {
				t.Errorf("CFG %s missing %s", hex32(reg), hex32(tc.setBits))
			}
			if reg&tc.clrBits != 0 {
				t.Errorf("CFG %s has %s set", hex32(reg), hex32(tc.clrBits))
			}
			if adack := bank.Peek(regs.GC)&regs.GC_ADACKEN != 0; adack != tc.adack {
				t.Errorf("GC.ADACKEN = %v, expected %v", adack, tc.adack)
			}
			if c.ConversionSpeed() != tc.speed {
				t.Errorf("ConversionSpeed() = %d", c.ConversionSpeed())
			}
		})
	}
}

func TestBusDivider(t *testing.T) {
	testCases := []struct {
		bus, limit   uint32
		adiclk, adiv uint32
	}{
		{150000000, 40000000, regs.ADICLK_Bus, 2},
		{24000000, 40000000, regs.ADICLK_Bus, 0},
		{40000000, 20000000, regs.ADICLK_Bus, 1},
		{396000000, 10000000, regs.ADICLK_BusHalf, 3},
	}

	for _, tc := range testCases {
		got := busDivider(tc.bus, tc.limit)
		adiclk := regs.Extract(got, regs.CFG_ADICLK_Pos, regs.CFG_ADICLK_Msk)
		adiv := regs.Extract(got, regs.CFG_ADIV_Pos, regs.CFG_ADIV_Msk)
		if adiclk != tc.adiclk || adiv != tc.adiv {
			t.Errorf("busDivider(%d, %d) = ADICLK %d ADIV %d, expected %d/%d",
				tc.bus, tc.limit, adiclk, adiv, tc.adiclk, tc.adiv)
		}
	}
}

func TestSetBusClock(t *testing.T) {
	adiv := func(bank *simadc.Bank) uint32 {
		return regs.Extract(bank.Peek(regs.CFG), regs.CFG_ADIV_Pos, regs.CFG_ADIV_Msk)
	}

	c, bank := newTestConverter(t)
	c.SetBusClock(24000000)
	c.SetConversionSpeed(HighSpeed)
	if got := adiv(bank); got != 0 {
		t.Errorf("Expected no divider at 24 MHz, got ADIV %d", got)
	}

	// the divider follows the bus clock while the speed stays put
	c.SetBusClock(150000000)
	if got := adiv(bank); got != 2 {
		t.Errorf("Expected ADIV 2 at 150 MHz, got %d", got)
	}
	c.SetBusClock(24000000)
	if got := adiv(bank); got != 0 {
		t.Errorf("Expected ADIV 0 back at 24 MHz, got %d", got)
	}
	if c.BusClock() != 24000000 {
		t.Errorf("BusClock() = %d", c.BusClock())
	}

	writes := bank.Writes
	c.SetBusClock(24000000)
	if bank.Writes != writes {
		t.Errorf("Unchanged bus clock wrote %d registers", bank.Writes-writes)
	}
}

func TestSetBusClockWithAsyncClock(t *testing.T) {
	c, bank := newTestConverter(t)
	c.SetConversionSpeed(Adack20)
	writes := bank.Writes

	c.SetBusClock(24000000)
	if bank.Writes != writes {
		t.Errorf("Bus clock change touched the asynchronous clock setup")
	}
	if adiclk := regs.Extract(bank.Peek(regs.CFG), regs.CFG_ADICLK_Pos, regs.CFG_ADICLK_Msk); adiclk != regs.ADICLK_Adack {
		t.Errorf("Expected ADACK clock, got ADICLK %d", adiclk)
	}

	c.SetBusClock(0)
	if !c.Errors().Has(ErrorOther) {
		t.Errorf("Zero bus clock accepted")
	}
	if c.BusClock() != 24000000 {
		t.Errorf("Zero bus clock replaced %d", c.BusClock())
	}
}

func TestUnsupportedSpeeds(t *testing.T) {
	testCases := []struct {
		name  string
		apply func(c *Converter)
	}{
		{"conversion speed", func(c *Converter) { c.SetConversionSpeed(ConversionSpeed(42)) }},
		{"unset conversion speed", func(c *Converter) { c.SetConversionSpeed(ConversionSpeed(0)) }},
		{"sampling speed", func(c *Converter) { c.SetSamplingSpeed(SamplingSpeed(42)) }},
		{"unset sampling speed", func(c *Converter) { c.SetSamplingSpeed(SamplingSpeed(0)) }},
		{"reference", func(c *Converter) { c.SetReference(Reference(42)) }},
		{"unset reference", func(c *Converter) { c.SetReference(Reference(0)) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, bank := newTestConverter(t)
			tc.apply(c)

			if !c.Errors().Has(ErrorOther) {
				t.Errorf("Expected ErrorOther, got %s", c.Errors())
			}
			if bank.Writes != 0 {
				t.Errorf("Unsupported setting wrote %d registers", bank.Writes)
			}
		})
	}
}

func TestSetSamplingSpeed(t *testing.T) {
	testCases := []struct {
		speed SamplingSpeed
		long  bool
		adsts uint32
	}{
		{VeryLowSampling, true, 3},
		{LowSampling, true, 2},
		{LowMedSampling, true, 1},
		{MedSampling, true, 0},
		{MedHighSampling, false, 3},
		{HighSampling, false, 2},
		{HighVeryHighSampling, false, 1},
		{VeryHighSampling, false, 0},
	}

	for _, tc := range testCases {
		c, bank := newTestConverter(t)
		// start from the opposite ADLSMP state
		if tc.long {
			bank.ClearBits(regs.CFG, regs.CFG_ADLSMP)
		} else {
			bank.SetBits(regs.CFG, regs.CFG_ADLSMP)
		}

		c.SetSamplingSpeed(tc.speed)

		reg := bank.Peek(regs.CFG)
		if long := reg&regs.CFG_ADLSMP != 0; long != tc.long {
			t.Errorf("SamplingSpeed %d: ADLSMP = %v, expected %v", tc.speed, long, tc.long)
		}
		if adsts := regs.Extract(reg, regs.CFG_ADSTS_Pos, regs.CFG_ADSTS_Msk); adsts != tc.adsts {
			t.Errorf("SamplingSpeed %d: ADSTS %d, expected %d", tc.speed, adsts, tc.adsts)
		}
	}
}

func TestSetOffset(t *testing.T) {
	c, bank := newTestConverter(t)

	c.SetOffset(0x123, true)
	if got := bank.Peek(regs.OFS); got != 0x123|regs.OFS_SIGN {
		t.Errorf("OFS = %s", hex32(got))
	}
	if v, sub := c.Offset(); v != 0x123 || !sub {
		t.Errorf("Offset() = %d, %v", v, sub)
	}

	c.SetOffset(5, false)
	if got := bank.Peek(regs.OFS); got != 5 {
		t.Errorf("OFS = %s", hex32(got))
	}

	c.SetOffset(0x1000, false)
	if !c.Errors().Has(ErrorOther) {
		t.Errorf("Expected ErrorOther for a 13-bit offset")
	}
	if got := bank.Peek(regs.OFS); got != 5 {
		t.Errorf("Rejected offset changed OFS to %s", hex32(got))
	}
}

func TestEnablePGA(t *testing.T) {
	testCases := []struct {
		gain uint8
		want uint8
		pgag uint32
	}{
		{0, 1, 0},
		{1, 1, 0},
		{2, 2, 1},
		{3, 4, 2},
		{5, 8, 3},
		{16, 16, 4},
		{33, 64, 6},
		{64, 64, 6},
		{200, 64, 6},
	}

	for _, tc := range testCases {
		c, bank := newTestConverter(t)
		c.EnablePGA(tc.gain)

		if c.PGA() != tc.want {
			t.Errorf("EnablePGA(%d): gain %d, expected %d", tc.gain, c.PGA(), tc.want)
		}
		reg := bank.Peek(regs.PGA)
		if reg&regs.PGA_PGAEN == 0 {
			t.Errorf("EnablePGA(%d): PGAEN not set", tc.gain)
		}
		if pgag := regs.Extract(reg, regs.PGA_PGAG_Pos, regs.PGA_PGAG_Msk); pgag != tc.pgag {
			t.Errorf("EnablePGA(%d): PGAG %d, expected %d", tc.gain, pgag, tc.pgag)
		}
	}
}

func TestDisablePGA(t *testing.T) {
	c, bank := newTestConverter(t)

	c.DisablePGA()
	if bank.Writes != 0 {
		t.Errorf("Disabling an idle PGA touched hardware")
	}

	c.EnablePGA(8)
	c.DisablePGA()
	if c.IsPGAEnabled() {
		t.Errorf("PGA still enabled")
	}
	if c.PGA() != 1 {
		t.Errorf("Expected gain 1 after DisablePGA, got %d", c.PGA())
	}
}

func TestInterruptsAndDMA(t *testing.T) {
	c, bank := newTestConverter(t)

	c.EnableInterrupts()
	if bank.Peek(regs.HC0)&regs.HC_AIEN == 0 || !c.InterruptsEnabled() {
		t.Errorf("AIEN not set")
	}
	c.DisableInterrupts()
	if bank.Peek(regs.HC0)&regs.HC_AIEN != 0 || c.InterruptsEnabled() {
		t.Errorf("AIEN still set")
	}

	c.EnableDMA()
	if bank.Peek(regs.GC)&regs.GC_DMAEN == 0 {
		t.Errorf("DMAEN not set")
	}
	c.DisableDMA()
	if bank.Peek(regs.GC)&regs.GC_DMAEN != 0 {
		t.Errorf("DMAEN still set")
	}
}
