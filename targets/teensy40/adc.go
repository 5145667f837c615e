//go:build mimxrt1062

package main

import (
	"device/nxp"
	"runtime/interrupt"
	"runtime/volatile"
	"strconv"
	"unsafe"

	"teensyadc/boards"
	"teensyadc/config"
	"teensyadc/core"
	"teensyadc/regs"
)

// i.MX RT1062 ADC memory map
const (
	adc1Base = 0x400C4000
	adc2Base = 0x400C8000
)

// CCM_CCGR1 clock gates (2 bits each, 0b11 = on in all modes)
const (
	ccgr1ADC1 = 0x3 << 16 // CG8
	ccgr1ADC2 = 0x3 << 8  // CG4
)

// adcHW mirrors the peripheral layout. Only HC0/R0 of the eight
// trigger slots are used.
type adcHW struct {
	HC  [8]volatile.Register32
	HS  volatile.Register32
	R   [8]volatile.Register32
	CFG volatile.Register32
	GC  volatile.Register32
	GS  volatile.Register32
	CV  volatile.Register32
	OFS volatile.Register32
	CAL volatile.Register32
}

// hwBank implements core.Registers on the memory-mapped peripheral.
// The RT1062 has no gain amplifier: PGA reads as zero and ignores writes.
type hwBank struct {
	hw *adcHW
}

func (b hwBank) reg(r regs.Register) *volatile.Register32 {
	switch r {
	case regs.HC0:
		return &b.hw.HC[0]
	case regs.HS:
		return &b.hw.HS
	case regs.R0:
		return &b.hw.R[0]
	case regs.CFG:
		return &b.hw.CFG
	case regs.GC:
		return &b.hw.GC
	case regs.GS:
		return &b.hw.GS
	case regs.CV:
		return &b.hw.CV
	case regs.OFS:
		return &b.hw.OFS
	}
	return nil
}

func (b hwBank) Get(r regs.Register) uint32 {
	if p := b.reg(r); p != nil {
		return p.Get()
	}
	return 0
}

func (b hwBank) Set(r regs.Register, value uint32) {
	if p := b.reg(r); p != nil {
		p.Set(value)
	}
}

func (b hwBank) SetBits(r regs.Register, mask uint32) {
	if p := b.reg(r); p != nil {
		p.SetBits(mask)
	}
}

func (b hwBank) ClearBits(r regs.Register, mask uint32) {
	p := b.reg(r)
	if p == nil {
		return
	}
	if r == regs.GS {
		// GS flags are write-one-to-clear
		p.Set(mask)
		return
	}
	p.ClearBits(mask)
}

func (b hwBank) ChangeBits(r regs.Register, mask, value uint32) {
	if p := b.reg(r); p != nil {
		p.ReplaceBits(value&mask, mask, 0)
	}
}

func (b hwBank) HasBits(r regs.Register, mask uint32) bool {
	p := b.reg(r)
	if p == nil {
		return false
	}
	// volatile HasBits matches any bit; the core wants all of them
	return p.Get()&mask == mask
}

var (
	adc1 *core.Converter
	adc2 *core.Converter

	// last value latched by the completion interrupts
	lastSample [core.MaxConverters]volatile.Register32
)

// InitADC ungates both converters, registers them and applies cfg.
func InitADC(cfg *config.Config) error {
	nxp.CCM.CCGR1.SetBits(ccgr1ADC1 | ccgr1ADC2)

	var err error
	adc1, err = newConverter(0, adc1Base)
	if err != nil {
		return err
	}
	adc2, err = newConverter(1, adc2Base)
	if err != nil {
		return err
	}

	for _, c := range []*core.Converter{adc1, adc2} {
		if err := config.Apply(c, cfg); err != nil {
			core.DebugPrintln("[ADC" + strconv.Itoa(int(c.Num())) + "] config: " + err.Error())
			return err
		}
	}

	irq1 := interrupt.New(nxp.IRQ_ADC1, func(interrupt.Interrupt) { latch(0) })
	irq1.Enable()
	irq2 := interrupt.New(nxp.IRQ_ADC2, func(interrupt.Interrupt) { latch(1) })
	irq2.Enable()
	return nil
}

func newConverter(num uint8, base uintptr) (*core.Converter, error) {
	bank := hwBank{hw: (*adcHW)(unsafe.Pointer(base))}
	c, err := core.NewConverter(num, bank, boards.Teensy40.Pins[num], boards.Teensy40.Pairs[num])
	if err != nil {
		return nil, err
	}
	if err := core.RegisterConverter(c); err != nil {
		return nil, err
	}
	return c, nil
}

var spurious = [core.MaxConverters]string{
	"[ADC0] interrupt without a result",
	"[ADC1] interrupt without a result",
}

// latch runs in interrupt context. Reading the result acknowledges COCO.
func latch(num uint8) {
	c, ok := core.GetConverter(num)
	if !ok {
		return
	}
	if !c.IsComplete() {
		core.DebugAsync(spurious[num])
		return
	}
	lastSample[num].Set(uint32(c.AnalogReadContinuous()))
}
