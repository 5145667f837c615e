// Package regs names the ADC register bank and its bit-fields.
// Layout follows the i.MX RT1060 ADC (Teensy 4.x); DIFF and the PGA
// register exist only on converters with a differential mux and are
// ignored by banks that lack them.
package regs

// Register identifies one 32-bit register of a converter's bank.
type Register uint8

const (
	HC0 Register = iota // channel select / trigger control
	HS                  // status (conversion complete)
	R0                  // conversion result
	CFG                 // configuration
	GC                  // general control
	GS                  // general status
	CV                  // compare values
	OFS                 // offset correction
	PGA                 // programmable gain amplifier

	NumRegisters
)

var registerNames = [NumRegisters]string{"HC0", "HS", "R0", "CFG", "GC", "GS", "CV", "OFS", "PGA"}

func (r Register) String() string {
	if r >= NumRegisters {
		return "REG?"
	}
	return registerNames[r]
}

// HC0 fields
const (
	HC_ADCH_Pos = 0
	HC_ADCH_Msk = 0x1F << HC_ADCH_Pos
	HC_DIFF     = 1 << 5
	HC_AIEN     = 1 << 7

	// ChannelVREFSH is the internal self-test channel tied to VREFH.
	ChannelVREFSH = 0x19
	// ChannelDisabled written to ADCH stops the converter.
	ChannelDisabled = 0x1F
)

// HS fields
const (
	HS_COCO0 = 1 << 0
)

// R0 fields
const (
	R_CDATA_Msk = 0xFFFF
)

// CFG fields
const (
	CFG_ADICLK_Pos = 0
	CFG_ADICLK_Msk = 0x3 << CFG_ADICLK_Pos
	CFG_MODE_Pos   = 2
	CFG_MODE_Msk   = 0x3 << CFG_MODE_Pos
	CFG_ADLSMP     = 1 << 4
	CFG_ADIV_Pos   = 5
	CFG_ADIV_Msk   = 0x3 << CFG_ADIV_Pos
	CFG_ADLPC      = 1 << 7
	CFG_ADSTS_Pos  = 8
	CFG_ADSTS_Msk  = 0x3 << CFG_ADSTS_Pos
	CFG_ADHSC      = 1 << 10
	CFG_REFSEL_Pos = 11
	CFG_REFSEL_Msk = 0x3 << CFG_REFSEL_Pos
	CFG_ADTRG      = 1 << 13
	CFG_AVGS_Pos   = 14
	CFG_AVGS_Msk   = 0x3 << CFG_AVGS_Pos
)

// ADICLK values
const (
	ADICLK_Bus     = 0
	ADICLK_BusHalf = 1
	ADICLK_Adack   = 3
)

// GC fields
const (
	GC_ADACKEN = 1 << 0
	GC_DMAEN   = 1 << 1
	GC_ACREN   = 1 << 2
	GC_ACFGT   = 1 << 3
	GC_ACFE    = 1 << 4
	GC_AVGE    = 1 << 5
	GC_ADCO    = 1 << 6
	GC_CAL     = 1 << 7
)

// GS fields
const (
	GS_ADACT = 1 << 0
	GS_CALF  = 1 << 1
)

// CV fields
const (
	CV_CV1_Pos = 0
	CV_CV1_Msk = 0xFFF << CV_CV1_Pos
	CV_CV2_Pos = 16
	CV_CV2_Msk = 0xFFF << CV_CV2_Pos
)

// OFS fields
const (
	OFS_OFS_Msk = 0xFFF
	OFS_SIGN    = 1 << 12
)

// PGA fields
const (
	PGA_PGAG_Pos = 16
	PGA_PGAG_Msk = 0xF << PGA_PGAG_Pos
	PGA_PGAEN    = 1 << 23
)

// Field places v into the field at pos, truncated to mask.
func Field(v uint32, pos uint, mask uint32) uint32 {
	return (v << pos) & mask
}

// Extract reads the field at pos out of reg.
func Extract(reg uint32, pos uint, mask uint32) uint32 {
	return (reg & mask) >> pos
}

// CV1 encodes a compare value into the CV1 field.
func CV1(v int16) uint32 {
	return Field(uint32(uint16(v)), CV_CV1_Pos, CV_CV1_Msk)
}

// CV2 encodes a compare value into the CV2 field.
func CV2(v int16) uint32 {
	return Field(uint32(uint16(v)), CV_CV2_Pos, CV_CV2_Msk)
}
