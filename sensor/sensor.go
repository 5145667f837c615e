// Package sensor exposes converter pins as tinygo.org/x/drivers sensors.
package sensor

import (
	"errors"

	"teensyadc/core"

	"tinygo.org/x/drivers"
)

var (
	ErrWrongPin   = errors.New("sensor: pin not wired to converter")
	ErrComparison = errors.New("sensor: conversion rejected by compare")
	ErrNoSample   = errors.New("sensor: conversion failed")
)

// Compile-time checks.
var (
	_ drivers.Sensor = (*Analog)(nil)
	_ drivers.Sensor = (*Differential)(nil)
)

// Analog is a single-ended input.
type Analog struct {
	adc  *core.Converter
	pin  uint8
	vref uint32 // millivolts
	raw  int32
}

// NewAnalog binds pin on adc. vrefMilliVolt is the full-scale voltage.
func NewAnalog(adc *core.Converter, pin uint8, vrefMilliVolt uint32) *Analog {
	return &Analog{adc: adc, pin: pin, vref: vrefMilliVolt}
}

// Update runs a blocking conversion when which includes drivers.Voltage.
func (a *Analog) Update(which drivers.Measurement) error {
	if which&drivers.Voltage == 0 {
		return nil
	}
	before := a.adc.Errors()
	v := a.adc.AnalogRead(a.pin)
	if v == core.ErrorValue {
		// single-ended results are never negative
		return readError(before, a.adc.Errors())
	}
	a.raw = v
	return nil
}

// Raw returns the last converted value.
func (a *Analog) Raw() int32 {
	return a.raw
}

// Voltage returns the last reading in microvolts.
func (a *Analog) Voltage() int32 {
	return scale(a.raw, a.vref, a.adc.MaxValue(), 1)
}

// Differential is a pinP-pinN input pair.
type Differential struct {
	adc        *core.Converter
	pinP, pinN uint8
	vref       uint32
	raw        int32
}

// NewDifferential binds the pair pinP-pinN on adc.
func NewDifferential(adc *core.Converter, pinP, pinN uint8, vrefMilliVolt uint32) *Differential {
	return &Differential{adc: adc, pinP: pinP, pinN: pinN, vref: vrefMilliVolt}
}

// Update runs a blocking differential conversion when which includes
// drivers.Voltage. -1 is a legal differential result, so only a newly
// raised error flag fails the update.
func (d *Differential) Update(which drivers.Measurement) error {
	if which&drivers.Voltage == 0 {
		return nil
	}
	before := d.adc.Errors()
	v := d.adc.AnalogReadDifferential(d.pinP, d.pinN)
	if v == core.ErrorValue {
		raised := d.adc.Errors() &^ before
		if raised.Has(core.ErrorWrongPin | core.ErrorComparison) {
			return readError(before, d.adc.Errors())
		}
	}
	d.raw = v
	return nil
}

// Raw returns the last converted value, signed.
func (d *Differential) Raw() int32 {
	return d.raw
}

// Voltage returns the last reading in microvolts at the input pins,
// compensating for the gain amplifier.
func (d *Differential) Voltage() int32 {
	return scale(d.raw, d.vref, d.adc.MaxValue(), uint32(d.adc.PGA()))
}

func readError(before, after core.ErrorFlag) error {
	raised := after &^ before
	if raised == core.ErrorClear {
		raised = after
	}
	switch {
	case raised.Has(core.ErrorWrongPin):
		return ErrWrongPin
	case raised.Has(core.ErrorComparison):
		return ErrComparison
	default:
		return ErrNoSample
	}
}

// scale converts a raw result into microvolts.
func scale(raw int32, vrefMilliVolt, maxValue, gain uint32) int32 {
	if maxValue == 0 || gain == 0 {
		return 0
	}
	return int32(int64(raw) * int64(vrefMilliVolt) * 1000 / (int64(maxValue) * int64(gain)))
}
