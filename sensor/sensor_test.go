package sensor

import (
	"testing"

	"teensyadc/core"
	"teensyadc/simadc"

	"tinygo.org/x/drivers"
)

var (
	testPins = core.PinTable{
		0: 7,
		1: core.ChannelInvalid,
		2: 3 | core.FlagDifferential,
	}
	testPairs = core.DiffPairTable{
		{Pin: 2, Code: 1 | core.FlagGain},
	}
)

func newConverter(t *testing.T) (*core.Converter, *simadc.Bank) {
	t.Helper()
	bank := simadc.New()
	c, err := core.NewConverter(0, bank, testPins, testPairs)
	if err != nil {
		t.Fatalf("NewConverter failed: %v", err)
	}
	c.SetResolution(12)
	return c, bank
}

func TestAnalogVoltage(t *testing.T) {
	c, bank := newConverter(t)
	s := NewAnalog(c, 0, 3300)

	testCases := []struct {
		input uint16
		want  int32
	}{
		{0, 0},
		{2048, 1650402},
		{4095, 3300000},
	}

	for _, tc := range testCases {
		bank.Inputs[7] = tc.input
		if err := s.Update(drivers.Voltage); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if s.Raw() != int32(tc.input) {
			t.Errorf("Raw() = %d, expected %d", s.Raw(), tc.input)
		}
		if got := s.Voltage(); got != tc.want {
			t.Errorf("Input %d: Voltage() = %d uV, expected %d", tc.input, got, tc.want)
		}
	}
}

func TestAnalogSkipsOtherMeasurements(t *testing.T) {
	c, bank := newConverter(t)
	s := NewAnalog(c, 0, 3300)

	if err := s.Update(drivers.Temperature); err != nil {
		t.Errorf("Update(Temperature) = %v", err)
	}
	if bank.Started != 0 {
		t.Errorf("Unrequested measurement started %d conversions", bank.Started)
	}
}

func TestAnalogErrors(t *testing.T) {
	c, bank := newConverter(t)

	if err := NewAnalog(c, 1, 3300).Update(drivers.Voltage); err != ErrWrongPin {
		t.Errorf("Expected ErrWrongPin, got %v", err)
	}

	c.ResetError()
	c.EnableCompare(1000, true)
	bank.Inputs[7] = 10
	s := NewAnalog(c, 0, 3300)
	if err := s.Update(drivers.Voltage); err != ErrComparison {
		t.Errorf("Expected ErrComparison, got %v", err)
	}

	// flags are sticky; a repeated failure is still reported
	if err := s.Update(drivers.Voltage); err != ErrComparison {
		t.Errorf("Expected ErrComparison on repeat, got %v", err)
	}
}

func TestDifferentialVoltage(t *testing.T) {
	c, bank := newConverter(t)
	s := NewDifferential(c, 2, 3, 3300)

	bank.DiffInputs[1] = -1000
	if err := s.Update(drivers.Voltage); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got := s.Voltage(); got != -805860 {
		t.Errorf("Voltage() = %d uV, expected -805860", got)
	}

	// -1 is a valid differential sample
	bank.DiffInputs[1] = -1
	if err := s.Update(drivers.Voltage); err != nil {
		t.Errorf("Sample -1 reported as error: %v", err)
	}
	if s.Raw() != -1 {
		t.Errorf("Raw() = %d, expected -1", s.Raw())
	}
}

func TestDifferentialWithGain(t *testing.T) {
	c, bank := newConverter(t)
	c.EnablePGA(4)
	s := NewDifferential(c, 2, 3, 3300)

	// the gain path reads channel 2
	bank.DiffInputs[2] = 400
	if err := s.Update(drivers.Voltage); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got := s.Voltage(); got != 80586 {
		t.Errorf("Voltage() = %d uV, expected 80586", got)
	}
}

func TestDifferentialWrongPair(t *testing.T) {
	c, _ := newConverter(t)
	if err := NewDifferential(c, 0, 1, 3300).Update(drivers.Voltage); err != ErrWrongPin {
		t.Errorf("Expected ErrWrongPin, got %v", err)
	}
}
