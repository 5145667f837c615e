//go:build mimxrt1062

package main

import (
	"machine"
	"strconv"
	"time"

	"teensyadc/boards"
	"teensyadc/config"
	"teensyadc/core"
	"teensyadc/sensor"

	"tinygo.org/x/drivers"
)

// Power-on converter settings
const adcConfig = `{
	"resolution": 12,
	"averaging": 8,
	"conversion_speed": "high",
	"sampling_speed": "high"
}`

func main() {
	// USB CDC for debug output
	machine.Serial.Configure(machine.UARTConfig{})
	core.SetDebugWriter(func(s string) {
		machine.Serial.Write([]byte(s))
		machine.Serial.Write([]byte("\r\n"))
	})
	core.SetDebugEnabled(true)
	core.InitAsyncDebug()

	// Give the host time to open the port
	time.Sleep(2 * time.Second)

	cfg, err := config.LoadConfig([]byte(adcConfig))
	if err != nil {
		core.DebugPrintln("config: " + err.Error() + ", using defaults")
		cfg = config.Default()
	}

	if err := InitADC(cfg); err != nil {
		core.DumpEventRing()
		for {
			time.Sleep(time.Second)
		}
	}

	// A12 is only wired to ADC2; the completion interrupt latches it
	adc2.EnableInterrupts()
	if !adc2.StartContinuous(12) {
		core.DebugPrintln("A12 stream failed: " + adc2.Errors().String())
	}

	// A1 streams on ADC1 and is polled
	if !adc1.StartContinuous(1) {
		core.DebugPrintln("A1 stream failed: " + adc1.Errors().String())
	}

	// A0 on ADC1 through the drivers.Sensor interface; each update
	// preempts the A1 stream and resumes it
	a0 := sensor.NewAnalog(adc1, 0, boards.Teensy40.VRefMilliVolt)

	for {
		if err := a0.Update(drivers.Voltage); err != nil {
			core.DebugPrintln("A0: " + err.Error())
		} else {
			core.DebugPrintln("A0 " + strconv.Itoa(int(a0.Voltage())) + " uV")
		}

		core.DebugPrintln("A1 " + strconv.Itoa(int(adc1.AnalogReadContinuous())) +
			" A12 " + strconv.Itoa(int(int32(lastSample[1].Get()))))

		for _, c := range []*core.Converter{adc1, adc2} {
			if c.Errors() != core.ErrorClear {
				core.DebugPrintln("[ADC" + strconv.Itoa(int(c.Num())) + "] errors " + c.Errors().String())
				core.DumpEventRing()
				core.ClearEventRing()
				c.ResetError()
			}
		}

		time.Sleep(500 * time.Millisecond)
	}
}
