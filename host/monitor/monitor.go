// Package monitor decodes the converter debug stream printed by the
// firmware: plain log lines pass through, event ring dumps are parsed
// and annotated with register meanings.
package monitor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"teensyadc/core"
	"teensyadc/regs"

	"github.com/golang/glog"
)

var eventCodes = func() map[string]uint8 {
	m := make(map[string]uint8)
	for t := uint8(core.EvtCalibrate); t <= core.EvtError; t++ {
		m[core.EventName(t)] = t
	}
	return m
}()

// ParseEvent parses one dump line:
//
//	[ADC] START adc=1 seq=12 v1=135 v2=2
func ParseEvent(line string) (core.ConverterEvent, bool) {
	var evt core.ConverterEvent

	fields := strings.Fields(line)
	if len(fields) != 6 || fields[0] != "[ADC]" {
		return evt, false
	}
	t, ok := eventCodes[fields[1]]
	if !ok {
		return evt, false
	}
	evt.EventType = t

	for _, f := range fields[2:] {
		key, val, found := strings.Cut(f, "=")
		if !found {
			return evt, false
		}
		n, err := strconv.ParseUint(val, 10, 32)
		if err != nil {
			return evt, false
		}
		switch key {
		case "adc":
			evt.ADC = uint8(n)
		case "seq":
			evt.Seq = uint32(n)
		case "v1":
			evt.Value1 = uint32(n)
		case "v2":
			evt.Value2 = uint32(n)
		default:
			return evt, false
		}
	}
	return evt, true
}

// Describe renders an event with its values decoded.
func Describe(evt core.ConverterEvent) string {
	head := fmt.Sprintf("#%d ADC%d %s", evt.Seq, evt.ADC, core.EventName(evt.EventType))

	switch evt.EventType {
	case core.EvtStart:
		return head + " " + describeChannel(evt.Value1) + " " + describeMode(uint8(evt.Value2))
	case core.EvtPreempt, core.EvtRestore:
		mode := "single"
		if evt.Value2&regs.GC_ADCO != 0 {
			mode = "continuous"
		}
		return head + " " + describeChannel(evt.Value1) + " " + mode
	case core.EvtCalibrateDone:
		if evt.Value1 != 0 {
			return head + " failed"
		}
		return head + " ok"
	case core.EvtStop:
		return head + fmt.Sprintf(" %d measurements left", evt.Value1)
	case core.EvtError:
		return head + " " + core.ErrorFlag(evt.Value1).String() + fmt.Sprintf(" pin %d", evt.Value2)
	}
	return head
}

func describeChannel(hc uint32) string {
	s := fmt.Sprintf("ch %d", regs.Extract(hc, regs.HC_ADCH_Pos, regs.HC_ADCH_Msk))
	if hc&regs.HC_DIFF != 0 {
		s += " diff"
	}
	if hc&regs.HC_AIEN != 0 {
		s += " irq"
	}
	return s
}

func describeMode(m uint8) string {
	s := "single"
	if m&core.ModeContinuous != 0 {
		s = "continuous"
	}
	if m&core.ModeDifferential != 0 {
		s += " differential"
	}
	return s
}

// Monitor consumes the debug stream line by line.
type Monitor struct {
	out io.Writer

	inDump bool
	dump   []core.ConverterEvent

	// Dumps holds every completed event ring dump
	Dumps [][]core.ConverterEvent
	// Lines counts plain log lines passed through
	Lines int
}

// New returns a monitor writing decoded output to out.
func New(out io.Writer) *Monitor {
	return &Monitor{out: out}
}

// HandleLine processes one line of the stream.
func (m *Monitor) HandleLine(line string) {
	line = strings.TrimRight(line, "\r")

	switch {
	case line == core.DumpHeader:
		m.inDump = true
		m.dump = nil
		fmt.Fprintln(m.out, "--- event ring ---")
		return
	case line == core.DumpFooter:
		if m.inDump {
			m.Dumps = append(m.Dumps, m.dump)
			glog.V(1).Infof("Event dump with %d events", len(m.dump))
		}
		m.inDump = false
		m.dump = nil
		fmt.Fprintln(m.out, "------------------")
		return
	}

	if m.inDump {
		if evt, ok := ParseEvent(line); ok {
			m.dump = append(m.dump, evt)
			fmt.Fprintln(m.out, Describe(evt))
			return
		}
		glog.V(1).Infof("Unparsed line inside event dump: %q", line)
	}

	m.Lines++
	fmt.Fprintln(m.out, line)
}

// Run reads lines from r until it is exhausted.
func (m *Monitor) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m.HandleLine(scanner.Text())
	}
	return scanner.Err()
}
