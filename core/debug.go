package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// ConverterEvent captures a converter state change for post-mortem analysis
type ConverterEvent struct {
	EventType uint8  // Event type code
	ADC       uint8  // Converter instance number
	Seq       uint32 // Monotonic event sequence number
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtCalibrate     = 1 // calibration started
	EvtCalibrateDone = 2 // calibration finished, Value1 = 1 if it failed
	EvtPreempt       = 3 // running conversion saved, Value1 = saved HC0
	EvtRestore       = 4 // saved conversion restored, Value1 = restored HC0
	EvtStart         = 5 // conversion triggered, Value1 = HC0, Value2 = mode
	EvtStop          = 6 // continuous conversion stopped
	EvtError         = 7 // error flag raised, Value1 = flag, Value2 = pin
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

// Lines framing a DumpEventRing listing
const (
	DumpHeader = "[ADC] === Event Ring Dump ==="
	DumpFooter = "[ADC] === End Dump ==="
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event ring buffer (non-blocking, safe from interrupt context)
	eventRing     [EventRingSize]ConverterEvent
	eventRingHead uint8
	eventSeq      uint32
	eventsEnabled bool = true

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	if debugChan != nil {
		return
	}
	debugChan = make(chan string, 16)
	go debugOutputWorker(debugChan)
}

// StopAsyncDebug closes the async channel. Messages already queued are
// still written; later DebugAsync calls are dropped.
func StopAsyncDebug() {
	if debugChan == nil {
		return
	}
	close(debugChan)
	debugChan = nil
}

func debugOutputWorker(ch <-chan string) {
	for msg := range ch {
		DebugPrintln(msg)
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking).
// Converter operations log through it since they may run in interrupt
// context. The message is dropped if the channel is full or the worker
// was never started.
func DebugAsync(msg string) {
	if !debugEnabled || debugChan == nil {
		return
	}
	select {
	case debugChan <- msg:
	default:
	}
}

// RecordEvent captures a converter event in the ring buffer
func RecordEvent(eventType, adc uint8, value1, value2 uint32) {
	if !eventsEnabled {
		return
	}
	state := disableInterrupts()
	idx := eventRingHead
	eventSeq++
	eventRing[idx] = ConverterEvent{
		EventType: eventType,
		ADC:       adc,
		Seq:       eventSeq,
		Value1:    value1,
		Value2:    value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
	restoreInterrupts(state)
}

// Events copies the recorded events, oldest first, into dst and returns
// the filled prefix.
func Events(dst []ConverterEvent) []ConverterEvent {
	dst = dst[:0]
	state := disableInterrupts()
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.EventType == 0 {
			continue
		}
		dst = append(dst, evt)
	}
	restoreInterrupts(state)
	return dst
}

// EventName returns the tag used for an event type in ring dumps.
func EventName(t uint8) string {
	switch t {
	case EvtCalibrate:
		return "CALIBRATE"
	case EvtCalibrateDone:
		return "CAL_DONE"
	case EvtPreempt:
		return "PREEMPT"
	case EvtRestore:
		return "RESTORE"
	case EvtStart:
		return "START"
	case EvtStop:
		return "STOP"
	case EvtError:
		return "ERROR!"
	default:
		return "UNKNOWN"
	}
}

// DumpEventRing outputs the event ring buffer (call on shutdown/error)
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	var buf [EventRingSize]ConverterEvent
	events := Events(buf[:])

	debugPrintln(DumpHeader)
	for _, evt := range events {
		debugPrintln("[ADC] " + EventName(evt.EventType) +
			" adc=" + itoa(int(evt.ADC)) +
			" seq=" + utoa(evt.Seq) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln(DumpFooter)
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	state := disableInterrupts()
	for i := range eventRing {
		eventRing[i] = ConverterEvent{}
	}
	eventRingHead = 0
	eventSeq = 0
	restoreInterrupts(state)
}
