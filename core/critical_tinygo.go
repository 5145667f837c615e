//go:build tinygo

package core

import "runtime/interrupt"

// State is the interrupt mask state saved on entry to a critical section.
type State = interrupt.State

// disableInterrupts masks interrupt delivery so an ADC ISR cannot observe
// or modify the register bank until restoreInterrupts is called.
func disableInterrupts() State {
	return interrupt.Disable()
}

// restoreInterrupts puts back the mask state returned by disableInterrupts.
func restoreInterrupts(state State) {
	interrupt.Restore(state)
}
