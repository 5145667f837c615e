//go:build !tinygo

package core

// State is the saved interrupt state on regular Go. It holds the mask
// depth before the matching disableInterrupts call.
type State uintptr

// maskDepth counts nested critical sections so host tests can check
// that every disable is paired with a restore.
var maskDepth int

// disableInterrupts enters a critical section (bookkeeping only on regular Go)
func disableInterrupts() State {
	prev := State(maskDepth)
	maskDepth++
	return prev
}

// restoreInterrupts leaves the critical section opened by disableInterrupts
func restoreInterrupts(state State) {
	maskDepth = int(state)
}

// interruptsMasked reports whether a critical section is open.
func interruptsMasked() bool {
	return maskDepth > 0
}
