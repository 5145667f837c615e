package core

import "runtime"

// yield hands the CPU to other runnable work while a poll loop waits on
// the converter. Tests may replace it.
var yield = runtime.Gosched
