// Decodes the converter debug console of a running board.
//
// $ go run ./host/cmd/adcmon -device /dev/ttyACM0 -logtostderr
// $ go run ./host/cmd/adcmon -replay capture.log
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"teensyadc/host/monitor"
	"teensyadc/host/serial"

	"github.com/golang/glog"
)

var (
	device = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud   = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	replay = flag.String("replay", "", "Decode a captured log file instead of a device")
	flush  = flag.Bool("flush", true, "Discard output buffered before connecting")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	var src io.ReadCloser
	if *replay != "" {
		f, err := os.Open(*replay)
		if err != nil {
			glog.Exitf("Replay: %v", err)
		}
		src = f
	} else {
		cfg := serial.DefaultConfig(*device)
		cfg.Baud = *baud

		port, err := serial.Open(cfg)
		if err != nil {
			glog.Exitf("Serial: %v", err)
		}
		if *flush {
			if err := port.Flush(); err != nil {
				glog.Warningf("Flush failed: %v", err)
			}
		}
		glog.Infof("Monitoring %s at %d baud", *device, cfg.Baud)
		src = port
	}
	defer src.Close()

	m := monitor.New(os.Stdout)
	if err := m.Run(src); err != nil {
		glog.Errorf("Reading input: %v", err)
	}

	fmt.Printf("%d log lines, %d event dumps\n", m.Lines, len(m.Dumps))
}
