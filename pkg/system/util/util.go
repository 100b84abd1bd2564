//go:build linux

package util

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/ja7ad/procrate/pkg/types"
)

// FmtFloat renders a float with two decimals for CSV-ish output.
func FmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func utsField(b []byte) string {
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// SystemSummary returns host name, kernel release, CPU count and total
// memory for the CLI banner. All values are best-effort; failures degrade
// to "unknown" rather than erroring.
func SystemSummary() (host, kernel, cpus, mem string) {
	host, kernel, cpus, mem = "unknown", "unknown", "unknown", "unknown"

	if h, err := os.Hostname(); err == nil {
		host = h
	}
	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		kernel = utsField(uts.Release[:])
	}
	cpus = strconv.Itoa(runtime.NumCPU())

	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err == nil {
		mem = types.Bytes(uint64(si.Totalram) * uint64(si.Unit)).Humanized()
	}
	return host, kernel, cpus, mem
}
