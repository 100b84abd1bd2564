//go:build linux

package sampler

import (
	"maps"

	"github.com/ja7ad/procrate/pkg/procfs"
)

// Identity is what makes two observations "the same process": the numeric id
// plus the process start time in clock ticks since boot. A changed start time
// under the same pid means the kernel reused the id for a different process.
type Identity struct {
	PID       int
	StartTime uint64
}

// Record is one process observed at one instant. Counters holds cumulative
// values keyed by kind: scheduling kinds are always present after a
// successful stat parse, I/O kinds only when the io file was readable.
// Descriptive fields are populated on full captures only and are never
// part of delta arithmetic.
type Record struct {
	StartTime uint64
	Counters  map[procfs.CounterKind]uint64

	Comm     string
	State    string
	Owner    string
	Cmdline  string
	Wchan    string
	PPID     int
	Session  int
	Priority int
	Nice     int
	Memory   *procfs.Memory
}

// Snapshot is one point-in-time observation of the process set: a capture
// timestamp in fractional seconds, the system uptime at capture, and one
// Record per pid. Snapshots are values; the engine never mutates one after
// it is built.
type Snapshot struct {
	Timestamp float64
	Uptime    float64
	Procs     map[int]Record
}

// baselineOf derives the rolling baseline from a full snapshot: counters,
// start times and the timestamp, with fresh maps so the returned snapshot
// shares no mutable state with the one just diffed.
func baselineOf(s Snapshot) Snapshot {
	procs := make(map[int]Record, len(s.Procs))
	for pid, rec := range s.Procs {
		procs[pid] = Record{
			StartTime: rec.StartTime,
			Counters:  maps.Clone(rec.Counters),
		}
	}
	return Snapshot{Timestamp: s.Timestamp, Uptime: s.Uptime, Procs: procs}
}

// DeltaRecord is the per-process output for one interval. Every counter kind
// maps to a non-negative per-second rate rounded to two decimals; TotalTime
// is the sum of the user and system CPU rates. Descriptive fields are carried
// over from the current observation, with memory sizes already converted to
// the engine's configured unit.
//
// For a process first seen this cycle (or a reused pid) the figures are
// averages since process creation rather than interval rates; the two cases
// are deliberately indistinguishable from the record alone.
type DeltaRecord struct {
	PID       int
	Rates     map[procfs.CounterKind]float64
	TotalTime float64

	Comm     string
	State    string
	Owner    string
	Cmdline  string
	Wchan    string
	PPID     int
	Session  int
	Priority int
	Nice     int
	Memory   *procfs.Memory
}

// Rate returns the rate for one counter kind, zero if absent.
func (d DeltaRecord) Rate(k procfs.CounterKind) float64 { return d.Rates[k] }
