//go:build linux

package sampler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ja7ad/procrate/pkg/procfs"
)

// Config is the immutable construction surface of an Engine.
type Config struct {
	// Root overrides the pseudo-filesystem root ("" = /proc). Point it at a
	// fixture tree for testing.
	Root string

	// Files overrides individual file names under Root.
	Files procfs.Files

	// PIDs fixes the sampled process set. Membership is static: the list is
	// never re-enumerated. Empty means a live scan of Root on every capture.
	PIDs []int

	// MemFactor is the size of one native allocation unit in bytes, used to
	// convert static memory fields. Zero (the default) disables conversion.
	MemFactor uint64

	// MemUnit selects the target unit for static memory fields.
	MemUnit MemUnit
}

// Engine owns the rolling baseline and drives capture and delta computation.
// An Engine is single-threaded by contract: the baseline is unsynchronized,
// so concurrent Sample calls on one instance require external serialization
// or independent instances.
type Engine struct {
	table    *procfs.Table
	pids     []int // nil = live scan
	conv     converter
	unit     MemUnit
	clkTck   int
	baseline *Snapshot

	now func() float64 // capture timestamp source, swapped in tests
}

// New validates cfg and builds an Engine. The baseline does not exist yet;
// call Initialize before the first Sample.
func New(cfg Config) (*Engine, error) {
	if cfg.MemUnit > UnitBytes {
		return nil, fmt.Errorf("%w: memory unit %d", ErrBadConfig, cfg.MemUnit)
	}
	var pids []int
	if len(cfg.PIDs) > 0 {
		seen := make(map[int]struct{}, len(cfg.PIDs))
		for _, pid := range cfg.PIDs {
			if pid <= 0 {
				return nil, fmt.Errorf("%w: pid %d", ErrBadConfig, pid)
			}
			if _, dup := seen[pid]; dup {
				continue
			}
			seen[pid] = struct{}{}
			pids = append(pids, pid)
		}
		sort.Ints(pids)
	}
	return &Engine{
		table:  procfs.NewTable(cfg.Root, cfg.Files),
		pids:   pids,
		conv:   converter{factor: cfg.MemFactor},
		unit:   cfg.MemUnit,
		clkTck: procfs.ClockTicks(),
		now:    func() float64 { return float64(time.Now().UnixNano()) / float64(time.Second) },
	}, nil
}

// ParsePIDs parses command-line pid arguments. Each entry is either a single
// pid or an inclusive range "A..B". Non-numeric entries are a configuration
// error, not a warning.
func ParsePIDs(args []string) ([]int, error) {
	var pids []int
	for _, a := range args {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(a, ".."); ok {
			from, err := strconv.Atoi(lo)
			if err != nil {
				return nil, fmt.Errorf("%w: pid %q: %v", ErrInvalidValue, lo, err)
			}
			to, err := strconv.Atoi(hi)
			if err != nil {
				return nil, fmt.Errorf("%w: pid %q: %v", ErrInvalidValue, hi, err)
			}
			if from > to {
				return nil, fmt.Errorf("%w: pid range %q", ErrBadConfig, a)
			}
			for pid := from; pid <= to; pid++ {
				pids = append(pids, pid)
			}
			continue
		}
		pid, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: pid %q: %v", ErrInvalidValue, a, err)
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// Initialize captures the first baseline: counters, start times and the
// capture timestamp only. It must be called exactly once before Sample.
func (e *Engine) Initialize() error {
	snap, err := e.capture(false)
	if err != nil {
		return err
	}
	e.baseline = &snap
	return nil
}

// Sample captures a full snapshot, computes one DeltaRecord per process
// present in the current scan, then advances the rolling baseline to the
// current absolute counters. A process in the baseline but absent from the
// scan is silently excluded; the baseline is only advanced when every delta
// computed cleanly.
func (e *Engine) Sample() (map[int]DeltaRecord, error) {
	if e.baseline == nil {
		return nil, ErrNotInitialized
	}

	cur, err := e.capture(true)
	if err != nil {
		return nil, err
	}
	elapsed := cur.Timestamp - e.baseline.Timestamp

	out := make(map[int]DeltaRecord, len(cur.Procs))
	for pid, rec := range cur.Procs {
		var base *Record
		if b, ok := e.baseline.Procs[pid]; ok {
			base = &b
		}
		d, err := diff(Identity{PID: pid, StartTime: rec.StartTime}, base, rec, elapsed, cur.Uptime, e.clkTck)
		if err != nil {
			return nil, err
		}
		out[pid] = d
	}

	next := baselineOf(cur)
	e.baseline = &next
	return out, nil
}

// Raw captures and returns a full snapshot without diffing. The baseline is
// untouched, so Raw may be called at any time, initialized or not.
func (e *Engine) Raw() (Snapshot, error) {
	return e.capture(true)
}

// capture scans the process set and reads per-process details. Enumeration
// failures (pid list, uptime) abort the capture; a single process vanishing
// mid-scan only drops that process from the snapshot.
func (e *Engine) capture(full bool) (Snapshot, error) {
	uptime, err := e.table.Uptime()
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: uptime: %v", ErrEnumeration, err)
	}

	pids := e.pids
	if pids == nil {
		pids, err = e.table.ListPIDs()
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrEnumeration, err)
		}
	}

	snap := Snapshot{
		Timestamp: e.now(),
		Uptime:    uptime,
		Procs:     make(map[int]Record, len(pids)),
	}

	for _, pid := range pids {
		st, err := e.table.ReadStat(pid)
		if err != nil {
			// Exited (or became unreadable) between discovery and read:
			// skip for this cycle, keep scanning.
			continue
		}
		rec := Record{StartTime: st.StartTime, Counters: st.Counters}

		// I/O counters are part of the diffable state, so the restricted
		// baseline capture reads them too. Best-effort: no io file, no kinds.
		if io, err := e.table.ReadIO(pid); err == nil {
			for k, v := range io {
				rec.Counters[k] = v
			}
		}

		if full {
			rec.Comm = st.Comm
			rec.State = st.State
			rec.PPID = st.PPID
			rec.Session = st.Session
			rec.Priority = st.Priority
			rec.Nice = st.Nice

			if m, err := e.table.ReadStatm(pid); err == nil {
				mem := e.conv.memory(*m, e.unit)
				rec.Memory = &mem
			}
			if owner, err := e.table.ReadOwner(pid); err == nil {
				rec.Owner = owner
			}
			if cmd, err := e.table.ReadCmdline(pid); err == nil && cmd != "" {
				rec.Cmdline = cmd
			}
			if w, err := e.table.ReadWchan(pid); err == nil {
				rec.Wchan = w
			}
		}
		snap.Procs[pid] = rec
	}
	return snap, nil
}
