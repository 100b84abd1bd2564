//go:build linux

package sampler

import (
	"fmt"
	"math"

	"github.com/ja7ad/procrate/pkg/procfs"
)

// round2 keeps rates at two-decimal precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// rateOf normalizes one raw counter delta over the interval. A non-positive
// interval or a zero delta yields the raw delta itself, so a zero-length
// interval never divides.
func rateOf(raw, elapsed float64) float64 {
	if elapsed > 0 && raw > 0 {
		return round2(raw / elapsed)
	}
	return round2(raw)
}

// diff turns one process's (baseline, current) observation pair into a rate
// record. It is pure: no state, no I/O.
//
// With a matching identity (baseline present, start time unchanged) each
// cumulative counter is diffed against the baseline and divided by the
// elapsed interval. Without one — brand-new process, or a pid recycled onto
// a different process — the counters are averaged over the process age
// derived from uptime and start time, so early figures are still rates and
// a stale baseline is never subtracted from an unrelated process.
//
// Scheduling counters are mandatory on both sides; I/O counters default to
// zero when absent (the io file is best-effort). A counter that decreased
// for a matched identity is an integrity violation, never clamped.
func diff(id Identity, base *Record, cur Record, elapsed, uptime float64, clkTck int) (DeltaRecord, error) {
	out := DeltaRecord{
		PID:      id.PID,
		Rates:    make(map[procfs.CounterKind]float64, len(cur.Counters)),
		Comm:     cur.Comm,
		State:    cur.State,
		Owner:    cur.Owner,
		Cmdline:  cur.Cmdline,
		Wchan:    cur.Wchan,
		PPID:     cur.PPID,
		Session:  cur.Session,
		Priority: cur.Priority,
		Nice:     cur.Nice,
		Memory:   cur.Memory,
	}

	matched := base != nil && base.StartTime == cur.StartTime

	if matched {
		for _, k := range procfs.SchedulingKinds() {
			bv, ok := base.Counters[k]
			if !ok {
				return DeltaRecord{}, fmt.Errorf("%w: pid %d baseline %s", ErrMissingField, id.PID, k)
			}
			cv, ok := cur.Counters[k]
			if !ok {
				return DeltaRecord{}, fmt.Errorf("%w: pid %d current %s", ErrMissingField, id.PID, k)
			}
			if cv < bv {
				return DeltaRecord{}, fmt.Errorf("%w: pid %d %s %d -> %d", ErrIntegrity, id.PID, k, bv, cv)
			}
			out.Rates[k] = rateOf(float64(cv-bv), elapsed)
		}
		for _, k := range procfs.IOKinds() {
			bv := base.Counters[k] // absent = 0, by design of io accounting
			cv := cur.Counters[k]
			if cv < bv {
				return DeltaRecord{}, fmt.Errorf("%w: pid %d %s %d -> %d", ErrIntegrity, id.PID, k, bv, cv)
			}
			out.Rates[k] = rateOf(float64(cv-bv), elapsed)
		}
	} else {
		// First observation of this identity: average since process creation.
		age := uptime - float64(cur.StartTime)/float64(clkTck)
		for _, k := range procfs.SchedulingKinds() {
			cv, ok := cur.Counters[k]
			if !ok {
				return DeltaRecord{}, fmt.Errorf("%w: pid %d current %s", ErrMissingField, id.PID, k)
			}
			out.Rates[k] = sinceCreation(float64(cv), age)
		}
		for _, k := range procfs.IOKinds() {
			out.Rates[k] = sinceCreation(float64(cur.Counters[k]), age)
		}
	}

	out.TotalTime = round2(out.Rates[procfs.UserTime] + out.Rates[procfs.SystemTime])
	return out, nil
}

func sinceCreation(v, age float64) float64 {
	if age > 0 {
		return round2(v / age)
	}
	return round2(v)
}
