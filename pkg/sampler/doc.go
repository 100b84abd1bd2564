// Package sampler converts cumulative per-process counters from a /proc-style
// pseudo-filesystem into per-second rates over a caller-controlled interval.
//
// # Overview
//
//   - Engine: owns a single rolling baseline snapshot. Initialize captures
//     the first baseline; each Sample diffs the current process set against
//     it and then advances it to the current absolute counters, so the
//     subtrahend always reflects the most recent observation regardless of
//     sampling cadence. Raw returns a one-shot full snapshot, no diffing.
//
//   - Identity continuity: two observations belong to the same process only
//     when pid and start time both match. A recycled pid (same number, new
//     start time) is treated as a first observation and averaged over its
//     age since creation instead of being diffed against the stale baseline.
//     The output shape is identical in both cases; a consumer cannot tell an
//     interval rate from a since-creation average by looking at the record.
//
//   - Stability: a zero-length interval yields the raw delta instead of
//     dividing; a counter that decreased for a matched identity fails with
//     ErrIntegrity rather than being clamped; missing I/O counters read as
//     zero while missing scheduling counters are fatal (the io file is
//     best-effort, the stat line is not).
//
//   - Failure scope: losing one process mid-scan drops that process from
//     the cycle's result; failing to list processes or read uptime aborts
//     the whole call with ErrEnumeration.
//
// An Engine instance is not safe for concurrent use; create one per sampling
// loop or serialize externally.
package sampler
