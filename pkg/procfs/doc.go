// Package procfs provides lightweight, zero-dependency readers for the Linux
// process pseudo-filesystem. It is the raw-observation layer feeding the
// snapshot-diffing engine in pkg/sampler.
//
// # Overview
//
//   - Table: a handle on one pseudo-filesystem root. The root path and every
//     per-process file name can be overridden, so tests (and callers
//     inspecting a copied /proc tree) can point a Table at a fixture
//     directory instead of the live kernel.
//
//   - Readers: Uptime, ListPIDs, ReadStat, ReadIO, ReadStatm, ReadOwner,
//     ReadCmdline, ReadWchan, ReadFDs. Each is a single blocking
//     open/read/close with no caching or retry; there are no interesting
//     failure semantics beyond "file unreadable".
//
//   - Counters: cumulative scheduling counters (faults, own and child CPU
//     ticks) and I/O counters are keyed by an enumerated CounterKind; parsing
//     walks an explicit ordered field list rather than dispatching on field
//     names. Scheduling counters are mandatory in a well-formed stat line,
//     I/O counters are best-effort (the io file may be absent for kernel
//     threads or hidden by permissions).
//
//   - Churn: a process may exit between discovery and read. Readers surface
//     that as ErrProcessGone so callers can treat it as normal churn rather
//     than an I/O failure.
//
// Units: CPU counters are in clock ticks (see ClockTicks), memory sizes from
// statm are in native allocation units (pages, see PageSize), io counters are
// in bytes or operation counts as named.
package procfs
