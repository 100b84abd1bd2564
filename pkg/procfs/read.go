//go:build linux

package procfs

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
)

// Stat is one parsed stat line: cumulative scheduling counters plus the
// descriptive fields that are not subject to delta arithmetic.
type Stat struct {
	PID       int
	Comm      string
	State     string
	PPID      int
	PGrp      int
	Session   int
	TTY       int
	Priority  int
	Nice      int
	StartTime uint64 // clock ticks since boot

	// Counters holds the mandatory scheduling kinds keyed by CounterKind.
	Counters map[CounterKind]uint64
}

// Memory is one parsed statm line, all values in native allocation units
// (pages). Conversion to kilobytes or bytes is the caller's concern.
type Memory struct {
	Size     uint64
	Resident uint64
	Share    uint64
	Text     uint64
	Lib      uint64
	Data     uint64
	Dirty    uint64
}

// vanished maps the open/read errors produced by process exit onto
// ErrProcessGone so callers can distinguish churn from real I/O trouble.
func vanished(err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("%w: %v", ErrProcessGone, err)
	}
	return err
}

// Uptime returns the system uptime in fractional seconds (first field of the
// uptime file).
func (t *Table) Uptime() (float64, error) {
	b, err := os.ReadFile(filepath.Join(t.root, t.files.Uptime))
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(b))
	if len(fields) == 0 {
		return 0, ErrNoUptime
	}
	up, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoUptime, err)
	}
	return up, nil
}

// ListPIDs returns the purely numeric entries of the root directory, sorted
// ascending. The set reflects one instant; processes come and go concurrently
// with the scan.
func (t *Table) ListPIDs() ([]int, error) {
	entries, err := os.ReadDir(t.root)
	if err != nil {
		return nil, err
	}
	pids := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue
		}
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids, nil
}

// ReadStat parses the stat file of one process.
//
// Caveats:
//   - Field order is fixed, but comm (2nd field) is in parens and may contain
//     spaces or parens itself. Everything before the last ") " is pid + comm.
//   - Counters are uint64 and monotonically non-decreasing for a fixed
//     process identity (pid + start time).
//
// A vanished process yields ErrProcessGone.
func (t *Table) ReadStat(pid int) (*Stat, error) {
	b, err := os.ReadFile(t.pidPath(pid, t.files.Stat))
	if err != nil {
		return nil, vanished(err)
	}
	line := strings.TrimSpace(string(b))
	if line == "" {
		return nil, ErrNoStat
	}

	i := strings.LastIndex(line, ") ")
	if i < 0 {
		return nil, ErrNoStat
	}
	head := line[:i]
	j := strings.Index(head, "(")
	if j < 0 {
		return nil, ErrNoStat
	}
	fields := strings.Fields(line[i+2:])
	if len(fields) <= startTimeIndex {
		return nil, ErrShortStat
	}

	st := &Stat{
		PID:      pid,
		Comm:     head[j+1:],
		State:    fields[0],
		Counters: make(map[CounterKind]uint64, len(statCounterFields)),
	}

	atoi := func(idx int) int {
		v, _ := strconv.Atoi(fields[idx])
		return v
	}
	st.PPID = atoi(1)
	st.PGrp = atoi(2)
	st.Session = atoi(3)
	st.TTY = atoi(4)
	st.Priority = atoi(15)
	st.Nice = atoi(16)

	for _, f := range statCounterFields {
		v, err := strconv.ParseUint(fields[f.index], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("procfs: stat field %s: %w", f.kind, err)
		}
		st.Counters[f.kind] = v
	}
	start, err := strconv.ParseUint(fields[startTimeIndex], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("procfs: stat start time: %w", err)
	}
	st.StartTime = start
	return st, nil
}

// ReadIO parses the io file into a partial counter map. Keys absent from the
// file are absent from the map (the caller treats them as zero); kernel
// threads and permission-restricted processes may not expose the file at all.
func (t *Table) ReadIO(pid int) (map[CounterKind]uint64, error) {
	f, err := os.Open(t.pidPath(pid, t.files.IO))
	if err != nil {
		return nil, vanished(err)
	}
	defer f.Close()

	out := make(map[CounterKind]uint64, len(ioCounterFields))
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		for _, fld := range ioCounterFields {
			prefix := fld.key + ":"
			if strings.HasPrefix(line, prefix) {
				v := strings.TrimSpace(strings.TrimPrefix(line, prefix))
				if n, err := strconv.ParseUint(v, 10, 64); err == nil {
					out[fld.kind] = n
				}
				break
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, vanished(err)
	}
	return out, nil
}

// ReadStatm parses the statm file; all seven columns, in pages.
func (t *Table) ReadStatm(pid int) (*Memory, error) {
	b, err := os.ReadFile(t.pidPath(pid, t.files.Statm))
	if err != nil {
		return nil, vanished(err)
	}
	fields := strings.Fields(string(b))
	if len(fields) < 7 {
		return nil, ErrNoStatm
	}
	vals := make([]uint64, 7)
	for i := range vals {
		vals[i], _ = strconv.ParseUint(fields[i], 10, 64)
	}
	return &Memory{
		Size:     vals[0],
		Resident: vals[1],
		Share:    vals[2],
		Text:     vals[3],
		Lib:      vals[4],
		Data:     vals[5],
		Dirty:    vals[6],
	}, nil
}

// ReadOwner resolves the real uid of a process (Uid line of the status file)
// to a user name, falling back to the numeric uid string when the id has no
// passwd entry.
func (t *Table) ReadOwner(pid int) (string, error) {
	f, err := os.Open(t.pidPath(pid, t.files.Status))
	if err != nil {
		return "", vanished(err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "Uid:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return "", ErrNoOwner
		}
		uid := fields[1]
		if u, err := user.LookupId(uid); err == nil {
			return u.Username, nil
		}
		return uid, nil
	}
	if err := sc.Err(); err != nil {
		return "", vanished(err)
	}
	return "", ErrNoOwner
}

// ReadCmdline reconstructs the command line, replacing the NUL separators
// with spaces. Zombies and kernel threads have an empty cmdline file; that is
// returned as "".
func (t *Table) ReadCmdline(pid int) (string, error) {
	b, err := os.ReadFile(t.pidPath(pid, t.files.Cmdline))
	if err != nil {
		return "", vanished(err)
	}
	s := strings.TrimRight(string(b), "\x00")
	return strings.ReplaceAll(s, "\x00", " "), nil
}

// ReadWchan returns the kernel wait channel the process is blocked in, or ""
// when it is running.
func (t *Table) ReadWchan(pid int) (string, error) {
	b, err := os.ReadFile(t.pidPath(pid, t.files.Wchan))
	if err != nil {
		return "", vanished(err)
	}
	w := strings.TrimSpace(string(b))
	if w == "0" {
		w = ""
	}
	return w, nil
}

// ReadFDs returns the open file descriptors of a process as a map from fd
// number to link target. Descriptors that close mid-listing are skipped.
func (t *Table) ReadFDs(pid int) (map[int]string, error) {
	dir := t.pidPath(pid, t.files.FD)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, vanished(err)
	}
	out := make(map[int]string, len(entries))
	for _, e := range entries {
		fd, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		target, err := os.Readlink(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		out[fd] = target
	}
	return out, nil
}
