//go:build linux

package procfs

// CounterKind tags one cumulative per-process counter. Kinds are split into
// scheduling counters (always present in a well-formed stat line) and I/O
// counters (best-effort; the io file may be missing or truncated).
type CounterKind uint8

const (
	MinorFaults CounterKind = iota
	ChildMinorFaults
	MajorFaults
	ChildMajorFaults
	UserTime
	SystemTime
	ChildUserTime
	ChildSystemTime

	ReadChars
	WriteChars
	ReadSyscalls
	WriteSyscalls
	ReadBytes
	WriteBytes
	CancelledWriteBytes
)

var kindNames = map[CounterKind]string{
	MinorFaults:         "minflt",
	ChildMinorFaults:    "cminflt",
	MajorFaults:         "majflt",
	ChildMajorFaults:    "cmajflt",
	UserTime:            "utime",
	SystemTime:          "stime",
	ChildUserTime:       "cutime",
	ChildSystemTime:     "cstime",
	ReadChars:           "rchar",
	WriteChars:          "wchar",
	ReadSyscalls:        "syscr",
	WriteSyscalls:       "syscw",
	ReadBytes:           "read_bytes",
	WriteBytes:          "write_bytes",
	CancelledWriteBytes: "cancelled_write_bytes",
}

func (k CounterKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// SchedulingKinds returns the mandatory counter kinds in stat-line order.
// A record missing any of these after a successful parse is corrupt.
func SchedulingKinds() []CounterKind {
	return []CounterKind{
		MinorFaults, ChildMinorFaults, MajorFaults, ChildMajorFaults,
		UserTime, SystemTime, ChildUserTime, ChildSystemTime,
	}
}

// IOKinds returns the optional counter kinds from the io file.
func IOKinds() []CounterKind {
	return []CounterKind{
		ReadChars, WriteChars, ReadSyscalls, WriteSyscalls,
		ReadBytes, WriteBytes, CancelledWriteBytes,
	}
}

// statField binds a counter kind to its index in the stat line, counted from
// the first field after the comm ") " delimiter (state = 0). Parsing walks
// this list in order instead of dispatching on field names.
type statField struct {
	kind  CounterKind
	index int
}

var statCounterFields = []statField{
	{MinorFaults, 7},
	{ChildMinorFaults, 8},
	{MajorFaults, 9},
	{ChildMajorFaults, 10},
	{UserTime, 11},
	{SystemTime, 12},
	{ChildUserTime, 13},
	{ChildSystemTime, 14},
}

// startTimeIndex is the process start time (ticks since boot), same indexing.
const startTimeIndex = 19

// ioField binds a counter kind to its key in the io file. Unknown keys are
// skipped; absent keys simply stay out of the returned map.
type ioField struct {
	kind CounterKind
	key  string
}

var ioCounterFields = []ioField{
	{ReadChars, "rchar"},
	{WriteChars, "wchar"},
	{ReadSyscalls, "syscr"},
	{WriteSyscalls, "syscw"},
	{ReadBytes, "read_bytes"},
	{WriteBytes, "write_bytes"},
	{CancelledWriteBytes, "cancelled_write_bytes"},
}
