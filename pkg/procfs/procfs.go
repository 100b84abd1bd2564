//go:build linux

package procfs

import (
	"os"
	"path/filepath"
	"strconv"
)

// DefaultRoot is the conventional mount point of the process pseudo-filesystem.
const DefaultRoot = "/proc"

// Files holds per-file name overrides relative to a process directory
// (or, for Uptime, relative to the root). Zero values select the kernel
// defaults; overrides exist so tests can point a Table at fixture trees
// with arbitrary layouts.
type Files struct {
	Uptime  string
	Stat    string
	IO      string
	Statm   string
	Status  string
	Cmdline string
	Wchan   string
	FD      string
}

func (f Files) withDefaults() Files {
	def := func(v *string, name string) {
		if *v == "" {
			*v = name
		}
	}
	def(&f.Uptime, "uptime")
	def(&f.Stat, "stat")
	def(&f.IO, "io")
	def(&f.Statm, "statm")
	def(&f.Status, "status")
	def(&f.Cmdline, "cmdline")
	def(&f.Wchan, "wchan")
	def(&f.FD, "fd")
	return f
}

// Table reads process records from one pseudo-filesystem root. All reads are
// blocking open/read/close with no caching; a Table holds no state and is safe
// to share.
type Table struct {
	root  string
	files Files
}

// NewTable returns a Table rooted at root ("" selects DefaultRoot), with the
// given file-name overrides.
func NewTable(root string, files Files) *Table {
	if root == "" {
		root = DefaultRoot
	}
	return &Table{root: root, files: files.withDefaults()}
}

// Root returns the configured pseudo-filesystem root.
func (t *Table) Root() string { return t.root }

func (t *Table) pidPath(pid int, name string) string {
	return filepath.Join(t.root, strconv.Itoa(pid), name)
}

// Exists reports whether pid currently has a directory under the root.
func (t *Table) Exists(pid int) bool {
	_, err := os.Stat(filepath.Join(t.root, strconv.Itoa(pid)))
	return err == nil
}

// ClockTicks returns the number of clock ticks (jiffies) per second used by
// the kernel's CPU-time accounting. It first checks the env var CLK_TCK
// (useful for testing), otherwise falls back to 100 (common default).
//
// Note: On real systems, the authoritative way is `sysconf(_SC_CLK_TCK)`,
// but calling that requires cgo. For portability in a pure-Go library,
// this simplified approach is acceptable.
func ClockTicks() int {
	v, _ := strconv.Atoi(os.Getenv("CLK_TCK"))
	if v > 0 {
		return v
	}
	return 100
}

// PageSize returns the system memory page size in bytes. Like ClockTicks, it
// first checks an env override (PAGE_SIZE) to ease testing, then falls back
// to os.Getpagesize().
func PageSize() int {
	if ps := os.Getenv("PAGE_SIZE"); ps != "" {
		if v, _ := strconv.Atoi(ps); v > 0 {
			return v
		}
	}
	return os.Getpagesize()
}
