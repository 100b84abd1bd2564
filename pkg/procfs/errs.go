package procfs

import "errors"

var (
	// ErrProcessGone indicates that the process directory or one of its
	// detail files disappeared between discovery and read (normal churn).
	ErrProcessGone = errors.New("procfs: process gone")

	// ErrNoStat indicates that a stat file was empty or malformed.
	ErrNoStat = errors.New("procfs: malformed or empty stat")

	// ErrShortStat indicates that a stat line had fewer fields than expected.
	ErrShortStat = errors.New("procfs: short stat")

	// ErrNoUptime indicates that the uptime file was empty or malformed.
	ErrNoUptime = errors.New("procfs: malformed or empty uptime")

	// ErrNoStatm indicates that a statm file had fewer columns than expected.
	ErrNoStatm = errors.New("procfs: malformed or empty statm")

	// ErrNoOwner indicates that no Uid line was found in a status file.
	ErrNoOwner = errors.New("procfs: no uid in status")
)
