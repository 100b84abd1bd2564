package types

import "fmt"

// Bytes is a size in bytes with display helpers.
type Bytes uint64

// Humanized renders the size with an automatic 1024-based unit suffix.
func (b Bytes) Humanized() string {
	const unit = 1024
	v := float64(b)
	switch {
	case b >= 1<<40:
		return fmt.Sprintf("%.2f TB", v/(1<<40))
	case b >= 1<<30:
		return fmt.Sprintf("%.2f GB", v/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.2f MB", v/(1<<20))
	case b >= unit:
		return fmt.Sprintf("%.2f KB", v/unit)
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// KB returns the size in kilobytes (1024 base).
func (b Bytes) KB() float64 { return float64(b) / 1024 }

// MB returns the size in megabytes (1024 base).
func (b Bytes) MB() float64 { return float64(b) / (1024 * 1024) }

// GB returns the size in gigabytes (1024 base).
func (b Bytes) GB() float64 { return float64(b) / (1024 * 1024 * 1024) }

// Uint64 returns the raw value.
func (b Bytes) Uint64() uint64 { return uint64(b) }
