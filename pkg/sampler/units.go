//go:build linux

package sampler

import (
	"fmt"

	"github.com/ja7ad/procrate/pkg/procfs"
)

// MemUnit selects the unit used for static memory-size fields. Rate counters
// are never unit-converted.
type MemUnit uint8

const (
	// UnitNative leaves values in native allocation units (pages).
	UnitNative MemUnit = iota
	// UnitKilobytes converts pages to kilobytes (factor / 1024 per unit).
	UnitKilobytes
	// UnitBytes converts pages to bytes (factor per unit).
	UnitBytes
)

// ParseMemUnit maps a unit name to a MemUnit.
func ParseMemUnit(s string) (MemUnit, error) {
	switch s {
	case "", "native", "pages":
		return UnitNative, nil
	case "kb", "kilobytes":
		return UnitKilobytes, nil
	case "bytes":
		return UnitBytes, nil
	default:
		return 0, fmt.Errorf("%w: memory unit %q", ErrBadConfig, s)
	}
}

// converter applies the engine's allocation-unit factor. Factor is the size
// of one native unit in bytes (typically the page size); zero disables
// conversion entirely, whatever the unit.
type converter struct {
	factor uint64
}

func (c converter) convert(v uint64, unit MemUnit) uint64 {
	if c.factor == 0 {
		return v
	}
	switch unit {
	case UnitKilobytes:
		return v * c.factor / 1024
	case UnitBytes:
		return v * c.factor
	default:
		return v
	}
}

func (c converter) memory(m procfs.Memory, unit MemUnit) procfs.Memory {
	return procfs.Memory{
		Size:     c.convert(m.Size, unit),
		Resident: c.convert(m.Resident, unit),
		Share:    c.convert(m.Share, unit),
		Text:     c.convert(m.Text, unit),
		Lib:      c.convert(m.Lib, unit),
		Data:     c.convert(m.Data, unit),
		Dirty:    c.convert(m.Dirty, unit),
	}
}
