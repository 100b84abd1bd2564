//go:build linux

package sampler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/procrate/pkg/procfs"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		factor uint64
		unit   MemUnit
		in     uint64
		want   uint64
	}{
		{"zero factor leaves value unchanged", 0, UnitBytes, 10, 10},
		{"zero factor kilobytes unchanged", 0, UnitKilobytes, 10, 10},
		{"bytes multiplies by factor", 4096, UnitBytes, 10, 40960},
		{"kilobytes is factor over 1024", 4096, UnitKilobytes, 10, 40},
		{"native is identity", 4096, UnitNative, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := converter{factor: tt.factor}
			assert.Equal(t, tt.want, c.convert(tt.in, tt.unit))
		})
	}
}

func TestConvertMemory(t *testing.T) {
	c := converter{factor: 4096}
	m := c.memory(procfs.Memory{Size: 10, Resident: 4, Share: 1, Text: 1, Data: 3}, UnitBytes)
	assert.Equal(t, uint64(40960), m.Size)
	assert.Equal(t, uint64(16384), m.Resident)
	assert.Equal(t, uint64(4096), m.Share)
	assert.Equal(t, uint64(12288), m.Data)
}

func TestParseMemUnit(t *testing.T) {
	for in, want := range map[string]MemUnit{
		"":          UnitNative,
		"native":    UnitNative,
		"pages":     UnitNative,
		"kb":        UnitKilobytes,
		"kilobytes": UnitKilobytes,
		"bytes":     UnitBytes,
	} {
		u, err := ParseMemUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, u, in)
	}

	_, err := ParseMemUnit("furlongs")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadConfig))
}
