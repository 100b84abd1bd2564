//go:build linux

package sampler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/procrate/pkg/procfs"
)

const testClkTck = 100

// schedCounters builds a record with every scheduling kind set to base,
// except overrides.
func schedCounters(base uint64, overrides map[procfs.CounterKind]uint64) map[procfs.CounterKind]uint64 {
	c := make(map[procfs.CounterKind]uint64)
	for _, k := range procfs.SchedulingKinds() {
		c[k] = base
	}
	for k, v := range overrides {
		c[k] = v
	}
	return c
}

func TestDiff_MatchedIdentityIntervalRate(t *testing.T) {
	// counter 100 -> 150 over 5 s must report exactly 10.00/s
	base := &Record{StartTime: 500, Counters: schedCounters(100, nil)}
	cur := Record{StartTime: 500, Counters: schedCounters(150, nil)}

	d, err := diff(Identity{PID: 7, StartTime: 500}, base, cur, 5.0, 1000, testClkTck)
	require.NoError(t, err)

	for _, k := range procfs.SchedulingKinds() {
		assert.Equal(t, 10.00, d.Rates[k], k.String())
	}
}

func TestDiff_CounterDecreaseIsIntegrityError(t *testing.T) {
	base := &Record{StartTime: 500, Counters: schedCounters(150, nil)}
	cur := Record{StartTime: 500, Counters: schedCounters(150, map[procfs.CounterKind]uint64{
		procfs.UserTime: 100,
	})}

	_, err := diff(Identity{PID: 7, StartTime: 500}, base, cur, 5.0, 1000, testClkTck)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIntegrity))
}

func TestDiff_StartTimeMismatchUsesAgeAverage(t *testing.T) {
	// Same pid, different start time: the pid was recycled. The stale
	// baseline must not be subtracted; counters average over process age.
	base := &Record{StartTime: 500, Counters: schedCounters(900000, nil)}
	cur := Record{StartTime: 90000, Counters: schedCounters(0, map[procfs.CounterKind]uint64{
		procfs.UserTime: 5000,
	})}

	// age = 1000 - 90000/100 = 100 s
	d, err := diff(Identity{PID: 7, StartTime: 90000}, base, cur, 5.0, 1000, testClkTck)
	require.NoError(t, err)
	assert.Equal(t, 50.00, d.Rates[procfs.UserTime])
	assert.Equal(t, 0.00, d.Rates[procfs.SystemTime])
}

func TestDiff_NewProcessZeroAgeVerbatim(t *testing.T) {
	// Process started this very tick: age <= 0, counters pass through.
	cur := Record{StartTime: 100000, Counters: schedCounters(0, map[procfs.CounterKind]uint64{
		procfs.UserTime: 3,
	})}

	d, err := diff(Identity{PID: 9, StartTime: 100000}, nil, cur, 5.0, 1000, testClkTck)
	require.NoError(t, err)
	assert.Equal(t, 3.00, d.Rates[procfs.UserTime])
}

func TestDiff_ZeroElapsedYieldsRawDelta(t *testing.T) {
	base := &Record{StartTime: 500, Counters: schedCounters(100, nil)}
	cur := Record{StartTime: 500, Counters: schedCounters(100, map[procfs.CounterKind]uint64{
		procfs.MinorFaults: 140,
	})}

	d, err := diff(Identity{PID: 7, StartTime: 500}, base, cur, 0, 1000, testClkTck)
	require.NoError(t, err)
	assert.Equal(t, 40.00, d.Rates[procfs.MinorFaults])
	assert.Equal(t, 0.00, d.Rates[procfs.UserTime])
}

func TestDiff_EndToEndTotalTime(t *testing.T) {
	// utime 200->260, stime 100->130 over 5 s: 12.00 + 6.00 = 18.00
	base := &Record{StartTime: 500, Counters: schedCounters(0, map[procfs.CounterKind]uint64{
		procfs.UserTime:   200,
		procfs.SystemTime: 100,
	})}
	cur := Record{StartTime: 500, Counters: schedCounters(0, map[procfs.CounterKind]uint64{
		procfs.UserTime:   260,
		procfs.SystemTime: 130,
	})}

	d, err := diff(Identity{PID: 7, StartTime: 500}, base, cur, 5.0, 1000, testClkTck)
	require.NoError(t, err)
	assert.Equal(t, 12.00, d.Rates[procfs.UserTime])
	assert.Equal(t, 6.00, d.Rates[procfs.SystemTime])
	assert.Equal(t, 18.00, d.TotalTime)
}

func TestDiff_MissingFieldPolicyIsAsymmetric(t *testing.T) {
	// I/O counters absent on either side read as zero; scheduling counters
	// absent on either side are fatal. Both directions are pinned because
	// the asymmetry is intentional and easy to "fix" by mistake.
	base := &Record{StartTime: 500, Counters: schedCounters(100, map[procfs.CounterKind]uint64{
		procfs.ReadBytes: 1000,
	})}
	cur := Record{StartTime: 500, Counters: schedCounters(100, map[procfs.CounterKind]uint64{
		procfs.ReadBytes:  6000,
		procfs.WriteBytes: 500, // absent from baseline: baseline reads as 0
	})}

	d, err := diff(Identity{PID: 7, StartTime: 500}, base, cur, 5.0, 1000, testClkTck)
	require.NoError(t, err)
	assert.Equal(t, 1000.00, d.Rates[procfs.ReadBytes])
	assert.Equal(t, 100.00, d.Rates[procfs.WriteBytes])
	assert.Equal(t, 0.00, d.Rates[procfs.ReadChars])

	// Now drop a scheduling counter from the baseline.
	broken := &Record{StartTime: 500, Counters: schedCounters(100, nil)}
	delete(broken.Counters, procfs.SystemTime)
	_, err = diff(Identity{PID: 7, StartTime: 500}, broken, cur, 5.0, 1000, testClkTck)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingField))
}

func TestDiff_IODecreaseIsIntegrityError(t *testing.T) {
	base := &Record{StartTime: 500, Counters: schedCounters(100, map[procfs.CounterKind]uint64{
		procfs.WriteChars: 900,
	})}
	cur := Record{StartTime: 500, Counters: schedCounters(100, map[procfs.CounterKind]uint64{
		procfs.WriteChars: 800,
	})}

	_, err := diff(Identity{PID: 7, StartTime: 500}, base, cur, 5.0, 1000, testClkTck)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIntegrity))
}

func TestDiff_FractionalRatesRoundToTwoDecimals(t *testing.T) {
	base := &Record{StartTime: 500, Counters: schedCounters(0, nil)}
	cur := Record{StartTime: 500, Counters: schedCounters(0, map[procfs.CounterKind]uint64{
		procfs.UserTime: 10,
	})}

	// 10 / 3 = 3.333... -> 3.33
	d, err := diff(Identity{PID: 7, StartTime: 500}, base, cur, 3.0, 1000, testClkTck)
	require.NoError(t, err)
	assert.Equal(t, 3.33, d.Rates[procfs.UserTime])
}

func TestDiff_DescriptiveFieldsPassThrough(t *testing.T) {
	mem := &procfs.Memory{Size: 100, Resident: 40}
	cur := Record{
		StartTime: 500,
		Counters:  schedCounters(0, nil),
		Comm:      "procd",
		State:     "S",
		Owner:     "root",
		Cmdline:   "/usr/bin/procd --fg",
		PPID:      1,
		Priority:  20,
		Memory:    mem,
	}

	d, err := diff(Identity{PID: 7, StartTime: 500}, nil, cur, 5.0, 1000, testClkTck)
	require.NoError(t, err)
	assert.Equal(t, "procd", d.Comm)
	assert.Equal(t, "S", d.State)
	assert.Equal(t, "root", d.Owner)
	assert.Equal(t, "/usr/bin/procd --fg", d.Cmdline)
	assert.Equal(t, 1, d.PPID)
	assert.Equal(t, 20, d.Priority)
	assert.Same(t, mem, d.Memory)
}
