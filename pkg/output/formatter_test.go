//go:build linux

package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/procrate/pkg/procfs"
	"github.com/ja7ad/procrate/pkg/sampler"
)

func record(comm string, utime, stime float64) sampler.DeltaRecord {
	return sampler.DeltaRecord{
		Comm:  comm,
		State: "S",
		Rates: map[procfs.CounterKind]float64{
			procfs.UserTime:   utime,
			procfs.SystemTime: stime,
		},
		TotalTime: utime + stime,
	}
}

func TestRows_OrderedByTotalTime(t *testing.T) {
	res := map[int]sampler.DeltaRecord{
		10: record("idle", 0, 0),
		20: record("busy", 10, 5),
		30: record("also-idle", 0, 0),
	}

	rows := Rows(res)
	require.Len(t, rows, 3)
	assert.Equal(t, 20, rows[0].PID)
	// ties break on pid ascending
	assert.Equal(t, 10, rows[1].PID)
	assert.Equal(t, 30, rows[2].PID)
	assert.Equal(t, 15.0, rows[0].TotalTime)
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatJSON, &buf, 1)

	res := map[int]sampler.DeltaRecord{
		10: record("idle", 0, 0),
		20: record("busy", 10, 5),
	}
	require.NoError(t, f.Render(res))

	var rows []Row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1, "top=1 keeps only the busiest")
	assert.Equal(t, "busy", rows[0].Comm)
	assert.Equal(t, 10.0, rows[0].UserRate)
}

func TestRender_TableContainsValues(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatTable, &buf, 0)

	res := map[int]sampler.DeltaRecord{
		20: record("busy", 10, 5),
	}
	require.NoError(t, f.Render(res))

	out := buf.String()
	assert.Contains(t, out, "busy")
	assert.Contains(t, out, "15.00")
	assert.Contains(t, out, "PID")
}
