//go:build linux

// Package output renders sampling results for terminals and machine consumers.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ja7ad/procrate/pkg/procfs"
	"github.com/ja7ad/procrate/pkg/sampler"
	"github.com/ja7ad/procrate/pkg/types"
)

// Format represents the output format type.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Row is one process flattened for display: the interesting rates plus
// identity and descriptive context.
type Row struct {
	PID         int     `json:"pid"`
	Comm        string  `json:"comm"`
	State       string  `json:"state"`
	Owner       string  `json:"owner,omitempty"`
	UserRate    float64 `json:"utime_rate"`
	SystemRate  float64 `json:"stime_rate"`
	TotalTime   float64 `json:"total_time"`
	MinorFaults float64 `json:"minflt_rate"`
	MajorFaults float64 `json:"majflt_rate"`
	ReadBytes   float64 `json:"read_bytes_rate"`
	WriteBytes  float64 `json:"write_bytes_rate"`
	Resident    uint64  `json:"resident,omitempty"`
	Cmdline     string  `json:"cmdline,omitempty"`
}

// Rows flattens a Sample result, ordered by total CPU rate descending, pid
// ascending as the tiebreak.
func Rows(res map[int]sampler.DeltaRecord) []Row {
	rows := make([]Row, 0, len(res))
	for pid, d := range res {
		r := Row{
			PID:         pid,
			Comm:        d.Comm,
			State:       d.State,
			Owner:       d.Owner,
			UserRate:    d.Rate(procfs.UserTime),
			SystemRate:  d.Rate(procfs.SystemTime),
			TotalTime:   d.TotalTime,
			MinorFaults: d.Rate(procfs.MinorFaults),
			MajorFaults: d.Rate(procfs.MajorFaults),
			ReadBytes:   d.Rate(procfs.ReadBytes),
			WriteBytes:  d.Rate(procfs.WriteBytes),
			Cmdline:     d.Cmdline,
		}
		if d.Memory != nil {
			r.Resident = d.Memory.Resident
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalTime != rows[j].TotalTime {
			return rows[i].TotalTime > rows[j].TotalTime
		}
		return rows[i].PID < rows[j].PID
	})
	return rows
}

// Formatter handles output formatting.
type Formatter struct {
	format Format
	writer io.Writer
	top    int
}

// NewFormatter creates a formatter writing to w. top limits the number of
// rendered rows; zero means all.
func NewFormatter(format Format, w io.Writer, top int) *Formatter {
	return &Formatter{format: format, writer: w, top: top}
}

// Render outputs one sampling cycle in the configured format.
func (f *Formatter) Render(res map[int]sampler.DeltaRecord) error {
	rows := Rows(res)
	if f.top > 0 && len(rows) > f.top {
		rows = rows[:f.top]
	}
	switch f.format {
	case FormatJSON:
		return f.renderJSON(rows)
	default:
		return f.renderTable(rows)
	}
}

func (f *Formatter) renderJSON(rows []Row) error {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func (f *Formatter) renderTable(rows []Row) error {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	busyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true).Padding(0, 1)

	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{
			fmt.Sprintf("%d", r.PID),
			r.Comm,
			r.State,
			r.Owner,
			fmt.Sprintf("%.2f", r.UserRate),
			fmt.Sprintf("%.2f", r.SystemRate),
			fmt.Sprintf("%.2f", r.TotalTime),
			fmt.Sprintf("%.2f", r.MinorFaults),
			fmt.Sprintf("%.2f", r.ReadBytes),
			fmt.Sprintf("%.2f", r.WriteBytes),
			types.Bytes(r.Resident).Humanized(),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			// highlight the total CPU column
			if col == 6 {
				return busyStyle
			}
			return cellStyle
		}).
		Headers("PID", "COMM", "S", "OWNER", "UTIME/s", "STIME/s", "TOTAL/s", "MINFLT/s", "RD B/s", "WR B/s", "RSS").
		Rows(data...)

	_, err := fmt.Fprintln(f.writer, t)
	return err
}
