//go:build linux

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ja7ad/procrate/pkg/output"
	"github.com/ja7ad/procrate/pkg/procfs"
	"github.com/ja7ad/procrate/pkg/sampler"
	"github.com/ja7ad/procrate/pkg/system/util"
	"github.com/ja7ad/procrate/pkg/types"
)

type opts struct {
	samples   int
	interval  time.Duration
	format    string
	top       int
	procRoot  string
	memUnit   string
	memFactor uint64
	quiet     bool
}

func main() {
	var o opts

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	root := &cobra.Command{
		Use:   "procrate [PID|PID..PID]...",
		Short: "Per-process /proc counter rates",
		Long: `procrate samples cumulative per-process counters from /proc and reports
them as per-second rates over the sampling interval. CPU times and fault
counts are diffed against a rolling baseline with process-identity checks
(pid + start time), so a recycled pid is never diffed against the process
that used the number before it.

With no PID arguments the whole process table is scanned each cycle;
explicit PIDs (single or A..B ranges) fix the membership for the run.

Examples:
  procrate                       # whole table, 5 samples, 1s apart
  procrate -i 2s -s 0 1234       # one pid, every 2s until Ctrl-C
  procrate --format json 100..120`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), log, o, args)
		},
	}

	root.Flags().IntVarP(&o.samples, "samples", "s", 5, "number of samples to collect (0 = run until Ctrl-C)")
	root.Flags().DurationVarP(&o.interval, "interval", "i", time.Second, "sampling interval (e.g. 1s, 500ms)")
	root.Flags().StringVarP(&o.format, "format", "f", "table", "output format: table, json")
	root.Flags().IntVar(&o.top, "top", 20, "show only the busiest N processes (0 = all)")
	root.Flags().StringVar(&o.procRoot, "proc-root", "", "pseudo-filesystem root (default /proc)")
	root.Flags().StringVar(&o.memUnit, "mem-unit", "bytes", "memory size unit: native, kb, bytes")
	root.Flags().Uint64Var(&o.memFactor, "mem-factor", 0, "bytes per native allocation unit (0 = page size)")
	root.Flags().BoolVarP(&o.quiet, "quiet", "q", false, "suppress the host banner")

	root.AddCommand(inspectCmd(log, &o))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func engineFor(o opts, args []string) (*sampler.Engine, error) {
	pids, err := sampler.ParsePIDs(args)
	if err != nil {
		return nil, err
	}
	unit, err := sampler.ParseMemUnit(o.memUnit)
	if err != nil {
		return nil, err
	}
	factor := o.memFactor
	if factor == 0 && unit != sampler.UnitNative {
		factor = uint64(procfs.PageSize())
	}
	return sampler.New(sampler.Config{
		Root:      o.procRoot,
		PIDs:      pids,
		MemFactor: factor,
		MemUnit:   unit,
	})
}

func run(ctx context.Context, log *logrus.Logger, o opts, args []string) error {
	if o.interval <= 0 {
		return fmt.Errorf("interval must be > 0")
	}

	eng, err := engineFor(o, args)
	if err != nil {
		return err
	}

	if !o.quiet {
		host, kernel, cpus, mem := util.SystemSummary()
		fmt.Printf("procrate: host=%s kernel=%s cpus=%s mem=%s\n\n", host, kernel, cpus, mem)
	}

	if err := eng.Initialize(); err != nil {
		return fmt.Errorf("baseline capture: %w", err)
	}

	f := output.NewFormatter(output.Format(o.format), os.Stdout, o.top)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for n := 0; ; {
		select {
		case <-ctx.Done():
			log.Info("interrupted")
			return nil

		case <-ticker.C:
			res, err := eng.Sample()
			if err != nil {
				// Fatal categories stop the run; transient process loss is
				// already invisible (absent from the result).
				if errors.Is(err, sampler.ErrEnumeration) {
					return fmt.Errorf("enumeration failed: %w", err)
				}
				return err
			}
			log.WithFields(logrus.Fields{
				"processes": len(res),
				"interval":  o.interval,
			}).Debug("sample complete")

			if err := f.Render(res); err != nil {
				return err
			}

			n++
			if o.samples > 0 && n >= o.samples {
				return nil
			}
		}
	}
}

func inspectCmd(log *logrus.Logger, o *opts) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <pid>",
		Short: "One-shot descriptive view of a single process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.Atoi(args[0])
			if err != nil || pid <= 0 {
				return fmt.Errorf("invalid pid %q", args[0])
			}

			tbl := procfs.NewTable(o.procRoot, procfs.Files{})
			st, err := tbl.ReadStat(pid)
			if err != nil {
				return err
			}

			fmt.Printf("pid:      %d\n", st.PID)
			fmt.Printf("comm:     %s\n", st.Comm)
			fmt.Printf("state:    %s\n", st.State)
			fmt.Printf("ppid:     %d\n", st.PPID)
			fmt.Printf("session:  %d\n", st.Session)
			fmt.Printf("priority: %d (nice %d)\n", st.Priority, st.Nice)

			if owner, err := tbl.ReadOwner(pid); err == nil {
				fmt.Printf("owner:    %s\n", owner)
			}
			if cmdline, err := tbl.ReadCmdline(pid); err == nil && cmdline != "" {
				fmt.Printf("cmdline:  %s\n", cmdline)
			}
			if w, err := tbl.ReadWchan(pid); err == nil && w != "" {
				fmt.Printf("wchan:    %s\n", w)
			}
			if m, err := tbl.ReadStatm(pid); err == nil {
				page := uint64(procfs.PageSize())
				fmt.Printf("size:     %s\n", types.Bytes(m.Size*page).Humanized())
				fmt.Printf("resident: %s\n", types.Bytes(m.Resident*page).Humanized())
				fmt.Printf("shared:   %s\n", types.Bytes(m.Share*page).Humanized())
			}
			if fds, err := tbl.ReadFDs(pid); err == nil {
				fmt.Printf("fds:      %d open\n", len(fds))
				nums := make([]int, 0, len(fds))
				for fd := range fds {
					nums = append(nums, fd)
				}
				sort.Ints(nums)
				for _, fd := range nums {
					fmt.Printf("  %3d -> %s\n", fd, fds[fd])
				}
			} else {
				log.WithField("pid", pid).Debug("fd listing unavailable")
			}
			return nil
		},
	}
}
