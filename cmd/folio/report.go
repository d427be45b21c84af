package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/folio/internal/config"
	"github.com/rpggio/folio/internal/domain/billing"
	"github.com/rpggio/folio/internal/domain/cycle"
	"github.com/rpggio/folio/internal/domain/pacing"
)

var (
	paceDate       string
	reconcileCycle string
	reconcileFile  string
	reconcileDone  bool
)

// cycleCmd prints the cycle containing a date
var cycleCmd = &cobra.Command{
	Use:   "cycle [YYYY-MM-DD]",
	Short: "Show the pay cycle containing a date (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCycle,
}

// paceCmd prints today's quota and the plan for the rest of the cycle
var paceCmd = &cobra.Command{
	Use:   "pace",
	Short: "Show today's quota and the cycle forecast",
	RunE:  runPace,
}

// reconcileCmd compares a billed list against the tracked files
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile billed codes against a cycle",
	Long: `Read billed manuscript codes, one per line, from --file or stdin and
compare them against the cycle's tracked files.

With --finish, matched WORKED files are marked BILLED in the cycle.`,
	RunE: runReconcile,
}

func init() {
	paceCmd.Flags().StringVar(&paceDate, "date", "", "Day to forecast as YYYY-MM-DD (default today)")

	reconcileCmd.Flags().StringVar(&reconcileCycle, "cycle", "", "Cycle id, e.g. 2026-01-C1 (default current cycle)")
	reconcileCmd.Flags().StringVarP(&reconcileFile, "file", "f", "", "File with pasted codes (default stdin)")
	reconcileCmd.Flags().BoolVar(&reconcileDone, "finish", false, "Mark matched WORKED files BILLED")
}

func runCycle(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	day := time.Now().In(loc)
	if len(args) == 1 {
		t, ok := cycle.ParseDate(args[0], loc)
		if !ok {
			return fmt.Errorf("invalid date %q", args[0])
		}
		day = t
	}

	c := cycle.Resolve(day)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s\n", c.ID, c.Label())
	fmt.Fprintf(out, "%s to %s (%d days)\n", c.Start.Format(cycle.DateLayout), c.End.Format(cycle.DateLayout), c.Days())
	fmt.Fprintf(out, "previous %s, next %s\n", c.Prev().ID, c.Next().ID)
	return nil
}

func runPace(cmd *cobra.Command, args []string) error {
	d, err := openDeps(nil)
	if err != nil {
		return err
	}
	defer d.close()

	now := time.Now().In(d.app.Location)
	if paceDate != "" {
		t, ok := cycle.ParseDate(paceDate, d.app.Location)
		if !ok {
			return fmt.Errorf("invalid date %q", paceDate)
		}
		now = t
	}

	f, err := d.app.Pacing.Today(cmd.Context(), userID, now)
	if err != nil {
		return err
	}
	printForecast(cmd.OutOrStdout(), f)
	return nil
}

func printForecast(out io.Writer, f *pacing.Forecast) {
	fmt.Fprintf(out, "%s  %s\n", f.Cycle.ID, f.Cycle.Label())
	fmt.Fprintf(out, "today %s: quota %d, done %d, left %d [%s]\n",
		f.Today.Format(cycle.DateLayout), f.TodayQuota, f.CompletedToday, f.RemainingToday, f.State)
	fmt.Fprintf(out, "cycle: %d/%d done, %d to go over %.1f work units\n",
		f.CompletedInCycle, f.Target, f.RemainingToTarget, f.RemainingWorkUnits)
	if len(f.Days) == 0 {
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tWEIGHT\tQUOTA")
	for _, day := range f.Days {
		fmt.Fprintf(tw, "%s\t%.1f\t%d\n", day.Date.Format(cycle.DateLayout), day.Weight, day.Quota)
	}
	_ = tw.Flush()
}

func runReconcile(cmd *cobra.Command, args []string) error {
	pasted, err := readPasted(cmd.InOrStdin(), reconcileFile)
	if err != nil {
		return err
	}

	d, err := openDeps(nil)
	if err != nil {
		return err
	}
	defer d.close()

	cycleID := reconcileCycle
	if cycleID == "" {
		cycleID = cycle.Resolve(time.Now().In(d.app.Location)).ID
	}

	out := cmd.OutOrStdout()
	if !reconcileDone {
		report, err := d.app.Billing.Preview(cmd.Context(), userID, cycleID, pasted)
		if err != nil {
			return err
		}
		printReport(out, report)
		return nil
	}

	res, err := d.app.Billing.Finish(cmd.Context(), userID, cycleID, pasted, time.Now())
	if err != nil {
		return err
	}
	printReport(out, &res.Report)
	fmt.Fprintf(out, "billed %d manuscripts\n", len(res.Billed))
	return nil
}

func readPasted(stdin io.Reader, path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func printReport(out io.Writer, r *billing.Report) {
	s := r.Summary
	fmt.Fprintf(out, "%s  %s\n", r.Cycle.ID, r.Cycle.Label())
	fmt.Fprintf(out, "tracked %d, matched %d, missing %d, other cycle %d, unknown %d\n",
		s.Tracked, s.Matched, s.Missing, s.OtherCycle, s.Unknown)
	fmt.Fprintf(out, "billed %d/%d (%.1f%%)  confirmed $%.2f / PHP %.2f  projected $%.2f / PHP %.2f\n",
		s.Billed, s.Tracked, s.PercentBilled, s.ConfirmedUSD, s.ConfirmedPHP, s.ProjectedUSD, s.ProjectedPHP)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RESULT\tCODE\tSTATUS\tCYCLE")
	for _, m := range r.Result.Matched {
		fmt.Fprintf(tw, "matched\t%s\t%s\t\n", m.Code, m.Status)
	}
	for _, m := range r.Result.Missing {
		fmt.Fprintf(tw, "missing\t%s\t%s\t\n", m.Code, m.Status)
	}
	for _, e := range r.Result.Extra {
		status := string(e.Status)
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", strings.ToLower(string(e.Kind)), e.Code, status, e.CycleID)
	}
	_ = tw.Flush()
}
