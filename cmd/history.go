/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/valpere/booktran/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past translation jobs",
	Long: `List, inspect, and clear the SQLite job history.

The history stores job settings and per-model attempt outcomes only;
book text and translations are never saved.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			return listJobs(cmd.Context(), db, cmd.OutOrStdout(), historyLimit)
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show a job and every model attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			return showJob(cmd.Context(), db, cmd.OutOrStdout(), args[0])
		})
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show success rate and latency per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			return modelStats(cmd.Context(), db, cmd.OutOrStdout())
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all jobs from the history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			n, err := db.ClearJobs(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d jobs from history.\n", n)
			return nil
		})
	},
}

func withStore(fn func(db *store.Store) error) error {
	db, err := openStore(appCfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func listJobs(ctx context.Context, db *store.Store, out io.Writer, limit int) error {
	jobs, err := db.ListJobs(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	if len(jobs) == 0 {
		fmt.Fprintln(out, "No jobs in history.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tSTATUS\tLANG\tCHUNKS\tFAILED\tINPUT")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			j.ID, humanize.Time(j.StartedAt), j.Status, j.TargetLang,
			humanize.Comma(int64(j.Chunks)), j.Failed, j.InputPath)
	}
	return w.Flush()
}

func showJob(ctx context.Context, db *store.Store, out io.Writer, id string) error {
	j, err := db.GetJob(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}

	fmt.Fprintf(out, "Job:      %s\n", j.ID)
	fmt.Fprintf(out, "Status:   %s\n", j.Status)
	fmt.Fprintf(out, "Input:    %s\n", j.InputPath)
	fmt.Fprintf(out, "Output:   %s\n", j.OutputPath)
	fmt.Fprintf(out, "Language: %s\n", j.TargetLang)
	fmt.Fprintf(out, "Genre:    %s\n", j.Genre)
	fmt.Fprintf(out, "Models:   %s\n", strings.Join(j.Models, ", "))
	fmt.Fprintf(out, "Chunks:   %d (%d failed)\n", j.Chunks, j.Failed)
	fmt.Fprintf(out, "Started:  %s (%s)\n", j.StartedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(j.StartedAt))
	if !j.FinishedAt.IsZero() {
		fmt.Fprintf(out, "Took:     %s\n", j.FinishedAt.Sub(j.StartedAt).Round(time.Millisecond))
	}

	attempts, err := db.ListAttempts(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list attempts: %w", err)
	}
	if len(attempts) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHUNK\tMODEL\tOUTCOME\tSTATUS\tLATENCY\tERROR")
	for _, a := range attempts {
		status := "-"
		if a.StatusCode != 0 {
			status = fmt.Sprint(a.StatusCode)
		}
		msg := truncate(a.Error, 60)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", a.Chunk, a.Model, a.Outcome, status, a.Latency, msg)
	}
	return w.Flush()
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func modelStats(ctx context.Context, db *store.Store, out io.Writer) error {
	stats, err := db.ModelStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	if len(stats) == 0 {
		fmt.Fprintln(out, "No attempts recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tATTEMPTS\tSUCCESS\tAVG LATENCY")
	for _, s := range stats {
		rate := 0.0
		if s.Attempts > 0 {
			rate = float64(s.Successes) / float64(s.Attempts) * 100
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f%%\t%sms\n",
			s.Model, humanize.Comma(int64(s.Attempts)), rate, humanize.Comma(int64(s.AvgLatencyMs)))
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of jobs to show (0 for all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyClearCmd)
}
