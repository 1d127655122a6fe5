package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ac-advisor/internal/analytics"
	"ac-advisor/internal/storage"
)

const dateLayout = "2006-01-02"

func statsCmd() *cobra.Command {
	var (
		logPath   string
		redisAddr string
		date      string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print calculation statistics of one UTC day",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now().UTC()
			if date != "" {
				d, err := time.Parse(dateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid --date, want YYYY-MM-DD: %w", err)
				}
				day = d
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out := cmd.OutOrStdout()

			if redisAddr != "" {
				rr := storage.NewRedisRecorder(redisAddr)
				defer rr.Close()
				calcs, empty, users, err := rr.DayCounters(ctx, day)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: calculations=%d empty=%d users≈%d\n", day.Format(dateLayout), calcs, empty, users)
				return nil
			}

			if logPath == "" {
				return errors.New("either --log or --redis is required")
			}
			// NewFileRecorder creates missing files; a report must not
			if _, err := os.Stat(logPath); err != nil {
				return fmt.Errorf("calculation log: %w", err)
			}
			fr, err := storage.NewFileRecorder(logPath)
			if err != nil {
				return err
			}
			calcs, err := fr.LoadCalculations(ctx)
			if err != nil {
				return err
			}
			stats := analytics.AnalyzeDaily(calcs, day)
			if asJSON {
				s, err := stats.ToJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
				return nil
			}
			fmt.Fprint(out, stats.Summary())
			return nil
		},
	}
	cmd.Flags().StringVar(&logPath, "log", "logs/calculations.jsonl", "JSONL calculation log")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "read live counters from this Redis instead of the log")
	cmd.Flags().StringVar(&date, "date", "", "day to report, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of the text summary")
	return cmd
}
