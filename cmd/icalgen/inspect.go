package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"icalgen/internal/ics"
	"icalgen/internal/model"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.ics>",
	Short: "List the occurrences in a calendar file",
	Long: `Inspect reads a calendar file, expands recurring events and lists every
occurrence from now until --days days ahead, in the configured timezone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			return fmt.Errorf("--days must be positive, got %d", days)
		}

		events, err := ics.ParseFile(args[0])
		if err != nil {
			return err
		}

		now := time.Now().In(loc)
		res, err := ics.ExpandOccurrences(events, ics.ExpandConfig{
			DisplayLocation: loc,
			RangeStart:      now,
			RangeEnd:        now.AddDate(0, 0, days),
		})
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res.Occurrences)
		}
		if len(res.Occurrences) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No occurrences in the next %d days.\n", days)
			return nil
		}
		return printOccurrences(cmd.OutOrStdout(), res.Occurrences)
	},
}

func init() {
	inspectCmd.Flags().Int("days", 30, "number of days ahead to list")
	inspectCmd.Flags().Bool("json", false, "print occurrences as JSON")

	rootCmd.AddCommand(inspectCmd)
}

func printOccurrences(w io.Writer, occ []model.Occurrence) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tEND\tSUMMARY\tLOCATION")
	for _, o := range occ {
		start := o.Start.Format("2006-01-02 15:04")
		end := o.End.Format("15:04")
		if o.AllDay {
			start = o.Start.Format("2006-01-02")
			end = "all day"
		} else if o.End.YearDay() != o.Start.YearDay() {
			end = o.End.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", start, end, o.Summary, o.Location)
	}
	return tw.Flush()
}
