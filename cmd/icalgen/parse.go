package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"icalgen/internal/extract"
	"icalgen/internal/ics"
	"icalgen/internal/invite"
	"icalgen/internal/model"
)

var parseCmd = &cobra.Command{
	Use:   "parse [text...]",
	Short: "Show the event extracted from text without writing anything",
	Long: `Parse runs the same extraction as add and prints the result. Nothing is
written and nothing is opened. With --json the details are printed as a JSON
object with title, start, end, location, notes, meeting_url and recurrence.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && interactive(cmd.InOrStdin()) {
			return cmd.Help()
		}
		input, err := readInput(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), invite.MsgInputRequired)
			return reportedError{err: extract.ErrEmptyInput}
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg.Open = false
		svc, err := invite.New(cfg)
		if err != nil {
			return err
		}

		d, err := svc.Preview(input)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), invite.MsgFailed+": "+err.Error())
			return reportedError{err: err}
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		}
		return printDetails(cmd.OutOrStdout(), d)
	},
}

func init() {
	f := parseCmd.Flags()
	f.String("timezone", "", "IANA timezone for interpreting the text")
	f.String("mode", "", "extraction mode: natural or form")
	f.Duration("duration", 0, "event length when the text has no end time")
	f.Bool("fallback-now", false, "use the current time when no date is found")
	f.String("date-order", "", "how to read slash dates like 3/4: mdy or dmy")
	f.Bool("json", false, "print details as JSON")

	rootCmd.AddCommand(parseCmd)
}

const detailTimeLayout = "Mon Jan 2 2006 15:04 MST"

func printDetails(w io.Writer, d model.EventDetails) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Title:\t%s\n", d.Title)
	fmt.Fprintf(tw, "Start:\t%s\n", d.Start.Format(detailTimeLayout))
	fmt.Fprintf(tw, "End:\t%s\n", d.End.Format(detailTimeLayout))
	if d.Location != "" {
		fmt.Fprintf(tw, "Location:\t%s\n", d.Location)
	}
	if d.MeetingURL != "" {
		fmt.Fprintf(tw, "Meeting:\t%s\n", d.MeetingURL)
	}
	if d.Recurrence != nil {
		rule, err := ics.RRule(d.Recurrence)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "Repeats:\t%s\n", rule)
	}
	fmt.Fprintf(tw, "File:\t%s\n", ics.FileName(d.Title))
	return tw.Flush()
}
