package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"icalgen/internal/config"
	"icalgen/internal/extract"
	"icalgen/internal/invite"
)

var addCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Create a calendar file from text and open it",
	Long: `Add extracts an event from the given text, writes it as an .ics file to the
output directory and hands the file to the system calendar application.

On success the created event is summarized on stdout. On failure a short
message is printed to stderr and the exit status is non-zero.`,
	Example: `  icalgen add "Lunch with Sam tomorrow at 1pm at Nopa"
  pbpaste | icalgen add --mode form
  icalgen add --no-open --output-dir . "Standup every weekday at 9:30am"`,
	Args: cobra.ArbitraryArgs,
	RunE: runAdd,
}

// flagKeys maps event flags onto config keys.
var flagKeys = map[string]string{
	"timezone":     "timezone",
	"output-dir":   "output_dir",
	"mode":         "mode",
	"duration":     "default_duration",
	"fallback-now": "fallback_to_now",
	"date-order":   "date_order",
}

func addEventFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("no-open", false, "write the file but do not open it")
	f.String("output-dir", "", "directory for the .ics file (default: OS temp dir)")
	f.String("timezone", "", "IANA timezone for interpreting the text (default: America/Los_Angeles)")
	f.String("mode", "", "extraction mode: natural or form")
	f.Duration("duration", 0, "event length when the text has no end time (default: 1h)")
	f.Bool("fallback-now", false, "use the current time when no date is found")
	f.String("date-order", "", "how to read slash dates like 3/4: mdy or dmy (default: mdy)")
	f.Bool("json", false, "print the outcome as JSON")
}

func init() {
	addEventFlags(addCmd)
	rootCmd.AddCommand(addCmd)
}

// applyOverrides layers ICALGEN_* variables and explicitly set flags of cmd
// over cfg.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if viper.IsSet("timezone") {
		cfg.Timezone = viper.GetString("timezone")
	}
	if viper.IsSet("calendar_name") {
		cfg.CalendarName = viper.GetString("calendar_name")
	}
	if viper.IsSet("default_duration") {
		cfg.DefaultDuration = viper.GetDuration("default_duration")
	}
	if viper.IsSet("output_dir") {
		cfg.OutputDir = viper.GetString("output_dir")
	}
	if viper.IsSet("open") {
		cfg.Open = viper.GetBool("open")
	}
	if viper.IsSet("open_command") {
		cfg.OpenCommand = viper.GetString("open_command")
	}
	if viper.IsSet("default_title") {
		cfg.DefaultTitle = viper.GetString("default_title")
	}
	if viper.IsSet("fallback_to_now") {
		cfg.FallbackToNow = viper.GetBool("fallback_to_now")
	}
	if viper.IsSet("mode") {
		mode := strings.ToLower(viper.GetString("mode"))
		if mode != config.ModeNatural && mode != config.ModeForm {
			return fmt.Errorf("unknown mode %q (want %s or %s)", mode, config.ModeNatural, config.ModeForm)
		}
		cfg.Mode = mode
	}
	if viper.IsSet("date_order") {
		order := strings.ToLower(viper.GetString("date_order"))
		if order != config.DateOrderMDY && order != config.DateOrderDMY {
			return fmt.Errorf("unknown date order %q (want %s or %s)", order, config.DateOrderMDY, config.DateOrderDMY)
		}
		cfg.DateOrder = order
	}
	if noOpen, _ := cmd.Flags().GetBool("no-open"); noOpen {
		cfg.Open = false
	}

	cfg.Normalize()
	return nil
}

// readInput joins args, or reads in when there are none or the only arg
// is "-".
func readInput(args []string, in io.Reader) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(b), nil
}

// interactive reports whether r is a terminal, where reading would block
// waiting for the user.
func interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func runAdd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && interactive(cmd.InOrStdin()) {
		return cmd.Help()
	}

	input, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	if strings.TrimSpace(input) == "" {
		return report(cmd, invite.Outcome{Message: invite.MsgInputRequired}, extract.ErrEmptyInput, asJSON)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := invite.New(cfg)
	if err != nil {
		return err
	}

	out, err := svc.Create(cmd.Context(), input)
	return report(cmd, out, err, asJSON)
}

// report prints out and converts err into a reportedError.
func report(cmd *cobra.Command, out invite.Outcome, err error, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(out); encErr != nil {
			return encErr
		}
	} else if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), out.Message)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), out.Message)
		fmt.Fprintln(cmd.OutOrStdout(), out.Path)
	}

	if err != nil {
		return reportedError{err: err}
	}
	return nil
}
