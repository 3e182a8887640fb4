// Package main is the entry point for the icalgen CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"icalgen/internal/config"
	appLog "icalgen/internal/log"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command. Run without a subcommand it behaves like add.
var rootCmd = &cobra.Command{
	Use:   "icalgen [text...]",
	Short: "Turn a free-text event description into a calendar file",
	Long: `icalgen reads a pasted invite, email snippet or short sentence such as
"Lunch with Sam tomorrow at 1pm at Nopa", extracts the title, time, location,
recurrence and meeting link, writes an .ics file and opens it with the system
calendar application.

Text is taken from the arguments, or from stdin when no arguments are given
or the only argument is "-".`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			appLog.SetLevel(appLog.LevelDebug)
		}
	},
	RunE: runAdd,
}

// envKeys are the settings that can be overridden with ICALGEN_<KEY>.
var envKeys = []string{
	"config",
	"verbose",
	"timezone",
	"calendar_name",
	"default_duration",
	"output_dir",
	"open",
	"open_command",
	"mode",
	"default_title",
	"fallback_to_now",
	"date_order",
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/icalgen/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	addEventFlags(rootCmd)
}

func initConfig() {
	viper.SetEnvPrefix("ICALGEN")
	viper.AutomaticEnv()
	for _, key := range envKeys {
		_ = viper.BindEnv(key)
	}
}

// configPath resolves --config, then ICALGEN_CONFIG, then the default path.
func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	if p := viper.GetString("config"); p != "" {
		return p
	}
	return config.DefaultPath()
}

// loadConfig reads the config file and layers environment and flag
// overrides on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath(cmd)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	appLog.Debug("effective config",
		"config_path", path,
		"timezone", cfg.Timezone,
		"mode", cfg.Mode,
		"output_dir", cfg.ResolvedOutputDir(),
		"open", cfg.Open,
		"default_duration", cfg.DefaultDuration.String(),
	)
	return cfg, nil
}

// reportedError marks an error whose user-facing message was already
// printed.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var re reportedError
		if !errors.As(err, &re) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		cancel()
		os.Exit(1)
	}
}
