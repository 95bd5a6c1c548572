package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fundsim/internal/config"
	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/rgehrsitz/fundsim/internal/simulation"
)

// simpleCLILogger implements simulation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fundsim %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.Main.Version
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "fundsim",
	Short: "Clay shrink-swell repair fund eligibility simulator",
	Long: "Eligibility simulator for the clay shrink-swell preventive repair fund: " +
		"evaluate answer files, diff caseworker edits, run the interactive wizard or serve the HTTP API",
	SilenceUsage: true,
}

// loadRules reads the program rules named by --rules, or the embedded defaults
func loadRules(cmd *cobra.Command) (*domain.ProgramRules, error) {
	path, _ := cmd.Flags().GetString("rules")
	return config.ResolveProgramRules(path)
}

// newMachine builds the questionnaire machine, logging to stderr with --debug
func newMachine(cmd *cobra.Command, opts ...simulation.Option) (*simulation.Machine, error) {
	rules, err := loadRules(cmd)
	if err != nil {
		return nil, err
	}
	machine := simulation.NewMachine(rules, opts...)
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		machine.SetLogger(simpleCLILogger{})
	}
	return machine, nil
}

func init() {
	rootCmd.PersistentFlags().String("rules", "", "Path to a program rules file (default: embedded rules)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
