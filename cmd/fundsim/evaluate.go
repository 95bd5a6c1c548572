package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fundsim/internal/config"
	"github.com/rgehrsitz/fundsim/internal/output"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [answers-file]",
	Short: "Evaluate an answer file against the eligibility rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		f := output.GetFormatterByName(format)
		if f == nil {
			return fmt.Errorf("unsupported format %q (use %s)", format, strings.Join(output.AvailableFormatterNames(), ", "))
		}

		machine, err := newMachine(cmd)
		if err != nil {
			return err
		}
		answers, err := config.NewInputParser().LoadAnswers(args[0])
		if err != nil {
			return err
		}

		editMode, _ := cmd.Flags().GetBool("edit")
		out := machine.Evaluate(*answers)
		if editMode {
			out = machine.EvaluateForEdition(*answers)
		}
		report := output.NewReport(out, *answers, editMode)

		if save, _ := cmd.Flags().GetBool("save"); save {
			filename, err := output.WriteFormatted(f, report, f.Name())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
			return nil
		}

		data, err := f.Format(report)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	evaluateCmd.Flags().Bool("edit", false, "Use the caseworker determination (pending rules do not block)")
	evaluateCmd.Flags().StringP("format", "f", "console", "Output format (console, json, yaml, csv, html)")
	evaluateCmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")
}
