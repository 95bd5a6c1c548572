package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fundsim/internal/compare"
	"github.com/rgehrsitz/fundsim/internal/config"
	"github.com/rgehrsitz/fundsim/internal/output"
)

var diffCmd = &cobra.Command{
	Use:   "diff [baseline-file] [current-file]",
	Short: "List the answers a caseworker changed and the rules each change flipped",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		machine, err := newMachine(cmd)
		if err != nil {
			return err
		}
		parser := config.NewInputParser()
		baseline, err := parser.LoadAnswers(args[0])
		if err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
		current, err := parser.LoadAnswers(args[1])
		if err != nil {
			return fmt.Errorf("current: %w", err)
		}

		set := compare.NewDiffer(machine.Evaluator()).Compare(*baseline, *current)
		set.BaselinePath = args[0]
		set.CurrentPath = args[1]

		format, _ := cmd.Flags().GetString("format")
		out := cmd.OutOrStdout()
		switch format {
		case "table", "":
			tf := &compare.TableFormatter{}
			fmt.Fprint(out, tf.Format(set))
		case "csv":
			cf := &compare.CSVFormatter{}
			data, err := cf.Format(set)
			if err != nil {
				return err
			}
			fmt.Fprint(out, data)
		case "json":
			data, err := output.EncodeJSON(set, true)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
		default:
			return fmt.Errorf("unsupported format %q (use table, csv or json)", format)
		}
		return nil
	},
}

func init() {
	diffCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
}
