package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fundsim/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate an answer file, or a program rules file with --rules-file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()
		asRules, _ := cmd.Flags().GetBool("rules-file")
		if asRules {
			if _, err := parser.LoadProgramRules(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Program rules file %s is valid\n", args[0])
			return nil
		}
		if _, err := parser.LoadAnswers(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Answer file %s is valid\n", args[0])
		return nil
	},
}

func init() {
	validateCmd.Flags().Bool("rules-file", false, "Validate the file as program rules instead of answers")
}
