package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fundsim/internal/config"
	"github.com/rgehrsitz/fundsim/internal/store"
	"github.com/rgehrsitz/fundsim/internal/tui"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Run the interactive eligibility questionnaire",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		machine, err := newMachine(cmd)
		if err != nil {
			return err
		}

		editMode, _ := cmd.Flags().GetBool("edit")
		baselineFile, _ := cmd.Flags().GetString("baseline")
		sessionID, _ := cmd.Flags().GetString("session")
		sessionsDir, _ := cmd.Flags().GetString("sessions-dir")

		opts := tui.Options{EditMode: editMode}
		if baselineFile != "" {
			if !editMode {
				return fmt.Errorf("--baseline requires --edit")
			}
			baseline, err := config.NewInputParser().LoadAnswers(baselineFile)
			if err != nil {
				return err
			}
			opts.Baseline = baseline
		}

		if sessionID != "" {
			if err := store.ValidateSessionID(sessionID); err != nil {
				return err
			}
			if sessionsDir == "" {
				sessionsDir, err = defaultSessionsDir()
				if err != nil {
					return err
				}
			}
			sessions, err := store.NewFileStore(sessionsDir, store.DefaultSessionTTL, nil)
			if err != nil {
				return err
			}
			opts.Sessions = sessions
			opts.SessionID = sessionID
		}

		p := tea.NewProgram(tui.NewModel(machine, opts), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running wizard: %w", err)
		}
		return nil
	},
}

// defaultSessionsDir is the per-user directory for saved wizard sessions
func defaultSessionsDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate user config directory: %w", err)
	}
	return filepath.Join(dir, "fundsim", "sessions"), nil
}

func init() {
	wizardCmd.Flags().Bool("edit", false, "Caseworker edit mode: no early exit, answers kept when going back")
	wizardCmd.Flags().String("baseline", "", "Answer file to edit and diff against (requires --edit)")
	wizardCmd.Flags().String("session", "", "Session id to save to and resume from")
	wizardCmd.Flags().String("sessions-dir", "", "Directory for saved sessions (default: user config dir)")
}
