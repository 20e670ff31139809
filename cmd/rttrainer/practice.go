package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/curbz/rt-trainer/internal/scenario"
	"github.com/curbz/rt-trainer/internal/tui"
)

var practiceParams scenario.Params

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Fly a scenario interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}
		data, err := sess.StartData(practiceParams)
		if err != nil {
			return err
		}
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return tui.Run(sess, data, os.Stdin, cmd.OutOrStdout())
		}
		_, err = tui.RunLines(sess, data, cmd.InOrStdin(), cmd.OutOrStdout())
		return err
	},
}

func init() {
	paramFlags(practiceCmd, &practiceParams)
}
