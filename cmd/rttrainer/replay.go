package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/curbz/rt-trainer/internal/scenario"
)

var (
	replayInput  string
	replayParams scenario.Params
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a JSONL transcript",
	Long:  `replay runs every {"message": "..."} line of a transcript through a fresh scenario and prints one turn per line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if replayInput != "" && replayInput != "-" {
			f, err := os.Open(replayInput)
			if err != nil {
				return fmt.Errorf("cannot open transcript: %w", err)
			}
			defer f.Close()
			r = f
		}
		sess, err := newSession()
		if err != nil {
			return err
		}
		return sess.Replay(r, cmd.OutOrStdout(), replayParams)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "-", "Path to transcript file, - for stdin")
	paramFlags(replayCmd, &replayParams)
}
