package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curbz/rt-trainer/internal/scenario"
)

var (
	stepData    string
	stepMessage string
)

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Run one transmission against scenario status data",
	Long:  "step reads scenario status data JSON from --data or stdin, applies --message and prints the resulting turn.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if stepData != "" {
			r = strings.NewReader(stepData)
		}
		var data scenario.StatusData
		if err := json.NewDecoder(r).Decode(&data); err != nil {
			return fmt.Errorf("invalid status data: %w", err)
		}

		sess, err := newSession()
		if err != nil {
			return err
		}
		turn, err := sess.Step(data, stepMessage)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(turn)
	},
}

func init() {
	stepCmd.Flags().StringVar(&stepData, "data", "", "Scenario status data JSON (read from stdin when empty)")
	stepCmd.Flags().StringVar(&stepMessage, "message", "", "Pilot transmission")
	stepCmd.MarkFlagRequired("message")
}
