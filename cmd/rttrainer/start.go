package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/curbz/rt-trainer/internal/scenario"
)

var startParams scenario.Params

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Print the initial scenario status data as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}
		data, err := sess.StartData(startParams)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	},
}

func init() {
	paramFlags(startCmd, &startParams)
}
