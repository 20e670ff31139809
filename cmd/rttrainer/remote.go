package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curbz/rt-trainer/internal/client"
	"github.com/curbz/rt-trainer/internal/scenario"
)

var (
	remoteParams scenario.Params
	remoteServer string
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Fly a scenario hosted by a running server, one transmission per line",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client.New(remoteServer)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		sc, err := c.Create(ctx, remoteParams)
		if err != nil {
			return err
		}
		stream, err := c.Connect(ctx, sc.ID)
		if err != nil {
			return err
		}
		defer stream.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "scenario %s, seed %d, calling %s on %.3f\n",
			sc.ID, sc.Seed, sc.State.CurrentTarget.Callsign, sc.State.CurrentTarget.Frequency)

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			turn, err := stream.Send(line)
			if err != nil {
				return err
			}
			if turn.Error != nil {
				fmt.Fprintf(out, "[%s] %s\n", turn.Error.Kind, turn.Error.Detail)
			}
			if turn.Reply != nil {
				fmt.Fprintf(out, "%s: %s\n", turn.Reply.Station, turn.Reply.Written)
			}
			if turn.State.Terminal() {
				break
			}
		}
		return scanner.Err()
	},
}

func init() {
	remoteCmd.Flags().StringVar(&remoteServer, "server", "http://127.0.0.1:8080", "rttrainer server base URL")
	paramFlags(remoteCmd, &remoteParams)
}
