package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/curbz/rt-trainer/internal/server"
	"github.com/curbz/rt-trainer/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serveAddr
		}
		sess, err := newSession()
		if err != nil {
			return err
		}

		var st store.Store = store.NewMemoryStore()
		if cfg.Sessions.StoreDir != "" {
			fs, err := store.NewFileStore(cfg.Sessions.StoreDir)
			if err != nil {
				return err
			}
			st = fs
		}

		srv, err := server.New(cfg.Server, sess, st, cfg.Sessions.CacheSize, logrus.StandardLogger())
		if err != nil {
			return err
		}
		ln, err := net.Listen("tcp", cfg.Server.Addr)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, ln)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
}
