// cmd/serve.go

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/soyuz43/svninfo-go/internal/config"
	"github.com/soyuz43/svninfo-go/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd exposes the queries over loopback HTTP for build engines.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a JSON API for build-engine integration.",
	Long: `Serves POST /revision, /repository-root, /repository-url, /last-changed-author and /info.
Each takes {"path": "...", "username": "...", "password": "..."}. The server stops on
Ctrl+C or after --idle-timeout without requests.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(client, server.Config{
			Listen:       cfg.Listen,
			IdleTimeout:  cfg.IdleTimeout,
			PortFile:     cfg.PortFile,
			Credentials:  cfg.Credentials(),
			QueryTimeout: cfg.Timeout,
		}, logrus.NewEntry(logrus.StandardLogger()))

		cmd.Println(cyan("[svninfo-go] Starting API server..."))
		return srv.Run(ctx)
	},
}

func init() {
	d := config.Default()
	serveCmd.Flags().String(config.KeyListen, d.Listen, "listen address")
	serveCmd.Flags().Duration(config.KeyIdleTimeout, d.IdleTimeout, "shut down after this long without requests (0 disables)")
	serveCmd.Flags().String(config.KeyPortFile, "", "write the bound port to this file while serving")
	rootCmd.AddCommand(serveCmd)
}
