package commands

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/finview-dev/finview/internal/server"
)

func newServeCommand(env *commandEnv) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reports over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			asm, cfg, err := buildAssembler(env)
			if err != nil {
				return err
			}

			if addr == "" {
				addr = cfg.Server.Addr
			}

			logger := env.logger()
			logger.Info("serving reports", "addr", addr)
			return http.ListenAndServe(addr, server.NewRouter(asm, logger))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}
