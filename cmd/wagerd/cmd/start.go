package cmd

import (
	"os/signal"
	"syscall"

	"github.com/cometbft/cometbft/abci/server"
	"github.com/spf13/cobra"

	"github.com/Chop-Kampfire/PythyBird/internal/app"
	"github.com/Chop-Kampfire/PythyBird/internal/config"
	"github.com/Chop-Kampfire/PythyBird/internal/store"
)

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the ABCI application server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}

			db, err := store.Open(cfg.DBBackend, cfg.DataDir())
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					logger.Error("close db", "err", err)
				}
			}()

			a, err := app.New(db, app.Options{
				AllowMint:       cfg.AllowMint,
				CheckInvariants: cfg.CheckInvariants,
				Logger:          logger,
			})
			if err != nil {
				return err
			}

			srv, err := server.NewServer(cfg.Addr, cfg.Transport, a)
			if err != nil {
				return err
			}
			if err := srv.Start(); err != nil {
				return err
			}
			defer func() { _ = srv.Stop() }()

			logger.Info("abci server started", "addr", cfg.Addr, "transport", cfg.Transport, "home", cfg.Home, "allow_mint", cfg.AllowMint)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			logger.Info("shutting down")
			return nil
		},
	}
	config.AddFlags(cmd.Flags())
	return cmd
}
