package cmd

import (
	"fmt"
	"io"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Chop-Kampfire/PythyBird/internal/config"
	"github.com/Chop-Kampfire/PythyBird/internal/wager"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

// NewRootCmd creates the root command for wagerd. It is called once in main.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           config.BinaryName,
		Short:         config.AppName + " wager escrow ABCI application",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(
		startCmd(),
		raceIDCmd(),
		versionCmd(),
	)
	return rootCmd
}

// newLogger builds the process logger from the configured level and format.
func newLogger(w io.Writer, cfg config.Config) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	opts := []log.Option{log.LevelOption(level)}
	if cfg.LogFormat == "json" {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(w, opts...), nil
}

func raceIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "race-id <lobbyCode>",
		Short: "Print the race id and vault address derived from a lobby code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			if len(code) != wager.LobbyCodeLen {
				return wager.ErrInvalidLobbyCode.Wrapf("got %d bytes, want %d", len(code), wager.LobbyCodeLen)
			}
			id := wager.RaceID(code)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "race:  %s\n", id)
			fmt.Fprintf(out, "vault: %s\n", wager.VaultAddress(id))
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", config.BinaryName, Version)
		},
	}
}
