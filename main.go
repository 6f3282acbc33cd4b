package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"conquest/communication/server"
	"conquest/config"
	"conquest/game"
	"conquest/gamemaster"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string
	root := &cobra.Command{
		Use:          "conquest",
		Short:        "Turn-based conquest engine",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default configs/conquest.yaml)")
	root.AddCommand(serveCmd(&configPath), boardCmd(), replayCmd(&configPath), benchCmd(&configPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host games over HTTP and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			closer, err := config.SetupLogging(cfg.Log, os.Stderr)
			if err != nil {
				return err
			}
			defer closer.Close()

			opts, err := gameOptions(cfg.Game)
			if err != nil {
				return err
			}
			master := gamemaster.New(gamemaster.WithGameOptions(opts...))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := server.NewServer(cfg.Addr, master).Start(ctx); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			log.Info().Msg("server shut down")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides the config file")
	return cmd
}

func gameOptions(cfg config.GameConfig) ([]game.Option, error) {
	var opts []game.Option
	if cfg.Rules != "" {
		rules, err := game.LoadRules(cfg.Rules)
		if err != nil {
			return nil, err
		}
		opts = append(opts, game.WithRules(rules))
	}
	if cfg.Seed != 0 {
		opts = append(opts, game.WithSeed(cfg.Seed))
	}
	return opts, nil
}
