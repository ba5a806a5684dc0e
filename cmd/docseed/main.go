package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/autom8ter/docseed"
	"github.com/autom8ter/docseed/errors"
	_ "github.com/autom8ter/docseed/kv/badger"
	_ "github.com/autom8ter/docseed/kv/redis"
	_ "github.com/autom8ter/docseed/kv/tikv"
	"github.com/autom8ter/docseed/store"
	_ "github.com/autom8ter/docseed/store/firestore"
	_ "github.com/autom8ter/docseed/store/memstore"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	config   string
	provider string
	params   string
	logLevel string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := rootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, "docseed:", err.Error())
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "docseed",
		Short:         "seed a hierarchical document store from json fixtures",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "path to a yaml or json config file")
	cmd.PersistentFlags().StringVar(&flags.provider, "provider", "", fmt.Sprintf("store provider %v (default %s)", store.Providers(), docseed.DefaultProvider))
	cmd.PersistentFlags().StringVar(&flags.params, "params", "", "store provider params (json)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.AddCommand(
		runCmd(flags),
		clearCmd(flags),
		presetsCmd(flags),
		validateCmd(flags),
		initCmd(flags),
	)
	return cmd
}

// load returns the config file (if any) with command line overrides applied
func (g *globalFlags) load() (*docseed.Config, error) {
	cfg := docseed.DefaultConfig()
	if g.config != "" {
		var err error
		cfg, err = docseed.LoadConfig(g.config)
		if err != nil {
			return nil, err
		}
	}
	if g.provider != "" {
		cfg.Provider = g.provider
	}
	if g.params != "" {
		params := map[string]any{}
		if err := json.Unmarshal([]byte(g.params), &params); err != nil {
			return nil, errors.Wrap(err, errors.Validation, "failed to parse provider params")
		}
		cfg.Params = params
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	return cfg, nil
}

// open connects to the configured store and returns a seeder writing to it
func (g *globalFlags) open(ctx context.Context, cfg *docseed.Config) (*docseed.Seeder, error) {
	logger, err := docseed.NewLogger(cfg.LogLevel, map[string]any{"provider": cfg.Provider})
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, cfg.Provider, cfg.Params)
	if err != nil {
		return nil, err
	}
	return docseed.New(s, docseed.WithLogger(logger)), nil
}
