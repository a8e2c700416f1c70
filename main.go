package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/pokepoll/cliparse"
)

var (
	cfgFile  string
	flagsCfg = cliparse.Default()
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pokepoll",
		Short:         "Head-to-head Pokemon polls with one vote per visitor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./pokepoll.yaml if present)")
	cliparse.RegisterFlags(root.PersistentFlags(), &flagsCfg)

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(pollCmd())

	return root
}

// loadConfig layers file, env and the flags set on cmd, then validates.
func loadConfig(cmd *cobra.Command) (cliparse.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("pokepoll.yaml"); err == nil {
			path = "pokepoll.yaml"
		}
	}

	cfg, err := cliparse.Load(path)
	if err != nil {
		return cliparse.Config{}, fmt.Errorf("load config: %w", err)
	}
	cliparse.ApplyFlags(cmd.Flags(), flagsCfg, &cfg)

	if err := cfg.Validate(); err != nil {
		return cliparse.Config{}, err
	}
	return cfg, nil
}
