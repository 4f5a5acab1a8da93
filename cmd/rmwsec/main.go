// Command rmwsec resolves security credential bundles and manages endpoint
// snapshots from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	rmw "github.com/goliatone/go-rmw"
	"github.com/goliatone/go-rmw/core"
)

const version = "0.1.0"

type cliOptions struct {
	envFile string
	output  string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &cliOptions{}
	rootCmd := &cobra.Command{
		Use:           "rmwsec",
		Short:         "Security bundle and endpoint catalog tooling",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(opts.envFile)
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Load environment variables from this dotenv file (default .env when present)")
	rootCmd.PersistentFlags().StringVar(&opts.output, "output", "text", "Output format: text, json")

	rootCmd.AddCommand(resolveCmd(opts))
	rootCmd.AddCommand(snapshotCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rmwsec version %s\n", version)
		},
	}
}

// loadEnvFile never overrides variables already present in the environment.
func loadEnvFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// newService layers the environment under the flag values in runtime.
func newService(runtime rmw.Config, extra ...rmw.Option) (*rmw.Service, error) {
	opts := append([]rmw.Option{
		rmw.WithConfigProvider(core.NewCfgxConfigProvider(core.EnvRawConfigLoader{})),
	}, extra...)
	return rmw.NewService(runtime, opts...)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
