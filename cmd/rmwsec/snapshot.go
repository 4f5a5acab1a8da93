package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	rmw "github.com/goliatone/go-rmw"
	"github.com/goliatone/go-rmw/core"
	"github.com/goliatone/go-rmw/endpoint"
	sqlstore "github.com/goliatone/go-rmw/store/sql"
)

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Validate, import and export endpoint snapshots",
	}
	cmd.AddCommand(snapshotValidateCmd())
	cmd.AddCommand(snapshotImportCmd())
	cmd.AddCommand(snapshotExportCmd())
	return cmd
}

func snapshotValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a snapshot document against the endpoint schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading snapshot: %w", err)
			}
			snapshot, err := endpoint.DecodeSnapshot(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d endpoint(s) valid\n", snapshot.ServiceName, len(snapshot.Endpoints))
			return nil
		},
	}
}

func snapshotImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Record the endpoints of a snapshot in the catalog database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading snapshot: %w", err)
			}
			return withCatalogService(cmd, func(svc *rmw.Service) error {
				name, count, err := svc.ImportSnapshot(commandContext(cmd), data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: recorded %d endpoint(s)\n", name, count)
				return nil
			})
		},
	}
}

func snapshotExportCmd() *cobra.Command {
	var serviceName string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the recorded endpoints of a service as a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalogService(cmd, func(svc *rmw.Service) error {
				data, err := svc.ExportSnapshot(commandContext(cmd), serviceName)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&serviceName, "service", "", "Service name (required)")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}

// withCatalogService opens the database named by RMW_DATABASE_DRIVER and
// RMW_DATABASE_DSN and runs fn with a service backed by it.
func withCatalogService(cmd *cobra.Command, fn func(svc *rmw.Service) error) error {
	cfg, err := core.LoadConfig(commandContext(cmd), rmw.Config{}, core.NewCfgxConfigProvider(core.EnvRawConfigLoader{}), nil)
	if err != nil {
		return err
	}
	client, err := sqlstore.OpenClient(commandContext(cmd), cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = client.DB().Close() }()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		return err
	}
	svc, err := newService(rmw.Config{}, rmw.WithRepositoryFactory(factory))
	if err != nil {
		return err
	}
	return fn(svc)
}
