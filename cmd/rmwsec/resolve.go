package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	rmw "github.com/goliatone/go-rmw"
	"github.com/goliatone/go-rmw/core"
	"github.com/goliatone/go-rmw/security"
)

type resolveOutput struct {
	RootDirectory string            `json:"root_directory"`
	Digest        string            `json:"digest"`
	Files         map[string]string `json:"files"`
}

func resolveCmd(opts *cliOptions) *cobra.Command {
	var (
		root     string
		keystore string
		enclave  string
		prefix   string
		pkcs11   bool
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the credential bundle of an enclave",
		RunE: func(cmd *cobra.Command, args []string) error {
			runtime := rmw.Config{Security: core.SecurityConfig{
				Enabled:        true,
				Strategy:       core.SecurityStrategyEnforce,
				Keystore:       keystore,
				Enclave:        enclave,
				RootDirectory:  root,
				ValuePrefix:    prefix,
				SupportsPKCS11: pkcs11,
			}}
			svc, err := newService(runtime)
			if err != nil {
				return err
			}
			bundle, err := svc.SecurityFiles(commandContext(cmd), rmw.SecurityFilesRequest{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.output == "json" {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(resolveOutput{
					RootDirectory: bundle.RootDirectory,
					Digest:        bundle.Digest,
					Files:         bundle.Files,
				})
			}
			files := security.CredentialMap(bundle.Files)
			for _, attribute := range files.Attributes() {
				value, _ := files.Get(attribute)
				fmt.Fprintf(out, "%-15s %s\n", attribute, value)
			}
			fmt.Fprintf(out, "digest          %s\n", bundle.Digest)
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "Directory holding the bundle (or set RMW_SECURITY_ROOT_DIRECTORY)")
	cmd.Flags().StringVar(&keystore, "keystore", "", "Keystore directory (or set ROS_SECURITY_KEYSTORE)")
	cmd.Flags().StringVar(&enclave, "enclave", "", "Fully qualified enclave name (or set ROS_SECURITY_ENCLAVE_OVERRIDE)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Prefix for file values (default file://)")
	cmd.Flags().BoolVar(&pkcs11, "pkcs11", false, "Accept PKCS#11 URI files")
	return cmd
}
