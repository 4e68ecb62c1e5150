package main

import (
	"fmt"
	"strings"

	"github.com/oukeidos/sentiview/internal/auth"
	"github.com/spf13/cobra"
)

type envOptions struct {
	service string
}

func newEnvCmd() *cobra.Command {
	opts := envOptions{}
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage API keys in the OS keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvStatus(cmd, &opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.PersistentFlags().StringVar(&opts.service, "service", "gemini", "Service to manage ("+strings.Join(auth.Services(), " or ")+")")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "setup",
			Short: "Save an API key to the keychain (prompt only)",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return runEnvSetup(cmd, &opts) },
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Delete a key from the keychain",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return runEnvDelete(cmd, &opts) },
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show key status (default if no action given)",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return runEnvStatus(cmd, &opts) },
		},
	)
	for _, sub := range cmd.Commands() {
		sub.SetUsageTemplate(subcommandUsageTemplate)
	}
	return cmd
}

func checkService(service string) (string, error) {
	svc := strings.ToLower(strings.TrimSpace(service))
	if auth.EnvVar(svc) == "" {
		return "", fmt.Errorf("invalid service %q: must be %s", service, strings.Join(auth.Services(), " or "))
	}
	return svc, nil
}

func runEnvSetup(cmd *cobra.Command, opts *envOptions) error {
	svc, err := checkService(opts.service)
	if err != nil {
		return err
	}
	key, err := promptForKey(fmt.Sprintf("%s API Key: ", svc))
	if err != nil {
		return fmt.Errorf("error reading key: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("API key is required for setup")
	}
	if err := auth.SaveKey(svc, key); err != nil {
		return fmt.Errorf("error saving key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s API key to keychain.\n", svc)
	return nil
}

func runEnvDelete(cmd *cobra.Command, opts *envOptions) error {
	svc, err := checkService(opts.service)
	if err != nil {
		return err
	}
	if err := auth.DeleteKey(svc); err != nil {
		return fmt.Errorf("error deleting key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s API key from keychain.\n", svc)
	return nil
}

func runEnvStatus(cmd *cobra.Command, opts *envOptions) error {
	svc, err := checkService(opts.service)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if getStatus(svc) {
		fmt.Fprintf(out, "%s API Key: Found (source=Keychain)\n", svc)
		return nil
	}
	if _, ok := getEnvKey(svc); ok {
		fmt.Fprintf(out, "%s API Key: Found (source=%s %s; disabled by default, use --allow-env)\n", svc, sourceEnv, auth.EnvVar(svc))
		return nil
	}
	fmt.Fprintf(out, "%s API Key: Not Found (keychain empty, %s not set)\n", svc, auth.EnvVar(svc))
	return nil
}
