package main

import (
	"fmt"

	"github.com/oukeidos/sentiview/internal/auth"
	"github.com/oukeidos/sentiview/internal/metadata"
	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List backends and their models",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, b := range metadata.Backends() {
				key := "no key needed"
				if b.NeedsAPIKey() {
					key = "key: " + auth.EnvVar(string(b)) + " or keychain"
				}
				fmt.Fprintf(out, "%s (%s)\n", b.DisplayName(), key)
				def := metadata.DefaultModel(b)
				for _, m := range metadata.ModelsFor(b) {
					mark := " "
					if m.ID == def {
						mark = "*"
					}
					fmt.Fprintf(out, "  %s %-28s %s\n", mark, m.ID, m.Label)
				}
			}
			fmt.Fprintln(out, "\n* default model. Ollama accepts any locally pulled model name.")
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
