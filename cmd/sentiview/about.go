package main

import (
	"fmt"

	"github.com/oukeidos/sentiview/internal/metadata"
	"github.com/oukeidos/sentiview/internal/version"
	"github.com/spf13/cobra"
)

func newAboutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "about",
		Short: "Show a short description and link",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "sentiview: line-by-line Positive/Negative sentiment analysis")
			fmt.Fprintf(out, "Label set: %s\n", metadata.ReferenceModel)
			fmt.Fprintln(out, "https://github.com/oukeidos/sentiview")
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
