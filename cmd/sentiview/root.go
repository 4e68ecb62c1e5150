package main

import (
	"fmt"
	"os"

	"github.com/oukeidos/sentiview/internal/cleanup"
	"github.com/oukeidos/sentiview/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func execute() {
	cmd := newRootCmd()
	err := cmd.Execute()
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	analyzeOpts := analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "sentiview",
		Short: "Line-by-line sentiment analysis",
		Long: `sentiview classifies every non-blank line of a text as Positive or Negative
and prints the results, an overall verdict and a bar chart of the counts.

Running "sentiview <file>" is the same as "sentiview analyze <file>".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !hasAnyFlagSet(cmd) && isTerminal(int(os.Stdin.Fd())) {
				return cmd.Help()
			}
			if len(args) > 0 && isSubcommand(cmd, args[0]) {
				_ = cmd.Usage()
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return runAnalyze(cmd, args, &analyzeOpts)
		},
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)

	addAnalyzeFlags(cmd, &analyzeOpts)

	cmd.AddCommand(
		newAnalyzeCmd(),
		newModelsCmd(),
		newEnvCmd(),
		newAboutCmd(),
		newVersionCmd(),
	)

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			sub.SetUsageTemplate(subcommandUsageTemplate)
			break
		}
	}
	return cmd
}

func hasAnyFlagSet(cmd *cobra.Command) bool {
	changed := false
	cmd.Flags().Visit(func(_ *pflag.Flag) {
		changed = true
	})
	return changed
}

func isSubcommand(cmd *cobra.Command, name string) bool {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}
