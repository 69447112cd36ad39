package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/expofast/internal/messages"
)

type rootOptions struct {
	verbose    bool
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, messages.RootVerboseFlag)
	cmd.Flags().StringVar(&opts.configPath, "config", "", messages.RootConfigFlag)
	return cmd
}
