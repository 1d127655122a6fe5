package commands

import (
	"github.com/spf13/cobra"
)

var catalogPath string

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "acctl",
		Short:         "Operator tools for the air conditioner advisor bot",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&catalogPath, "catalog", "data/ac_models.json", "path to the catalog file")

	root.AddCommand(calcCmd(), catalogCmd(), statsCmd())
	return root
}
