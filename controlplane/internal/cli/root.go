package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand returns the controlplane command tree.
func NewRootCommand() *cobra.Command {
	global := &globalOptions{}

	root := &cobra.Command{
		Use:           "controlplane",
		Short:         "Validate IPsec site-to-site configuration and manage device ids",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&global.ConfigPath, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().StringVarP(&global.Output, "output", "o", "yaml", "output format: yaml or json")
	root.PersistentFlags().StringVar(&global.MetricsFile, "metrics-textfile", "", "write prometheus metrics to this file on exit")

	root.AddCommand(
		newValidateCommand(global),
		newCreateCommand(global),
		newMappingCommand(global),
	)
	return root
}
