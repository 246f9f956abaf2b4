package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vpnaas/controlplane/internal/model"
)

// mappingView is a stored mapping with the names the device uses.
type mappingView struct {
	model.IdentifierMapping `yaml:",inline"`
	DeviceIDs               model.DeviceIDs `json:"device_ids" yaml:"device_ids"`
}

func newMappingCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Inspect and release device id mappings",
	}
	cmd.AddCommand(
		newMappingShowCommand(global),
		newMappingListCommand(global),
		newMappingDeleteCommand(global),
	)
	return cmd
}

func newMappingShowCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <connection-id>",
		Short: "Show the device ids of a connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			m, err := a.mapper.MappingFor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), mappingView{IdentifierMapping: m, DeviceIDs: m.DeviceIDs()})
		},
	}
}

func newMappingListCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all device id mappings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			rows, err := a.mapper.ListMappings(cmd.Context())
			if err != nil {
				return err
			}
			views := make([]mappingView, 0, len(rows))
			for _, m := range rows {
				views = append(views, mappingView{IdentifierMapping: m, DeviceIDs: m.DeviceIDs()})
			}
			return a.print(cmd.OutOrStdout(), views)
		},
	}
}

func newMappingDeleteCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <connection-id>",
		Short: "Release the device ids of a deleted connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			deleted, err := a.mapper.DeleteMapping(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "no mapping for connection %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mapping for connection %s deleted\n", args[0])
			return nil
		},
	}
}
