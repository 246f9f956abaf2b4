package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type createOptions struct {
	RequestPath string
}

func newCreateCommand(global *globalOptions) *cobra.Command {
	opts := &createOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Validate a new connection and allocate its device ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(opts.RequestPath)
			if err != nil {
				return err
			}
			if req.Kind != KindConnection {
				return fmt.Errorf("create only accepts %s requests, got %q", KindConnection, req.Kind)
			}
			creq, err := req.connectionRequest()
			if err != nil {
				return err
			}

			a, err := newApp(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.svc.CreateConnection(cmd.Context(), creq, req.DPD)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&opts.RequestPath, "request", "f", "", "request file (YAML)")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}
