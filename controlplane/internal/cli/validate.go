package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type validateOptions struct {
	RequestPath string
}

func newValidateCommand(global *globalOptions) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a connection, policy, VPN service or endpoint group",
		Long: "Validate reads a request file and runs the configured backend's checks.\n" +
			"For connections the normalized connection is printed: DPD defaults applied\n" +
			"and the peer address resolved.",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(opts.RequestPath)
			if err != nil {
				return err
			}
			a, err := newApp(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := runValidate(cmd.Context(), a, req)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&opts.RequestPath, "request", "f", "", "request file (YAML)")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func runValidate(ctx context.Context, a *app, req requestFile) (any, error) {
	switch req.Kind {
	case KindConnection:
		creq, err := req.connectionRequest()
		if err != nil {
			return nil, err
		}
		if err := a.svc.ValidateConnection(ctx, creq, req.DPD, req.Previous); err != nil {
			return nil, err
		}
		return creq.Connection, nil
	case KindIkePolicy:
		p, err := requireSection(req.IkePolicy, "ike_policy")
		if err != nil {
			return nil, err
		}
		p = ikeWithDefaults(p)
		return p, a.svc.ValidateIkePolicy(ctx, p)
	case KindIpsecPolicy:
		p, err := requireSection(req.IpsecPolicy, "ipsec_policy")
		if err != nil {
			return nil, err
		}
		p = ipsecWithDefaults(p)
		return p, a.svc.ValidateIpsecPolicy(ctx, p)
	case KindVPNService:
		svc, err := requireSection(req.VPNService, "vpn_service")
		if err != nil {
			return nil, err
		}
		return svc, a.svc.ValidateVPNService(ctx, svc)
	case KindEndpointGroup:
		g, err := requireSection(req.EndpointGroup, "endpoint_group")
		if err != nil {
			return nil, err
		}
		return g, a.svc.ValidateEndpointGroup(ctx, g)
	}
	return nil, fmt.Errorf("unknown request kind %q", req.Kind)
}
