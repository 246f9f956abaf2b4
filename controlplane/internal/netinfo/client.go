package netinfo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"vpnaas/controlplane/internal/model"
)

const (
	pathRouter = "/v2.0/routers/{id}"
	pathSubnet = "/v2.0/subnets/{id}"
	pathPorts  = "/v2.0/ports"
)

var ErrUnauthorized = errors.New("unauthorized")

// Client reads routers, subnets and router ports from a networking API.
type Client struct {
	resty *resty.Client
}

type fixedIP struct {
	SubnetID  string `json:"subnet_id"`
	IPAddress string `json:"ip_address"`
}

type gatewayInfo struct {
	NetworkID        string    `json:"network_id"`
	ExternalFixedIPs []fixedIP `json:"external_fixed_ips"`
}

type routerResponse struct {
	Router struct {
		ID                  string       `json:"id"`
		ExternalGatewayInfo *gatewayInfo `json:"external_gateway_info"`
	} `json:"router"`
}

type subnetResponse struct {
	Subnet model.Subnet `json:"subnet"`
}

type portsResponse struct {
	Ports []struct {
		ID string `json:"id"`
	} `json:"ports"`
}

func NewClient(baseURL, token string) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10 * time.Second)
	if token != "" {
		client.SetHeader("X-Auth-Token", token)
	}
	return &Client{resty: client}
}

func (c *Client) GetRouter(ctx context.Context, routerID string) (model.Router, error) {
	var result routerResponse
	resp, err := c.resty.R().
		SetContext(ctx).
		SetPathParam("id", routerID).
		SetResult(&result).
		Get(pathRouter)
	if err := checkResponse(resp, err, "router "+routerID); err != nil {
		return model.Router{}, err
	}

	router := model.Router{ID: result.Router.ID}
	if gw := result.Router.ExternalGatewayInfo; gw != nil {
		router.ExternalGateway = &model.ExternalGateway{NetworkID: gw.NetworkID}
		for _, ip := range gw.ExternalFixedIPs {
			router.ExternalGateway.FixedIPs = append(router.ExternalGateway.FixedIPs, ip.IPAddress)
		}
	}
	return router, nil
}

func (c *Client) GetSubnet(ctx context.Context, subnetID string) (model.Subnet, error) {
	var result subnetResponse
	resp, err := c.resty.R().
		SetContext(ctx).
		SetPathParam("id", subnetID).
		SetResult(&result).
		Get(pathSubnet)
	if err := checkResponse(resp, err, "subnet "+subnetID); err != nil {
		return model.Subnet{}, err
	}
	return result.Subnet, nil
}

// IsSubnetAttached reports whether the router owns a port on the subnet.
func (c *Client) IsSubnetAttached(ctx context.Context, subnetID, routerID string) (bool, error) {
	var result portsResponse
	resp, err := c.resty.R().
		SetContext(ctx).
		SetQueryParam("device_id", routerID).
		SetQueryParam("fixed_ips", "subnet_id="+subnetID).
		SetResult(&result).
		Get(pathPorts)
	if err := checkResponse(resp, err, "ports of router "+routerID); err != nil {
		return false, err
	}
	return len(result.Ports) > 0, nil
}

func checkResponse(resp *resty.Response, err error, what string) error {
	if err != nil {
		return err
	}
	switch resp.StatusCode() {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case http.StatusUnauthorized:
		return ErrUnauthorized
	}
	if resp.IsError() {
		return fmt.Errorf("%s: %s", what, resp.String())
	}
	return nil
}
