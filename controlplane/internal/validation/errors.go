package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a validation failure condition.
type Kind string

const (
	KindDpdInterval                      Kind = "DpdIntervalError"
	KindMtuTooSmall                      Kind = "MtuTooSmall"
	KindPeerAddressUnresolved            Kind = "PeerAddressUnresolved"
	KindNoMatchingExternalSubnet         Kind = "NoMatchingExternalSubnet"
	KindRouterNotExternal                Kind = "RouterNotExternal"
	KindSubnetNotOnRouter                Kind = "SubnetNotOnRouter"
	KindInvalidEndpointGroup             Kind = "InvalidEndpointGroup"
	KindMissingPeerCidrs                 Kind = "MissingPeerCidrs"
	KindPeerCidrsInvalid                 Kind = "PeerCidrsInvalid"
	KindInvalidPeerCidr                  Kind = "InvalidPeerCidr"
	KindMissingRequiredEndpointGroup     Kind = "MissingRequiredEndpointGroup"
	KindInvalidEndpointInEndpointGroup   Kind = "InvalidEndpointInEndpointGroup"
	KindNonExistingSubnetInEndpointGroup Kind = "NonExistingSubnetInEndpointGroup"
	KindWrongEndpointGroupType           Kind = "WrongEndpointGroupType"
	KindMissingEndpointForEndpointGroup  Kind = "MissingEndpointForEndpointGroup"
	KindMixedIPVersionsForIPSecEndpoints Kind = "MixedIPVersionsForIPSecEndpoints"
	KindMixedIPVersionsForConnection     Kind = "MixedIPVersionsForIPSecConnection"
	KindMixedIPVersionsForPeerCidrs      Kind = "MixedIPVersionsForPeerCidrs"
	KindValidationFailure                Kind = "ValidationFailure"
	KindInvalidRequest                   Kind = "InvalidRequest"
)

// Error is a rejected input. It carries the offending attribute and value
// so callers can render their own message; Error() gives a default one.
type Error struct {
	Kind     Kind
	Resource string
	Field    string
	Value    any
	// Limit is the bound the value violated, when there is one.
	Limit any
	// IDs of the router, subnet or endpoint group involved.
	RouterID string
	SubnetID string
	GroupID  string
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the Err* sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrDpdInterval                      = &Error{Kind: KindDpdInterval}
	ErrMtuTooSmall                      = &Error{Kind: KindMtuTooSmall}
	ErrPeerAddressUnresolved            = &Error{Kind: KindPeerAddressUnresolved}
	ErrNoMatchingExternalSubnet         = &Error{Kind: KindNoMatchingExternalSubnet}
	ErrRouterNotExternal                = &Error{Kind: KindRouterNotExternal}
	ErrSubnetNotOnRouter                = &Error{Kind: KindSubnetNotOnRouter}
	ErrInvalidEndpointGroup             = &Error{Kind: KindInvalidEndpointGroup}
	ErrMissingPeerCidrs                 = &Error{Kind: KindMissingPeerCidrs}
	ErrPeerCidrsInvalid                 = &Error{Kind: KindPeerCidrsInvalid}
	ErrInvalidPeerCidr                  = &Error{Kind: KindInvalidPeerCidr}
	ErrMissingRequiredEndpointGroup     = &Error{Kind: KindMissingRequiredEndpointGroup}
	ErrInvalidEndpointInEndpointGroup   = &Error{Kind: KindInvalidEndpointInEndpointGroup}
	ErrNonExistingSubnetInEndpointGroup = &Error{Kind: KindNonExistingSubnetInEndpointGroup}
	ErrWrongEndpointGroupType           = &Error{Kind: KindWrongEndpointGroupType}
	ErrMissingEndpointForEndpointGroup  = &Error{Kind: KindMissingEndpointForEndpointGroup}
	ErrMixedIPVersionsForIPSecEndpoints = &Error{Kind: KindMixedIPVersionsForIPSecEndpoints}
	ErrMixedIPVersionsForConnection     = &Error{Kind: KindMixedIPVersionsForConnection}
	ErrMixedIPVersionsForPeerCidrs      = &Error{Kind: KindMixedIPVersionsForPeerCidrs}
	ErrValidationFailure                = &Error{Kind: KindValidationFailure}
	ErrInvalidRequest                   = &Error{Kind: KindInvalidRequest}
)

func IsValidation(err error) bool {
	var v *Error
	return errors.As(err, &v)
}

// KindOf returns the kind of the first validation error in err's chain,
// or "" when there is none.
func KindOf(err error) Kind {
	var v *Error
	if errors.As(err, &v) {
		return v.Kind
	}
	return ""
}

func dpdIntervalError(interval, timeout int) *Error {
	return &Error{
		Kind:     KindDpdInterval,
		Resource: ResourceSiteConnection,
		Field:    "dpd_timeout",
		Value:    timeout,
		Limit:    interval,
		Msg:      fmt.Sprintf("ipsec_site_connection dpd_timeout %d must be greater than dpd_interval %d", timeout, interval),
	}
}

func mtuTooSmall(mtu, version, minimum int) *Error {
	return &Error{
		Kind:     KindMtuTooSmall,
		Resource: ResourceSiteConnection,
		Field:    "mtu",
		Value:    mtu,
		Limit:    minimum,
		Msg:      fmt.Sprintf("ipsec_site_connection MTU %d is too small for IPv%d, minimum is %d", mtu, version, minimum),
	}
}

func peerAddressUnresolved(address string, err error) *Error {
	return &Error{
		Kind:     KindPeerAddressUnresolved,
		Resource: ResourceSiteConnection,
		Field:    "peer_address",
		Value:    address,
		Msg:      fmt.Sprintf("peer address %s cannot be resolved", address),
		Err:      err,
	}
}

func noMatchingExternalSubnet(routerID string, version int) *Error {
	return &Error{
		Kind:     KindNoMatchingExternalSubnet,
		Resource: ResourceRouter,
		Field:    "external_gateway_info",
		Value:    ipVersionName(version),
		RouterID: routerID,
		Msg:      fmt.Sprintf("router %s gateway network doesn't have an %s subnet", routerID, ipVersionName(version)),
	}
}

func routerNotExternal(routerID string) *Error {
	return &Error{
		Kind:     KindRouterNotExternal,
		Resource: ResourceRouter,
		Field:    "external_gateway_info",
		RouterID: routerID,
		Msg:      fmt.Sprintf("router %s has no external network gateway set", routerID),
	}
}

func subnetNotOnRouter(subnetID, routerID string) *Error {
	return &Error{
		Kind:     KindSubnetNotOnRouter,
		Resource: ResourceVPNService,
		Field:    "subnet_id",
		Value:    subnetID,
		RouterID: routerID,
		SubnetID: subnetID,
		Msg:      fmt.Sprintf("subnet %s is not connected to router %s", subnetID, routerID),
	}
}

func invalidEndpointGroup(which []string) *Error {
	return &Error{
		Kind:     KindInvalidEndpointGroup,
		Resource: ResourceSiteConnection,
		Field:    strings.Join(which, ","),
		Msg:      fmt.Sprintf("endpoint group %s cannot be specified when the VPN service has a subnet", strings.Join(which, ", ")),
	}
}

func missingPeerCidrs() *Error {
	return &Error{
		Kind:     KindMissingPeerCidrs,
		Resource: ResourceSiteConnection,
		Field:    "peer_cidrs",
		Msg:      "missing peer CIDRs for IPsec site-to-site connection",
	}
}

func peerCidrsInvalid(cidrs []string) *Error {
	return &Error{
		Kind:     KindPeerCidrsInvalid,
		Resource: ResourceSiteConnection,
		Field:    "peer_cidrs",
		Value:    cidrs,
		Msg:      "peer CIDRs cannot be specified when using endpoint groups",
	}
}

func invalidPeerCidr(cidr string, err error) *Error {
	return &Error{
		Kind:     KindInvalidPeerCidr,
		Resource: ResourceSiteConnection,
		Field:    "peer_cidrs",
		Value:    cidr,
		Msg:      fmt.Sprintf("peer CIDR %q is not a valid CIDR", cidr),
		Err:      err,
	}
}

func missingRequiredEndpointGroup(which []string) *Error {
	return &Error{
		Kind:     KindMissingRequiredEndpointGroup,
		Resource: ResourceSiteConnection,
		Field:    strings.Join(which, ","),
		Msg:      fmt.Sprintf("missing endpoint group %s for IPsec site-to-site connection", strings.Join(which, ", ")),
	}
}

func invalidEndpointInEndpointGroup(groupID, groupType, endpoint, why string) *Error {
	return &Error{
		Kind:     KindInvalidEndpointInEndpointGroup,
		Resource: ResourceEndpointGroup,
		Field:    "endpoints",
		Value:    endpoint,
		GroupID:  groupID,
		Msg:      fmt.Sprintf("endpoint %q is invalid for group type %q: %s", endpoint, groupType, why),
	}
}

func nonExistingSubnetInEndpointGroup(groupID, subnetID string) *Error {
	return &Error{
		Kind:     KindNonExistingSubnetInEndpointGroup,
		Resource: ResourceEndpointGroup,
		Field:    "endpoints",
		Value:    subnetID,
		GroupID:  groupID,
		SubnetID: subnetID,
		Msg:      fmt.Sprintf("subnet %s in endpoint group does not exist", subnetID),
	}
}

func wrongEndpointGroupType(which, groupID, groupType, expected string) *Error {
	return &Error{
		Kind:     KindWrongEndpointGroupType,
		Resource: ResourceEndpointGroup,
		Field:    "type",
		Value:    groupType,
		Limit:    expected,
		GroupID:  groupID,
		Msg:      fmt.Sprintf("%s endpoint group %s type is %q and should be %q", which, groupID, groupType, expected),
	}
}

func missingEndpointForEndpointGroup(groupID string) *Error {
	return &Error{
		Kind:     KindMissingEndpointForEndpointGroup,
		Resource: ResourceEndpointGroup,
		Field:    "endpoints",
		GroupID:  groupID,
		Msg:      fmt.Sprintf("no endpoints specified for endpoint group %q", groupID),
	}
}

func mixedIPVersionsForEndpoints(groupID string) *Error {
	return &Error{
		Kind:     KindMixedIPVersionsForIPSecEndpoints,
		Resource: ResourceEndpointGroup,
		Field:    "endpoints",
		GroupID:  groupID,
		Msg:      fmt.Sprintf("endpoints in group %s do not have the same IP version", groupID),
	}
}

func mixedIPVersionsForConnection(local, peer int) *Error {
	return &Error{
		Kind:     KindMixedIPVersionsForConnection,
		Resource: ResourceSiteConnection,
		Value:    ipVersionName(peer),
		Limit:    ipVersionName(local),
		Msg:      fmt.Sprintf("IP versions are not compatible between peer (%s) and local (%s) endpoints", ipVersionName(peer), ipVersionName(local)),
	}
}

func mixedIPVersionsForPeerCidrs(cidrs []string) *Error {
	return &Error{
		Kind:     KindMixedIPVersionsForPeerCidrs,
		Resource: ResourceSiteConnection,
		Field:    "peer_cidrs",
		Value:    cidrs,
		Msg:      "peer CIDRs do not have the same IP version",
	}
}

// Failure is the generic rejection of an attribute value a backend does
// not support.
func Failure(backend, resource, field string, value any, reason string) *Error {
	msg := fmt.Sprintf("%s does not support %s attribute %s with value '%v'", backend, resource, field, value)
	if reason != "" {
		msg += " (" + reason + ")"
	}
	return &Error{
		Kind:     KindValidationFailure,
		Resource: resource,
		Field:    field,
		Value:    value,
		Msg:      msg,
	}
}
