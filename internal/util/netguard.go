package util

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"
)

// ErrBlockedAddress is returned when a dial targets a loopback, private,
// link-local or unspecified address while private networks are blocked.
var ErrBlockedAddress = errors.New("destination address is not publicly routable")

// IsPublicAddr reports whether addr may be dialled with private networks blocked
func IsPublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsValid() &&
		!addr.IsLoopback() &&
		!addr.IsPrivate() &&
		!addr.IsLinkLocalUnicast() &&
		!addr.IsLinkLocalMulticast() &&
		!addr.IsInterfaceLocalMulticast() &&
		!addr.IsUnspecified()
}

// blockPrivateControl runs after DNS resolution, so rebinding a public
// name to an internal address is caught as well.
func blockPrivateControl(network, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%s: %w", address, ErrBlockedAddress)
	}
	if !IsPublicAddr(ap.Addr()) {
		return fmt.Errorf("%s: %w", ap.Addr(), ErrBlockedAddress)
	}
	return nil
}

// BlockPrivateNetworks makes transport refuse connections to non-public
// addresses. A configured proxy is dialled through the same check.
func BlockPrivateNetworks(transport *http.Transport) {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   blockPrivateControl,
	}
	transport.DialContext = dialer.DialContext
}
