//go:build !linux

package speedtest

import (
	"net"

	log "github.com/sirupsen/logrus"
)

// newInterfaceDialer ignores the interface, binding to a device needs SO_BINDTODEVICE
func newInterfaceDialer(iface string) *net.Dialer {
	log.Warnf("Binding to interface %s is only supported on linux, ignoring", iface)
	return baseDialer()
}
